package models

// Category groups projects on the portfolio.
type Category struct {
	Base
	Name        string  `json:"name" gorm:"type:text;not null"`
	Slug        string  `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Description *string `json:"description" gorm:"type:text"`
	Icon        *string `json:"icon" gorm:"type:text"`
	Color       *string `json:"color" gorm:"type:text"`
	SortOrder   int     `json:"sort_order" gorm:"not null"`
}

type CategoryInput struct {
	Name        *string          `json:"name"`
	Slug        *string          `json:"slug"`
	Description Nullable[string] `json:"description"`
	Icon        Nullable[string] `json:"icon"`
	Color       Nullable[string] `json:"color"`
	SortOrder   *int             `json:"sort_order"`
}

func (in CategoryInput) ValidateCreate() error {
	return checkRequired(required("name", notBlank(in.Name)), required("slug", notBlank(in.Slug)))
}

func (in CategoryInput) ValidateUpdate() error {
	return checkRequired(keep("name", in.Name), keep("slug", in.Slug))
}

func (in CategoryInput) Model() *Category {
	return &Category{
		Name:        *in.Name,
		Slug:        *in.Slug,
		Description: in.Description.Ptr(),
		Icon:        in.Icon.Ptr(),
		Color:       in.Color.Ptr(),
		SortOrder:   orDefault(in.SortOrder, 0),
	}
}

func (in CategoryInput) Updates() map[string]any {
	p := patch{}
	coalesce(p, "name", in.Name)
	coalesce(p, "slug", in.Slug)
	coalesce(p, "sort_order", in.SortOrder)
	assign(p, "description", in.Description)
	assign(p, "icon", in.Icon)
	assign(p, "color", in.Color)
	return stamp(p)
}
