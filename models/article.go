package models

import "gorm.io/datatypes"

const DefaultReadTime = 5

// Article is a blog post.
type Article struct {
	Base
	Title      string                      `json:"title" gorm:"type:text;not null"`
	Slug       string                      `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Excerpt    *string                     `json:"excerpt" gorm:"type:text"`
	Content    *string                     `json:"content" gorm:"type:text"`
	Category   *string                     `json:"category" gorm:"type:text"`
	CoverImage *string                     `json:"cover_image" gorm:"type:text"`
	ReadTime   int                         `json:"read_time" gorm:"not null"`
	Tags       datatypes.JSONSlice[string] `json:"tags" gorm:"not null"`
	Featured   bool                        `json:"featured" gorm:"not null"`
	Status     string                      `json:"status" gorm:"type:text;not null;index"`
}

type ArticleInput struct {
	Title      *string          `json:"title"`
	Slug       *string          `json:"slug"`
	Excerpt    Nullable[string] `json:"excerpt"`
	Content    Nullable[string] `json:"content"`
	Category   Nullable[string] `json:"category"`
	CoverImage Nullable[string] `json:"cover_image"`
	ReadTime   *int             `json:"read_time" validate:"omitempty,min=1"`
	Tags       *[]string        `json:"tags"`
	Featured   *bool            `json:"featured"`
	Status     *string          `json:"status" validate:"omitempty,oneof=draft published"`
}

func (in ArticleInput) ValidateCreate() error {
	if err := checkRequired(required("title", notBlank(in.Title)), required("slug", notBlank(in.Slug))); err != nil {
		return err
	}
	return validateStruct(in)
}

func (in ArticleInput) ValidateUpdate() error {
	if err := checkRequired(keep("title", in.Title), keep("slug", in.Slug)); err != nil {
		return err
	}
	return validateStruct(in)
}

func (in ArticleInput) Model() *Article {
	return &Article{
		Title:      *in.Title,
		Slug:       *in.Slug,
		Excerpt:    in.Excerpt.Ptr(),
		Content:    in.Content.Ptr(),
		Category:   in.Category.Ptr(),
		CoverImage: in.CoverImage.Ptr(),
		ReadTime:   orDefault(in.ReadTime, DefaultReadTime),
		Tags:       orEmpty(in.Tags),
		Featured:   orDefault(in.Featured, false),
		Status:     orDefault(in.Status, StatusDraft),
	}
}

func (in ArticleInput) Updates() map[string]any {
	p := patch{}
	coalesce(p, "title", in.Title)
	coalesce(p, "slug", in.Slug)
	coalesce(p, "read_time", in.ReadTime)
	coalesce(p, "featured", in.Featured)
	coalesce(p, "status", in.Status)
	coalesceJSON(p, "tags", in.Tags)
	assign(p, "excerpt", in.Excerpt)
	assign(p, "content", in.Content)
	assign(p, "category", in.Category)
	assign(p, "cover_image", in.CoverImage)
	return stamp(p)
}
