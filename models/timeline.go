package models

import "gorm.io/datatypes"

// Education is a degree or course entry on the timeline.
type Education struct {
	Base
	Institution  string                      `json:"institution" gorm:"type:text;not null"`
	Degree       string                      `json:"degree" gorm:"type:text;not null"`
	FieldOfStudy *string                     `json:"field_of_study" gorm:"type:text"`
	Location     *string                     `json:"location" gorm:"type:text"`
	StartDate    Date                        `json:"start_date" gorm:"type:date;not null"`
	EndDate      *Date                       `json:"end_date" gorm:"type:date"`
	Current      bool                        `json:"current" gorm:"not null"`
	Description  *string                     `json:"description" gorm:"type:text"`
	Grade        *string                     `json:"grade" gorm:"type:text"`
	Achievements datatypes.JSONSlice[string] `json:"achievements" gorm:"not null"`
	LogoURL      *string                     `json:"logo_url" gorm:"type:text"`
	SortOrder    int                         `json:"sort_order" gorm:"not null;index"`
	Status       string                      `json:"status" gorm:"type:text;not null;index"`
}

func (Education) TableName() string {
	return "education"
}

type EducationInput struct {
	Institution  *string          `json:"institution"`
	Degree       *string          `json:"degree"`
	FieldOfStudy Nullable[string] `json:"field_of_study"`
	Location     Nullable[string] `json:"location"`
	StartDate    *Date            `json:"start_date"`
	EndDate      Nullable[Date]   `json:"end_date"`
	Current      *bool            `json:"current"`
	Description  Nullable[string] `json:"description"`
	Grade        Nullable[string] `json:"grade"`
	Achievements *[]string        `json:"achievements"`
	LogoURL      Nullable[string] `json:"logo_url"`
	SortOrder    *int             `json:"sort_order"`
	Status       *string          `json:"status" validate:"omitempty,oneof=draft published"`
}

func (in EducationInput) ValidateCreate() error {
	if err := checkRequired(
		required("institution", notBlank(in.Institution)),
		required("degree", notBlank(in.Degree)),
		required("start_date", in.StartDate != nil),
	); err != nil {
		return err
	}
	return validateStruct(in)
}

func (in EducationInput) ValidateUpdate() error {
	if err := checkRequired(keep("institution", in.Institution), keep("degree", in.Degree)); err != nil {
		return err
	}
	return validateStruct(in)
}

func (in EducationInput) Model() *Education {
	current := orDefault(in.Current, false)
	return &Education{
		Institution:  *in.Institution,
		Degree:       *in.Degree,
		FieldOfStudy: in.FieldOfStudy.Ptr(),
		Location:     in.Location.Ptr(),
		StartDate:    *in.StartDate,
		EndDate:      openEnded(current, in.EndDate).Ptr(),
		Current:      current,
		Description:  in.Description.Ptr(),
		Grade:        in.Grade.Ptr(),
		Achievements: orEmpty(in.Achievements),
		LogoURL:      in.LogoURL.Ptr(),
		SortOrder:    orDefault(in.SortOrder, 0),
		Status:       orDefault(in.Status, StatusDraft),
	}
}

func (in EducationInput) Updates() map[string]any {
	p := patch{}
	coalesce(p, "institution", in.Institution)
	coalesce(p, "degree", in.Degree)
	coalesce(p, "start_date", in.StartDate)
	coalesce(p, "current", in.Current)
	coalesce(p, "sort_order", in.SortOrder)
	coalesce(p, "status", in.Status)
	coalesceJSON(p, "achievements", in.Achievements)
	assign(p, "field_of_study", in.FieldOfStudy)
	assign(p, "location", in.Location)
	assign(p, "end_date", openEnded(orDefault(in.Current, false), in.EndDate))
	assign(p, "description", in.Description)
	assign(p, "grade", in.Grade)
	assign(p, "logo_url", in.LogoURL)
	return stamp(p)
}

// Experience is a job entry on the timeline.
type Experience struct {
	Base
	Company        string                      `json:"company" gorm:"type:text;not null"`
	Role           string                      `json:"role" gorm:"type:text;not null"`
	EmploymentType *string                     `json:"employment_type" gorm:"type:text"`
	Location       *string                     `json:"location" gorm:"type:text"`
	StartDate      Date                        `json:"start_date" gorm:"type:date;not null"`
	EndDate        *Date                       `json:"end_date" gorm:"type:date"`
	Current        bool                        `json:"current" gorm:"not null"`
	Description    *string                     `json:"description" gorm:"type:text"`
	Achievements   datatypes.JSONSlice[string] `json:"achievements" gorm:"not null"`
	Technologies   datatypes.JSONSlice[string] `json:"technologies" gorm:"not null"`
	LogoURL        *string                     `json:"logo_url" gorm:"type:text"`
	CompanyURL     *string                     `json:"company_url" gorm:"type:text"`
	SortOrder      int                         `json:"sort_order" gorm:"not null;index"`
	Status         string                      `json:"status" gorm:"type:text;not null;index"`
}

type ExperienceInput struct {
	Company        *string          `json:"company"`
	Role           *string          `json:"role"`
	EmploymentType Nullable[string] `json:"employment_type"`
	Location       Nullable[string] `json:"location"`
	StartDate      *Date            `json:"start_date"`
	EndDate        Nullable[Date]   `json:"end_date"`
	Current        *bool            `json:"current"`
	Description    Nullable[string] `json:"description"`
	Achievements   *[]string        `json:"achievements"`
	Technologies   *[]string        `json:"technologies"`
	LogoURL        Nullable[string] `json:"logo_url"`
	CompanyURL     Nullable[string] `json:"company_url"`
	SortOrder      *int             `json:"sort_order"`
	Status         *string          `json:"status" validate:"omitempty,oneof=draft published"`
}

func (in ExperienceInput) ValidateCreate() error {
	if err := checkRequired(
		required("company", notBlank(in.Company)),
		required("role", notBlank(in.Role)),
		required("start_date", in.StartDate != nil),
	); err != nil {
		return err
	}
	return validateStruct(in)
}

func (in ExperienceInput) ValidateUpdate() error {
	if err := checkRequired(keep("company", in.Company), keep("role", in.Role)); err != nil {
		return err
	}
	return validateStruct(in)
}

func (in ExperienceInput) Model() *Experience {
	current := orDefault(in.Current, false)
	return &Experience{
		Company:        *in.Company,
		Role:           *in.Role,
		EmploymentType: in.EmploymentType.Ptr(),
		Location:       in.Location.Ptr(),
		StartDate:      *in.StartDate,
		EndDate:        openEnded(current, in.EndDate).Ptr(),
		Current:        current,
		Description:    in.Description.Ptr(),
		Achievements:   orEmpty(in.Achievements),
		Technologies:   orEmpty(in.Technologies),
		LogoURL:        in.LogoURL.Ptr(),
		CompanyURL:     in.CompanyURL.Ptr(),
		SortOrder:      orDefault(in.SortOrder, 0),
		Status:         orDefault(in.Status, StatusDraft),
	}
}

func (in ExperienceInput) Updates() map[string]any {
	p := patch{}
	coalesce(p, "company", in.Company)
	coalesce(p, "role", in.Role)
	coalesce(p, "start_date", in.StartDate)
	coalesce(p, "current", in.Current)
	coalesce(p, "sort_order", in.SortOrder)
	coalesce(p, "status", in.Status)
	coalesceJSON(p, "achievements", in.Achievements)
	coalesceJSON(p, "technologies", in.Technologies)
	assign(p, "employment_type", in.EmploymentType)
	assign(p, "location", in.Location)
	assign(p, "end_date", openEnded(orDefault(in.Current, false), in.EndDate))
	assign(p, "description", in.Description)
	assign(p, "logo_url", in.LogoURL)
	assign(p, "company_url", in.CompanyURL)
	return stamp(p)
}

// openEnded clears the end date of an entry marked current.
func openEnded(current bool, end Nullable[Date]) Nullable[Date] {
	if current {
		return Null[Date]()
	}
	return end
}
