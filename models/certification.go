package models

import "gorm.io/datatypes"

// Certification is a professional credential with an optional expiry.
type Certification struct {
	Base
	Name         string                      `json:"name" gorm:"type:text;not null"`
	Slug         string                      `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Issuer       string                      `json:"issuer" gorm:"type:text;not null"`
	IssueDate    Date                        `json:"issue_date" gorm:"type:date;not null;index"`
	ExpiryDate   *Date                       `json:"expiry_date" gorm:"type:date"`
	CredentialID *string                     `json:"credential_id" gorm:"type:text"`
	VerifyURL    *string                     `json:"verify_url" gorm:"type:text"`
	Description  *string                     `json:"description" gorm:"type:text"`
	Skills       datatypes.JSONSlice[string] `json:"skills" gorm:"not null"`
	Level        *string                     `json:"level" gorm:"type:text"`
	ImageURL     *string                     `json:"image_url" gorm:"type:text"`
	BadgeURL     *string                     `json:"badge_url" gorm:"type:text"`
	Gallery      datatypes.JSONSlice[string] `json:"gallery" gorm:"not null"`
	Status       string                      `json:"status" gorm:"type:text;not null;index"`
	Featured     bool                        `json:"featured" gorm:"not null"`
}

type CertificationInput struct {
	Name         *string          `json:"name"`
	Slug         *string          `json:"slug"`
	Issuer       *string          `json:"issuer"`
	IssueDate    *Date            `json:"issue_date"`
	ExpiryDate   Nullable[Date]   `json:"expiry_date"`
	CredentialID Nullable[string] `json:"credential_id"`
	VerifyURL    Nullable[string] `json:"verify_url"`
	Description  Nullable[string] `json:"description"`
	Skills       *[]string        `json:"skills"`
	Level        Nullable[string] `json:"level" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	ImageURL     Nullable[string] `json:"image_url"`
	BadgeURL     Nullable[string] `json:"badge_url"`
	Gallery      *[]string        `json:"gallery"`
	Status       *string          `json:"status" validate:"omitempty,oneof=draft published"`
	Featured     *bool            `json:"featured"`
}

func (in CertificationInput) ValidateCreate() error {
	if err := checkRequired(
		required("name", notBlank(in.Name)),
		required("slug", notBlank(in.Slug)),
		required("issuer", notBlank(in.Issuer)),
		required("issue_date", in.IssueDate != nil),
	); err != nil {
		return err
	}
	return validateStruct(in)
}

func (in CertificationInput) ValidateUpdate() error {
	if err := checkRequired(keep("name", in.Name), keep("slug", in.Slug), keep("issuer", in.Issuer)); err != nil {
		return err
	}
	return validateStruct(in)
}

func (in CertificationInput) Model() *Certification {
	return &Certification{
		Name:         *in.Name,
		Slug:         *in.Slug,
		Issuer:       *in.Issuer,
		IssueDate:    *in.IssueDate,
		ExpiryDate:   in.ExpiryDate.Ptr(),
		CredentialID: in.CredentialID.Ptr(),
		VerifyURL:    in.VerifyURL.Ptr(),
		Description:  in.Description.Ptr(),
		Skills:       orEmpty(in.Skills),
		Level:        in.Level.Ptr(),
		ImageURL:     in.ImageURL.Ptr(),
		BadgeURL:     in.BadgeURL.Ptr(),
		Gallery:      orEmpty(in.Gallery),
		Status:       orDefault(in.Status, StatusDraft),
		Featured:     orDefault(in.Featured, false),
	}
}

func (in CertificationInput) Updates() map[string]any {
	p := patch{}
	coalesce(p, "name", in.Name)
	coalesce(p, "slug", in.Slug)
	coalesce(p, "issuer", in.Issuer)
	coalesce(p, "issue_date", in.IssueDate)
	coalesce(p, "status", in.Status)
	coalesce(p, "featured", in.Featured)
	coalesceJSON(p, "skills", in.Skills)
	coalesceJSON(p, "gallery", in.Gallery)
	assign(p, "expiry_date", in.ExpiryDate)
	assign(p, "credential_id", in.CredentialID)
	assign(p, "verify_url", in.VerifyURL)
	assign(p, "description", in.Description)
	assign(p, "level", in.Level)
	assign(p, "image_url", in.ImageURL)
	assign(p, "badge_url", in.BadgeURL)
	return stamp(p)
}
