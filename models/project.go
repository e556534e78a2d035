package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/rpupo63/portfolio-cms-backend/errs"
)

// Metric is one headline number shown on a project page.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// TechStack groups technologies by area, e.g. "frontend" -> ["React"].
type TechStack map[string][]string

// Project represents a complete project with metadata
type Project struct {
	Base
	Title       string                        `json:"title" gorm:"type:text;not null"`
	Slug        string                        `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Tagline     *string                       `json:"tagline" gorm:"type:text"`
	Description *string                       `json:"description" gorm:"type:text"`
	Problem     *string                       `json:"problem" gorm:"type:text"`
	Solution    *string                       `json:"solution" gorm:"type:text"`
	Impact      *string                       `json:"impact" gorm:"type:text"`
	Metrics     datatypes.JSONSlice[Metric]   `json:"metrics" gorm:"not null"`
	Stack       datatypes.JSONType[TechStack] `json:"stack" gorm:"not null"`
	Learnings   datatypes.JSONSlice[string]   `json:"learnings" gorm:"not null"`
	GithubURL   *string                       `json:"github_url" gorm:"type:text"`
	LiveURL     *string                       `json:"live_url" gorm:"type:text"`
	DemoURL     *string                       `json:"demo_url" gorm:"type:text"`
	DocsURL     *string                       `json:"docs_url" gorm:"type:text"`
	PdfURL      *string                       `json:"pdf_url" gorm:"type:text"`
	Role        *string                       `json:"role" gorm:"type:text"`
	TeamSize    *int                          `json:"team_size"`
	Duration    *string                       `json:"duration" gorm:"type:text"`
	CategoryID  *uuid.UUID                    `json:"category_id" gorm:"type:uuid;index"`
	Category    *Category                     `json:"category,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Status      string                        `json:"status" gorm:"type:text;not null;index"`
	Featured    bool                          `json:"featured" gorm:"not null"`
	Screenshots []Screenshot                  `json:"screenshots" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// ProjectDetail is the single project view. Unlike list items it always
// carries the category key, null when the project has none.
type ProjectDetail struct {
	Project
	Category *Category `json:"category"`
}

func NewProjectDetail(p Project) ProjectDetail {
	return ProjectDetail{Project: p, Category: p.Category}
}

// Screenshot belongs to exactly one project and is ordered by SortOrder.
type Screenshot struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;not null;index"`
	ImageURL  string    `json:"image_url" gorm:"type:text;not null"`
	Caption   *string   `json:"caption" gorm:"type:text"`
	SortOrder int       `json:"sort_order" gorm:"not null"`
}

func (Screenshot) TableName() string {
	return "project_screenshots"
}

type ScreenshotInput struct {
	ImageURL string  `json:"image_url"`
	Caption  *string `json:"caption"`
}

type ProjectInput struct {
	Title       *string             `json:"title"`
	Slug        *string             `json:"slug"`
	Tagline     Nullable[string]    `json:"tagline"`
	Description Nullable[string]    `json:"description"`
	Problem     Nullable[string]    `json:"problem"`
	Solution    Nullable[string]    `json:"solution"`
	Impact      Nullable[string]    `json:"impact"`
	Metrics     *[]Metric           `json:"metrics"`
	Stack       *TechStack          `json:"stack"`
	Learnings   *[]string           `json:"learnings"`
	GithubURL   Nullable[string]    `json:"github_url"`
	LiveURL     Nullable[string]    `json:"live_url"`
	DemoURL     Nullable[string]    `json:"demo_url"`
	DocsURL     Nullable[string]    `json:"docs_url"`
	PdfURL      Nullable[string]    `json:"pdf_url"`
	Role        Nullable[string]    `json:"role"`
	TeamSize    Nullable[int]       `json:"team_size" validate:"omitempty,min=1"`
	Duration    Nullable[string]    `json:"duration"`
	CategoryID  Nullable[uuid.UUID] `json:"category_id"`
	Status      *string             `json:"status" validate:"omitempty,oneof=draft published"`
	Featured    *bool               `json:"featured"`
	// Screenshots replaces the whole set when present; nil leaves it untouched.
	Screenshots *[]ScreenshotInput `json:"screenshots"`
}

func (in ProjectInput) ValidateCreate() error {
	if err := checkRequired(required("title", notBlank(in.Title)), required("slug", notBlank(in.Slug))); err != nil {
		return err
	}
	if err := in.validateScreenshots(); err != nil {
		return err
	}
	return validateStruct(in)
}

func (in ProjectInput) ValidateUpdate() error {
	if err := checkRequired(keep("title", in.Title), keep("slug", in.Slug)); err != nil {
		return err
	}
	if err := in.validateScreenshots(); err != nil {
		return err
	}
	return validateStruct(in)
}

func (in ProjectInput) validateScreenshots() error {
	if in.Screenshots == nil {
		return nil
	}
	for _, s := range *in.Screenshots {
		if s.ImageURL == "" {
			return errs.NewInvalidFieldError("screenshots", "every screenshot needs an image_url")
		}
	}
	return nil
}

func (in ProjectInput) Model() *Project {
	stack := TechStack{}
	if in.Stack != nil && *in.Stack != nil {
		stack = *in.Stack
	}
	return &Project{
		Title:       *in.Title,
		Slug:        *in.Slug,
		Tagline:     in.Tagline.Ptr(),
		Description: in.Description.Ptr(),
		Problem:     in.Problem.Ptr(),
		Solution:    in.Solution.Ptr(),
		Impact:      in.Impact.Ptr(),
		Metrics:     orEmpty(in.Metrics),
		Stack:       datatypes.NewJSONType(stack),
		Learnings:   orEmpty(in.Learnings),
		GithubURL:   in.GithubURL.Ptr(),
		LiveURL:     in.LiveURL.Ptr(),
		DemoURL:     in.DemoURL.Ptr(),
		DocsURL:     in.DocsURL.Ptr(),
		PdfURL:      in.PdfURL.Ptr(),
		Role:        in.Role.Ptr(),
		TeamSize:    in.TeamSize.Ptr(),
		Duration:    in.Duration.Ptr(),
		CategoryID:  in.CategoryID.Ptr(),
		Status:      orDefault(in.Status, StatusDraft),
		Featured:    orDefault(in.Featured, false),
	}
}

// ScreenshotRows builds the child rows for a project, ordered by array index.
// It returns nil when the caller did not send a screenshots array.
func (in ProjectInput) ScreenshotRows(projectID uuid.UUID) []Screenshot {
	if in.Screenshots == nil {
		return nil
	}
	rows := make([]Screenshot, 0, len(*in.Screenshots))
	for i, s := range *in.Screenshots {
		rows = append(rows, Screenshot{
			ID:        uuid.New(),
			ProjectID: projectID,
			ImageURL:  s.ImageURL,
			Caption:   s.Caption,
			SortOrder: i,
		})
	}
	return rows
}

func (in ProjectInput) Updates() map[string]any {
	p := patch{}
	coalesce(p, "title", in.Title)
	coalesce(p, "slug", in.Slug)
	coalesce(p, "status", in.Status)
	coalesce(p, "featured", in.Featured)
	coalesceJSON(p, "metrics", in.Metrics)
	coalesceJSON(p, "learnings", in.Learnings)
	if in.Stack != nil {
		stack := *in.Stack
		if stack == nil {
			stack = TechStack{}
		}
		p["stack"] = datatypes.NewJSONType(stack)
	}
	assign(p, "tagline", in.Tagline)
	assign(p, "description", in.Description)
	assign(p, "problem", in.Problem)
	assign(p, "solution", in.Solution)
	assign(p, "impact", in.Impact)
	assign(p, "github_url", in.GithubURL)
	assign(p, "live_url", in.LiveURL)
	assign(p, "demo_url", in.DemoURL)
	assign(p, "docs_url", in.DocsURL)
	assign(p, "pdf_url", in.PdfURL)
	assign(p, "role", in.Role)
	assign(p, "team_size", in.TeamSize)
	assign(p, "duration", in.Duration)
	assign(p, "category_id", in.CategoryID)
	return stamp(p)
}
