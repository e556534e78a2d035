package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const ResultParticipant = "participant"

// Hackathon is a competition entry with optional links to a Project.
type Hackathon struct {
	Base
	Name               string                      `json:"name" gorm:"type:text;not null"`
	Slug               string                      `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Organizer          *string                     `json:"organizer" gorm:"type:text"`
	EventDate          Date                        `json:"event_date" gorm:"type:date;not null;index"`
	Duration           *string                     `json:"duration" gorm:"type:text"`
	Result             string                      `json:"result" gorm:"type:text;not null"`
	Position           *string                     `json:"position" gorm:"type:text"`
	Score              *float64                    `json:"score"`
	ShowScore          bool                        `json:"show_score" gorm:"not null"`
	ShowPosition       bool                        `json:"show_position" gorm:"not null"`
	ProjectName        *string                     `json:"project_name" gorm:"type:text"`
	ProjectDescription *string                     `json:"project_description" gorm:"type:text"`
	Role               *string                     `json:"role" gorm:"type:text"`
	TeamName           *string                     `json:"team_name" gorm:"type:text"`
	TeamSize           *int                        `json:"team_size"`
	TeamMembers        datatypes.JSONSlice[string] `json:"team_members" gorm:"not null"`
	Problem            *string                     `json:"problem" gorm:"type:text"`
	Solution           *string                     `json:"solution" gorm:"type:text"`
	Implementation     *string                     `json:"implementation" gorm:"type:text"`
	Learnings          datatypes.JSONSlice[string] `json:"learnings" gorm:"not null"`
	TechStack          datatypes.JSONSlice[string] `json:"tech_stack" gorm:"not null"`
	GithubURL          *string                     `json:"github_url" gorm:"type:text"`
	DemoURL            *string                     `json:"demo_url" gorm:"type:text"`
	DevpostURL         *string                     `json:"devpost_url" gorm:"type:text"`
	PresentationURL    *string                     `json:"presentation_url" gorm:"type:text"`
	Images             datatypes.JSONSlice[string] `json:"images" gorm:"not null"`
	CoverImage         *string                     `json:"cover_image" gorm:"type:text"`
	ProjectID          *uuid.UUID                  `json:"project_id" gorm:"type:uuid;index"`
	Project            *Project                    `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Status             string                      `json:"status" gorm:"type:text;not null;index"`
	Featured           bool                        `json:"featured" gorm:"not null"`
}

type HackathonInput struct {
	Name               *string             `json:"name"`
	Slug               *string             `json:"slug"`
	Organizer          Nullable[string]    `json:"organizer"`
	EventDate          *Date               `json:"event_date"`
	Duration           Nullable[string]    `json:"duration"`
	Result             *string             `json:"result" validate:"omitempty,oneof=winner top3 finalist top5 participant"`
	Position           Nullable[string]    `json:"position"`
	Score              Nullable[float64]   `json:"score"`
	ShowScore          *bool               `json:"show_score"`
	ShowPosition       *bool               `json:"show_position"`
	ProjectName        Nullable[string]    `json:"project_name"`
	ProjectDescription Nullable[string]    `json:"project_description"`
	Role               Nullable[string]    `json:"role"`
	TeamName           Nullable[string]    `json:"team_name"`
	TeamSize           Nullable[int]       `json:"team_size" validate:"omitempty,min=1"`
	TeamMembers        *[]string           `json:"team_members"`
	Problem            Nullable[string]    `json:"problem"`
	Solution           Nullable[string]    `json:"solution"`
	Implementation     Nullable[string]    `json:"implementation"`
	Learnings          *[]string           `json:"learnings"`
	TechStack          *[]string           `json:"tech_stack"`
	GithubURL          Nullable[string]    `json:"github_url"`
	DemoURL            Nullable[string]    `json:"demo_url"`
	DevpostURL         Nullable[string]    `json:"devpost_url"`
	PresentationURL    Nullable[string]    `json:"presentation_url"`
	Images             *[]string           `json:"images"`
	CoverImage         Nullable[string]    `json:"cover_image"`
	ProjectID          Nullable[uuid.UUID] `json:"project_id"`
	Status             *string             `json:"status" validate:"omitempty,oneof=draft published"`
	Featured           *bool               `json:"featured"`
}

func (in HackathonInput) ValidateCreate() error {
	if err := checkRequired(
		required("name", notBlank(in.Name)),
		required("slug", notBlank(in.Slug)),
		required("event_date", in.EventDate != nil),
	); err != nil {
		return err
	}
	return validateStruct(in)
}

func (in HackathonInput) ValidateUpdate() error {
	if err := checkRequired(keep("name", in.Name), keep("slug", in.Slug)); err != nil {
		return err
	}
	return validateStruct(in)
}

func (in HackathonInput) Model() *Hackathon {
	return &Hackathon{
		Name:               *in.Name,
		Slug:               *in.Slug,
		Organizer:          in.Organizer.Ptr(),
		EventDate:          *in.EventDate,
		Duration:           in.Duration.Ptr(),
		Result:             orDefault(in.Result, ResultParticipant),
		Position:           in.Position.Ptr(),
		Score:              in.Score.Ptr(),
		ShowScore:          orDefault(in.ShowScore, false),
		ShowPosition:       orDefault(in.ShowPosition, true),
		ProjectName:        in.ProjectName.Ptr(),
		ProjectDescription: in.ProjectDescription.Ptr(),
		Role:               in.Role.Ptr(),
		TeamName:           in.TeamName.Ptr(),
		TeamSize:           in.TeamSize.Ptr(),
		TeamMembers:        orEmpty(in.TeamMembers),
		Problem:            in.Problem.Ptr(),
		Solution:           in.Solution.Ptr(),
		Implementation:     in.Implementation.Ptr(),
		Learnings:          orEmpty(in.Learnings),
		TechStack:          orEmpty(in.TechStack),
		GithubURL:          in.GithubURL.Ptr(),
		DemoURL:            in.DemoURL.Ptr(),
		DevpostURL:         in.DevpostURL.Ptr(),
		PresentationURL:    in.PresentationURL.Ptr(),
		Images:             orEmpty(in.Images),
		CoverImage:         in.CoverImage.Ptr(),
		ProjectID:          in.ProjectID.Ptr(),
		Status:             orDefault(in.Status, StatusDraft),
		Featured:           orDefault(in.Featured, false),
	}
}

func (in HackathonInput) Updates() map[string]any {
	p := patch{}
	coalesce(p, "name", in.Name)
	coalesce(p, "slug", in.Slug)
	coalesce(p, "event_date", in.EventDate)
	coalesce(p, "result", in.Result)
	coalesce(p, "show_score", in.ShowScore)
	coalesce(p, "show_position", in.ShowPosition)
	coalesce(p, "status", in.Status)
	coalesce(p, "featured", in.Featured)
	coalesceJSON(p, "team_members", in.TeamMembers)
	coalesceJSON(p, "learnings", in.Learnings)
	coalesceJSON(p, "tech_stack", in.TechStack)
	coalesceJSON(p, "images", in.Images)
	assign(p, "organizer", in.Organizer)
	assign(p, "duration", in.Duration)
	assign(p, "position", in.Position)
	assign(p, "score", in.Score)
	assign(p, "project_name", in.ProjectName)
	assign(p, "project_description", in.ProjectDescription)
	assign(p, "role", in.Role)
	assign(p, "team_name", in.TeamName)
	assign(p, "team_size", in.TeamSize)
	assign(p, "problem", in.Problem)
	assign(p, "solution", in.Solution)
	assign(p, "implementation", in.Implementation)
	assign(p, "github_url", in.GithubURL)
	assign(p, "demo_url", in.DemoURL)
	assign(p, "devpost_url", in.DevpostURL)
	assign(p, "presentation_url", in.PresentationURL)
	assign(p, "cover_image", in.CoverImage)
	assign(p, "project_id", in.ProjectID)
	return stamp(p)
}
