package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/margav-energy/Pama-Lodge/internal/domains/issue/model"
	"github.com/margav-energy/Pama-Lodge/shared"
	gDto "github.com/margav-energy/Pama-Lodge/shared/dto"
	gModel "github.com/margav-energy/Pama-Lodge/shared/model"
	"github.com/margav-energy/Pama-Lodge/shared/timezone"
)

type CreateIssueRequest struct {
	RoomID      string `json:"room_id"     validate:"required,uuid"`
	IssueType   string `json:"issue_type"  validate:"required,oneof=missing_inventory fault maintenance other"`
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=low medium high urgent"`
}

func (c *CreateIssueRequest) ToModel(user string) model.Issue {
	priority := c.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	return model.Issue{
		ID:          uuid.NewString(),
		RoomID:      c.RoomID,
		IssueType:   c.IssueType,
		Title:       c.Title,
		Description: c.Description,
		Status:      model.StatusReported,
		Priority:    priority,
		ReportedBy:  user,
		ReportedAt:  timezone.Now(),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateIssueRequest struct {
	IssueType       *string `db:"issue_type"       json:"issue_type"       validate:"omitempty,oneof=missing_inventory fault maintenance other"`
	Title           *string `db:"title"            json:"title"            validate:"omitempty,max=200"`
	Description     *string `db:"description"      json:"description"      validate:"omitempty,max=1000"`
	Status          *string `db:"status"           json:"status"           validate:"omitempty,oneof=reported in_progress fixed resolved"`
	Priority        *string `db:"priority"         json:"priority"         validate:"omitempty,oneof=low medium high urgent"`
	ResolutionNotes *string `db:"resolution_notes" json:"resolution_notes" validate:"omitempty,max=1000"`
}

type MarkFixedRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

type IssueResponse struct {
	ID              string  `json:"id"`
	RoomID          string  `json:"room_id"`
	IssueType       string  `json:"issue_type"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Status          string  `json:"status"`
	Priority        string  `json:"priority"`
	ReportedBy      string  `json:"reported_by"`
	ReportedAt      string  `json:"reported_at"`
	FixedBy         *string `json:"fixed_by,omitempty"`
	FixedAt         *string `json:"fixed_at,omitempty"`
	ResolutionNotes string  `json:"resolution_notes,omitempty"`
	gDto.Metadata
}

func (r *IssueResponse) FromModel(mod model.Issue) {
	r.ID = mod.ID
	r.RoomID = mod.RoomID
	r.IssueType = mod.IssueType
	r.Title = mod.Title
	r.Description = mod.Description
	r.Status = mod.Status
	r.Priority = mod.Priority
	r.ReportedBy = mod.ReportedBy
	r.ReportedAt = mod.ReportedAt.Format(time.RFC3339)
	r.FixedBy = mod.FixedBy
	r.ResolutionNotes = mod.ResolutionNotes

	if mod.FixedAt != nil {
		formatted := mod.FixedAt.Format(time.RFC3339)
		r.FixedAt = &formatted
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetIssuesResponse struct {
	Issues    []IssueResponse `json:"issues"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetIssuesResponse) FromModels(models []model.Issue, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Issues = make([]IssueResponse, len(models))
	for i, mod := range models {
		r.Issues[i].FromModel(mod)
	}
}

type TypeSummary struct {
	Total      int `json:"total"`
	Unresolved int `json:"unresolved"`
}

type SummaryResponse struct {
	TotalIssues int                    `json:"total_issues"`
	Resolved    int                    `json:"resolved"`
	Unresolved  int                    `json:"unresolved"`
	ByStatus    map[string]int         `json:"by_status"`
	ByType      map[string]TypeSummary `json:"by_type"`
}
