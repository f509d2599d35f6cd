package model

import (
	"time"

	"github.com/margav-energy/Pama-Lodge/shared/model"
)

const (
	TableName  = "room_issues"
	EntityName = "room_issue"

	FieldID              = "id"
	FieldRoomID          = "room_id"
	FieldIssueType       = "issue_type"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldStatus          = "status"
	FieldPriority        = "priority"
	FieldReportedBy      = "reported_by"
	FieldReportedAt      = "reported_at"
	FieldFixedBy         = "fixed_by"
	FieldFixedAt         = "fixed_at"
	FieldResolutionNotes = "resolution_notes"
)

const (
	TypeMissingInventory = "missing_inventory"
	TypeFault            = "fault"
	TypeMaintenance      = "maintenance"
	TypeOther            = "other"
)

const (
	StatusReported   = "reported"
	StatusInProgress = "in_progress"
	StatusFixed      = "fixed"
	StatusResolved   = "resolved"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Issue struct {
	ID              string     `db:"id"`
	RoomID          string     `db:"room_id"`
	IssueType       string     `db:"issue_type"`
	Title           string     `db:"title"`
	Description     string     `db:"description"`
	Status          string     `db:"status"`
	Priority        string     `db:"priority"`
	ReportedBy      string     `db:"reported_by"`
	ReportedAt      time.Time  `db:"reported_at"`
	FixedBy         *string    `db:"fixed_by"`
	FixedAt         *time.Time `db:"fixed_at"`
	ResolutionNotes string     `db:"resolution_notes"`
	model.Metadata
}

// IsResolved reports whether the issue no longer needs attention.
func (i *Issue) IsResolved() bool {
	return i.Status == StatusFixed || i.Status == StatusResolved
}

// ResolvedStatus reports whether a status value counts as resolved.
func ResolvedStatus(status string) bool {
	return status == StatusFixed || status == StatusResolved
}

// TallyRow is one (status, issue_type) bucket of the summary aggregation.
type TallyRow struct {
	Status    string `db:"status"`
	IssueType string `db:"issue_type"`
	Count     int    `db:"count"`
}
