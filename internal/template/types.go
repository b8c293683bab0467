// Package template keeps local message template records aligned with
// provider review decisions.
package template

import (
	"errors"
	"time"
)

// Local template status constants.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusPaused   = "paused"
	StatusDisabled = "disabled"
)

// ErrNotFound is returned when no template matches a provider id.
var ErrNotFound = errors.New("template not found")

// ErrUnknownCategory is returned when a provider category cannot be
// mapped to any local category.
var ErrUnknownCategory = errors.New("unknown template category")

// Template is a locally tracked message template.
type Template struct {
	ID              string     `json:"id"`
	ExternalID      string     `json:"external_id"`
	Name            string     `json:"name"`
	Language        string     `json:"language,omitempty"`
	CategoryID      string     `json:"category_id,omitempty"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// StatusUpdate is a provider template review decision.
type StatusUpdate struct {
	ExternalID string
	Event      string
	Reason     string
	OccurredAt time.Time
}

// CategoryUpdate is a provider-side template recategorization.
type CategoryUpdate struct {
	ExternalID  string
	NewCategory string
}
