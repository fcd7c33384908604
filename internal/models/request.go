package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestStatus is the lifecycle state of a declaration request
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusProcessing RequestStatus = "processing"
	StatusCompleted  RequestStatus = "completed"
	StatusRejected   RequestStatus = "rejected"
)

// IsTerminal reports whether the status admits no further transitions
func (s RequestStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// IsValid reports whether the status is one of the known lifecycle states
func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// DeclarationRequest represents one citizen's request for a declaration document
type DeclarationRequest struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CPF           string             `json:"cpf" bson:"cpf"`
	DeclarationID primitive.ObjectID `json:"declaration_id" bson:"declaration_id"`
	Status        RequestStatus      `json:"status" bson:"status"`
	URL           *string            `json:"url,omitempty" bson:"url,omitempty"`
	AttendantCPF  *string            `json:"attendant_cpf,omitempty" bson:"attendant_cpf,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	GeneratedAt   *time.Time         `json:"generated_at,omitempty" bson:"generated_at,omitempty"`
}

// RequestView is the response shape for a declaration request, with the
// declaration title and attendant name resolved
type RequestView struct {
	ID               string     `json:"id"`
	CPF              string     `json:"cpf"`
	DeclarationID    string     `json:"declaration_id"`
	DeclarationTitle string     `json:"declaration_title"`
	Status           string     `json:"status"`
	URL              string     `json:"url,omitempty"`
	AttendantName    string     `json:"attendant_name"`
	CreatedAt        time.Time  `json:"created_at"`
	GeneratedAt      *time.Time `json:"generated_at,omitempty"`
}

// CreateRequestInput is the payload for submitting a new declaration request
type CreateRequestInput struct {
	DeclarationID string `json:"declaration_id" binding:"required"`
}

// UpdateStatusInput is the payload for bulk status updates
type UpdateStatusInput struct {
	RequestIDs []string `json:"request_ids" binding:"required,min=1"`
	Status     string   `json:"status" binding:"required"`
}

// GenerateInput is the payload for batch document generation
type GenerateInput struct {
	RequestIDs []string `json:"request_ids" binding:"required,min=1"`
}

// GenerationOutcome describes what happened to a single request id during
// a batch generation run
type GenerationOutcome struct {
	RequestID string `json:"request_id"`
	Outcome   string `json:"outcome"` // generated, skipped or failed
	Reason    string `json:"reason,omitempty"`
}

// GenerationResult is the response of a batch generation run. Generated
// keeps the plain success list; Outcomes carries the per-item detail.
type GenerationResult struct {
	Generated []RequestView       `json:"generated"`
	Outcomes  []GenerationOutcome `json:"outcomes"`
}

const (
	OutcomeGenerated = "generated"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)
