package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the moderation state of a Resource.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// AllStatuses lists every representable status, in review order.
var AllStatuses = []Status{StatusPending, StatusApproved, StatusRejected}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsDecision reports whether s is a status an administrator may set.
// Pending is only ever assigned at creation.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// ErrResourceNotFound is returned by resource stores when no record
// matches the requested id.
var ErrResourceNotFound = errors.New("resource not found")

// Submitter identifies who proposed a resource. Stored as-is; the email
// is not validated.
type Submitter struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

// Resource is a submitted link to an AI tool together with its
// moderation status.
type Resource struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	URL         string             `bson:"url" json:"url"`

	Category   string `bson:"category" json:"category"`
	CategoryCI string `bson:"category_ci" json:"-"` // lowercase, diacritics-stripped

	Status      Status    `bson:"status" json:"status"`
	SubmittedBy Submitter `bson:"submitted_by" json:"submittedBy"`

	// SubmittedAt is set once when the record is created.
	SubmittedAt time.Time  `bson:"submitted_at" json:"submittedAt"`
	UpdatedAt   *time.Time `bson:"updated_at,omitempty" json:"-"`
}
