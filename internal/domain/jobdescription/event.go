package jobdescription

import (
	"time"

	"github.com/google/uuid"
)

type ChangeType string

const (
	ChangeCreated ChangeType = "job_description_created"
	ChangeUpdated ChangeType = "job_description_updated"
	ChangeDeleted ChangeType = "job_description_deleted"
)

// ChangeEvent is pushed to the owner's live subscribers after a write.
type ChangeEvent struct {
	Type      ChangeType `json:"type"`
	UserID    string     `json:"userId"`
	JobID     uuid.UUID  `json:"jobId"`
	Timestamp time.Time  `json:"timestamp"`
}
