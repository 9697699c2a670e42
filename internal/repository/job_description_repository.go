package repository

import (
	"context"
	"errors"
	"time"

	"jdmatch/internal/domain/jobdescription"

	"github.com/google/uuid"
)

var ErrJobDescriptionNotFound = errors.New("job description not found")

// JobDescriptionRepository is owner-scoped: every lookup filters by userID in
// the same predicate as the id, so a foreign document is indistinguishable
// from a missing one.
type JobDescriptionRepository interface {
	// List returns one page of the owner's documents and the filtered total.
	List(ctx context.Context, userID string, q jobdescription.ListQuery) ([]jobdescription.JobDescription, int64, error)
	// Aggregate summarises all of the owner's documents, ignoring any search.
	Aggregate(ctx context.Context, userID string) (jobdescription.Aggregate, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (jobdescription.JobDescription, error)
	Create(ctx context.Context, jd jobdescription.JobDescription) (jobdescription.JobDescription, error)
	Update(ctx context.Context, userID string, id uuid.UUID, in jobdescription.UpdateInput, now time.Time) (jobdescription.JobDescription, error)
	// Delete reports whether exactly one document was removed.
	Delete(ctx context.Context, userID string, id uuid.UUID) (bool, error)
}
