package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"jdmatch/internal/domain/jobdescription"

	"github.com/google/uuid"
)

type memoryRecord struct {
	seq int64
	jd  jobdescription.JobDescription
}

// MemoryJobDescriptionRepository keeps documents in process. It honours the
// same ordering, search and ownership rules as the Postgres repository.
type MemoryJobDescriptionRepository struct {
	mu      sync.RWMutex
	nextSeq int64
	byID    map[uuid.UUID]*memoryRecord
}

func NewMemoryJobDescriptionRepository() *MemoryJobDescriptionRepository {
	return &MemoryJobDescriptionRepository{byID: map[uuid.UUID]*memoryRecord{}}
}

func (r *MemoryJobDescriptionRepository) List(ctx context.Context, userID string, q jobdescription.ListQuery) ([]jobdescription.JobDescription, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	matched := make([]memoryRecord, 0)
	term := strings.ToLower(q.SearchTerm())
	for _, rec := range r.byID {
		if rec.jd.UserID != userID {
			continue
		}
		if term != "" && !matchesSearch(rec.jd, term) {
			continue
		}
		matched = append(matched, memoryRecord{seq: rec.seq, jd: rec.jd.Clone()})
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		c := compareBy(q.SortBy, matched[i].jd, matched[j].jd)
		if c == 0 {
			return matched[i].seq < matched[j].seq
		}
		if q.SortOrder == jobdescription.SortAsc {
			return c < 0
		}
		return c > 0
	})

	total := int64(len(matched))
	out := make([]jobdescription.JobDescription, 0, q.Size)
	start := q.Offset()
	if start >= len(matched) {
		return out, total, nil
	}
	end := start + q.Size
	if end > len(matched) {
		end = len(matched)
	}
	for _, rec := range matched[start:end] {
		out = append(out, rec.jd)
	}
	return out, total, nil
}

func (r *MemoryJobDescriptionRepository) Aggregate(ctx context.Context, userID string) (jobdescription.Aggregate, error) {
	if err := ctx.Err(); err != nil {
		return jobdescription.Aggregate{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var a jobdescription.Aggregate
	var scoreSum float64
	for _, rec := range r.byID {
		if rec.jd.UserID != userID {
			continue
		}
		a.Count++
		a.TotalResumes += rec.jd.Stats.TotalResumes
		a.StrongMatches += rec.jd.Stats.StrongMatches
		scoreSum += rec.jd.Stats.AverageScore
	}
	if a.Count > 0 {
		a.AverageScore = scoreSum / float64(a.Count)
	}
	return a, nil
}

func (r *MemoryJobDescriptionRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (jobdescription.JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return jobdescription.JobDescription{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok || rec.jd.UserID != userID {
		return jobdescription.JobDescription{}, ErrJobDescriptionNotFound
	}
	return rec.jd.Clone(), nil
}

func (r *MemoryJobDescriptionRepository) Create(ctx context.Context, jd jobdescription.JobDescription) (jobdescription.JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return jobdescription.JobDescription{}, err
	}

	stored := jd.Clone()
	stored.CreatedAt = stored.CreatedAt.UTC()
	stored.UpdatedAt = stored.UpdatedAt.UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSeq++
	r.byID[stored.ID] = &memoryRecord{seq: r.nextSeq, jd: stored}
	return stored.Clone(), nil
}

func (r *MemoryJobDescriptionRepository) Update(ctx context.Context, userID string, id uuid.UUID, in jobdescription.UpdateInput, now time.Time) (jobdescription.JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return jobdescription.JobDescription{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok || rec.jd.UserID != userID {
		return jobdescription.JobDescription{}, ErrJobDescriptionNotFound
	}
	in.Apply(&rec.jd, now.UTC())
	return rec.jd.Clone(), nil
}

func (r *MemoryJobDescriptionRepository) Delete(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok || rec.jd.UserID != userID {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func matchesSearch(jd jobdescription.JobDescription, lowerTerm string) bool {
	if strings.Contains(strings.ToLower(jd.Position), lowerTerm) {
		return true
	}
	for _, s := range jd.RequiredSkills {
		if strings.Contains(strings.ToLower(s), lowerTerm) {
			return true
		}
	}
	for _, s := range jd.Responsibilities {
		if strings.Contains(strings.ToLower(s), lowerTerm) {
			return true
		}
	}
	return false
}

func compareBy(field jobdescription.SortField, a, b jobdescription.JobDescription) int {
	switch field {
	case jobdescription.SortByPosition:
		return strings.Compare(a.Position, b.Position)
	case jobdescription.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
