package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"jdmatch/internal/domain/jobdescription"
	"jdmatch/internal/pkg/logger"
	"jdmatch/internal/pkg/metrics"
	"jdmatch/internal/repository"

	"github.com/google/uuid"
)

type JobDescriptionUsecase interface {
	List(ctx context.Context, userID string, q jobdescription.ListQuery) (jobdescription.Page, error)
	Get(ctx context.Context, userID, jobID string) (jobdescription.JobDescription, error)
	Create(ctx context.Context, userID string, in jobdescription.CreateInput) (jobdescription.JobDescription, error)
	Update(ctx context.Context, userID, jobID string, in jobdescription.UpdateInput) (jobdescription.JobDescription, error)
	Delete(ctx context.Context, userID, jobID string) error
}

// ChangeNotifier fans write events out to live subscribers.
type ChangeNotifier interface {
	Publish(ctx context.Context, ev jobdescription.ChangeEvent)
}

type JobDescriptionOption func(*JobDescriptions)

func WithStatsCache(cache StatsCache, ttl time.Duration) JobDescriptionOption {
	return func(u *JobDescriptions) {
		u.cache = cache
		u.cacheTTL = ttl
	}
}

func WithNotifier(n ChangeNotifier) JobDescriptionOption {
	return func(u *JobDescriptions) { u.notifier = n }
}

func WithMetrics(m *metrics.Manager) JobDescriptionOption {
	return func(u *JobDescriptions) { u.metrics = m }
}

func WithLogger(l logger.Logger) JobDescriptionOption {
	return func(u *JobDescriptions) {
		if l != nil {
			u.log = l
		}
	}
}

func WithClock(now func() time.Time) JobDescriptionOption {
	return func(u *JobDescriptions) {
		if now != nil {
			u.now = now
		}
	}
}

type JobDescriptions struct {
	repo     repository.JobDescriptionRepository
	cache    StatsCache
	cacheTTL time.Duration
	notifier ChangeNotifier
	metrics  *metrics.Manager
	log      logger.Logger
	now      func() time.Time
}

func NewJobDescriptionUsecase(repo repository.JobDescriptionRepository, opts ...JobDescriptionOption) *JobDescriptions {
	u := &JobDescriptions{
		repo: repo,
		log:  logger.Nop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	u.log = u.log.Named("job_descriptions")
	return u
}

func (u *JobDescriptions) List(ctx context.Context, userID string, q jobdescription.ListQuery) (jobdescription.Page, error) {
	userID, ok := normalizeUserID(userID)
	if !ok || !q.Valid() {
		return jobdescription.Page{}, ErrInvalidInput
	}

	items, total, err := u.repo.List(ctx, userID, q)
	if err != nil {
		u.log.Error(ctx, "list job descriptions failed", logger.String("userId", userID), logger.Error(err))
		return jobdescription.Page{}, ErrInternal
	}

	var stats *jobdescription.DashboardStats
	if q.IncludeStats {
		s, err := u.dashboardStats(ctx, userID)
		if err != nil {
			return jobdescription.Page{}, err
		}
		stats = &s
	}

	return jobdescription.NewPage(q, items, total, stats), nil
}

// dashboardStats serves the owner's aggregate from cache when possible.
// Cache failures degrade to a store read.
func (u *JobDescriptions) dashboardStats(ctx context.Context, userID string) (jobdescription.DashboardStats, error) {
	key, cacheable := u.statsKey(ctx, userID)
	if cacheable {
		var cached cachedStats
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			u.log.Warn(ctx, "stats cache read failed", logger.String("key", key), logger.Error(err))
		}
		u.metrics.RecordCacheLookup(err == nil && hit)
		if err == nil && hit {
			return cached.dashboardStats(), nil
		}
	}

	agg, err := u.repo.Aggregate(ctx, userID)
	if err != nil {
		u.log.Error(ctx, "aggregate job description stats failed", logger.String("userId", userID), logger.Error(err))
		return jobdescription.DashboardStats{}, ErrInternal
	}
	stats := agg.DashboardStats()

	if cacheable {
		if err := u.cache.SetJSON(ctx, key, toCachedStats(stats), u.cacheTTL); err != nil {
			u.log.Warn(ctx, "stats cache write failed", logger.String("key", key), logger.Error(err))
		}
	}
	return stats, nil
}

// statsKey resolves the cache key for the owner's current generation. The
// generation is read before the aggregate, so a write landing in between
// leaves the stored value under a key no later read uses.
func (u *JobDescriptions) statsKey(ctx context.Context, userID string) (string, bool) {
	if u.cache == nil {
		return "", false
	}
	gen, err := u.cache.GetInt(ctx, StatsGenerationKey(userID))
	if err != nil {
		u.log.Warn(ctx, "stats cache generation read failed", logger.String("userId", userID), logger.Error(err))
		u.metrics.RecordCacheLookup(false)
		return "", false
	}
	return StatsCacheKey(userID, gen), true
}

func (u *JobDescriptions) Get(ctx context.Context, userID, jobID string) (jobdescription.JobDescription, error) {
	userID, ok := normalizeUserID(userID)
	if !ok {
		return jobdescription.JobDescription{}, ErrInvalidInput
	}
	id, ok := parseJobID(jobID)
	if !ok {
		return jobdescription.JobDescription{}, ErrNotFound
	}

	jd, err := u.repo.GetByID(ctx, userID, id)
	if err != nil {
		return jobdescription.JobDescription{}, u.mapRepoError(ctx, "get job description failed", err)
	}
	return jd, nil
}

func (u *JobDescriptions) Create(ctx context.Context, userID string, in jobdescription.CreateInput) (jobdescription.JobDescription, error) {
	userID, ok := normalizeUserID(userID)
	if !ok {
		return jobdescription.JobDescription{}, ErrInvalidInput
	}

	jd := jobdescription.New(userID, in, u.now().UTC())
	stored, err := u.repo.Create(ctx, jd)
	if err != nil {
		u.log.Error(ctx, "create job description failed", logger.String("userId", userID), logger.Error(err))
		return jobdescription.JobDescription{}, ErrInternal
	}

	u.afterWrite(ctx, metrics.OpCreate, jobdescription.ChangeCreated, userID, stored.ID)
	return stored, nil
}

func (u *JobDescriptions) Update(ctx context.Context, userID, jobID string, in jobdescription.UpdateInput) (jobdescription.JobDescription, error) {
	userID, ok := normalizeUserID(userID)
	if !ok {
		return jobdescription.JobDescription{}, ErrInvalidInput
	}
	id, ok := parseJobID(jobID)
	if !ok {
		return jobdescription.JobDescription{}, ErrNotFound
	}

	updated, err := u.repo.Update(ctx, userID, id, in, u.now().UTC())
	if err != nil {
		return jobdescription.JobDescription{}, u.mapRepoError(ctx, "update job description failed", err)
	}

	u.afterWrite(ctx, metrics.OpUpdate, jobdescription.ChangeUpdated, userID, updated.ID)
	return updated, nil
}

func (u *JobDescriptions) Delete(ctx context.Context, userID, jobID string) error {
	userID, ok := normalizeUserID(userID)
	if !ok {
		return ErrInvalidInput
	}
	id, ok := parseJobID(jobID)
	if !ok {
		return ErrNotFound
	}

	removed, err := u.repo.Delete(ctx, userID, id)
	if err != nil {
		u.log.Error(ctx, "delete job description failed", logger.String("jobId", jobID), logger.Error(err))
		return ErrInternal
	}
	if !removed {
		return ErrNotFound
	}

	u.afterWrite(ctx, metrics.OpDelete, jobdescription.ChangeDeleted, userID, id)
	return nil
}

// afterWrite retires the owner's cached stats and notifies subscribers.
// It runs only after the store has committed the write.
func (u *JobDescriptions) afterWrite(ctx context.Context, op string, change jobdescription.ChangeType, userID string, id uuid.UUID) {
	u.metrics.RecordWrite(op)

	if u.cache != nil {
		gen, err := u.cache.Incr(ctx, StatsGenerationKey(userID))
		if err != nil {
			u.log.Warn(ctx, "stats cache invalidation failed", logger.String("userId", userID), logger.Error(err))
		} else if err := u.cache.Delete(ctx, StatsCacheKey(userID, gen-1)); err != nil {
			u.log.Warn(ctx, "stale stats cleanup failed", logger.String("userId", userID), logger.Error(err))
		}
	}

	if u.notifier != nil {
		u.notifier.Publish(ctx, jobdescription.ChangeEvent{
			Type:      change,
			UserID:    userID,
			JobID:     id,
			Timestamp: u.now().UTC(),
		})
	}
}

func (u *JobDescriptions) mapRepoError(ctx context.Context, msg string, err error) error {
	if errors.Is(err, repository.ErrJobDescriptionNotFound) {
		return ErrNotFound
	}
	u.log.Error(ctx, msg, logger.Error(err))
	return ErrInternal
}

// normalizeUserID trims the owner id the same way for every operation.
func normalizeUserID(raw string) (string, bool) {
	id := strings.TrimSpace(raw)
	return id, id != ""
}

// parseJobID treats malformed ids as absent documents.
func parseJobID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
