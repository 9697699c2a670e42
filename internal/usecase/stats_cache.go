package usecase

import (
	"context"
	"strconv"
	"time"

	"jdmatch/internal/domain/jobdescription"
)

// StatsCache is the subset of the redis adapter the list use case needs.
// GetInt reports 0 for a missing key.
type StatsCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	GetInt(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, keys ...string) error
}

const (
	statsKeyPrefix           = "jd:stats:"
	statsGenerationKeyPrefix = "jd:statsgen:"
)

// StatsGenerationKey holds the owner's write counter. Every committed write
// bumps it, which retires all stats cached under earlier generations.
func StatsGenerationKey(userID string) string {
	return statsGenerationKeyPrefix + userID
}

// StatsCacheKey names the owner's stats for one generation.
func StatsCacheKey(userID string, generation int64) string {
	return statsKeyPrefix + strconv.FormatInt(generation, 10) + ":" + userID
}

type cachedStats struct {
	TotalJDs      int `json:"totalJDs"`
	TotalResumes  int `json:"totalResumes"`
	AverageScore  int `json:"averageScore"`
	StrongMatches int `json:"strongMatches"`
}

func toCachedStats(s jobdescription.DashboardStats) cachedStats {
	return cachedStats{
		TotalJDs:      s.TotalJDs,
		TotalResumes:  s.TotalResumes,
		AverageScore:  s.AverageScore,
		StrongMatches: s.StrongMatches,
	}
}

func (c cachedStats) dashboardStats() jobdescription.DashboardStats {
	return jobdescription.DashboardStats{
		TotalJDs:      c.TotalJDs,
		TotalResumes:  c.TotalResumes,
		AverageScore:  c.AverageScore,
		StrongMatches: c.StrongMatches,
	}
}
