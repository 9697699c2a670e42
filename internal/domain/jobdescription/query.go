package jobdescription

import (
	"math"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByPosition  SortField = "position"
	SortByUpdatedAt SortField = "updatedAt"
)

func (f SortField) Valid() bool {
	switch f {
	case SortByCreatedAt, SortByPosition, SortByUpdatedAt:
		return true
	}
	return false
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

type ListQuery struct {
	Page         int
	Size         int
	Search       string
	SortBy       SortField
	SortOrder    SortOrder
	IncludeStats bool
}

func DefaultListQuery() ListQuery {
	return ListQuery{
		Page:         0,
		Size:         DefaultPageSize,
		SortBy:       SortByCreatedAt,
		SortOrder:    SortDesc,
		IncludeStats: true,
	}
}

func (q ListQuery) Valid() bool {
	if q.Page < 0 {
		return false
	}
	if q.Size < 1 || q.Size > MaxPageSize {
		return false
	}
	return q.SortBy.Valid() && q.SortOrder.Valid()
}

func (q ListQuery) Offset() int {
	return q.Page * q.Size
}

// SearchTerm returns the search text verbatim; only "" disables the filter.
func (q ListQuery) SearchTerm() string {
	return q.Search
}

type DashboardStats struct {
	TotalJDs      int
	TotalResumes  int
	AverageScore  int
	StrongMatches int
}

// Aggregate is the raw per-owner aggregation before rounding.
type Aggregate struct {
	Count         int
	TotalResumes  int
	AverageScore  float64
	StrongMatches int
}

func (a Aggregate) DashboardStats() DashboardStats {
	if a.Count == 0 {
		return DashboardStats{}
	}
	return DashboardStats{
		TotalJDs:      a.Count,
		TotalResumes:  a.TotalResumes,
		AverageScore:  RoundScore(a.AverageScore),
		StrongMatches: a.StrongMatches,
	}
}

// RoundScore rounds half up, matching the dashboard's historic behaviour.
func RoundScore(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Floor(v + 0.5))
}

type Page struct {
	Content          []JobDescription
	PageNumber       int
	PageSize         int
	Offset           int
	TotalElements    int64
	TotalPages       int
	First            bool
	Last             bool
	NumberOfElements int
	Empty            bool
	Stats            *DashboardStats
}

// NewPage derives the pagination metadata for one slice of results.
func NewPage(q ListQuery, content []JobDescription, total int64, stats *DashboardStats) Page {
	if content == nil {
		content = []JobDescription{}
	}
	totalPages := 0
	if total > 0 && q.Size > 0 {
		totalPages = int((total + int64(q.Size) - 1) / int64(q.Size))
	}
	return Page{
		Content:          content,
		PageNumber:       q.Page,
		PageSize:         q.Size,
		Offset:           q.Offset(),
		TotalElements:    total,
		TotalPages:       totalPages,
		First:            q.Page == 0,
		Last:             q.Page+1 >= totalPages,
		NumberOfElements: len(content),
		Empty:            len(content) == 0,
		Stats:            stats,
	}
}
