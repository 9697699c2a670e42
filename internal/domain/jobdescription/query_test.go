package jobdescription

import (
	"testing"
	"time"
)

func TestNewPage_Metadata(t *testing.T) {
	cases := []struct {
		name      string
		page      int
		size      int
		total     int64
		content   int
		wantPages int
		wantFirst bool
		wantLast  bool
	}{
		{name: "empty", page: 0, size: 10, total: 0, content: 0, wantPages: 0, wantFirst: true, wantLast: true},
		{name: "single partial page", page: 0, size: 10, total: 3, content: 3, wantPages: 1, wantFirst: true, wantLast: true},
		{name: "exact multiple", page: 1, size: 5, total: 10, content: 5, wantPages: 2, wantFirst: false, wantLast: true},
		{name: "middle page", page: 1, size: 3, total: 10, content: 3, wantPages: 4, wantFirst: false, wantLast: false},
		{name: "beyond range", page: 7, size: 3, total: 10, content: 0, wantPages: 4, wantFirst: false, wantLast: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := DefaultListQuery()
			q.Page = tc.page
			q.Size = tc.size

			content := make([]JobDescription, tc.content)
			p := NewPage(q, content, tc.total, nil)

			if p.TotalPages != tc.wantPages {
				t.Fatalf("totalPages: expected %d, got %d", tc.wantPages, p.TotalPages)
			}
			if p.First != tc.wantFirst {
				t.Fatalf("first: expected %v, got %v", tc.wantFirst, p.First)
			}
			if p.Last != tc.wantLast {
				t.Fatalf("last: expected %v, got %v", tc.wantLast, p.Last)
			}
			if p.NumberOfElements != tc.content {
				t.Fatalf("numberOfElements: expected %d, got %d", tc.content, p.NumberOfElements)
			}
			if p.Empty != (tc.content == 0) {
				t.Fatalf("empty mismatch")
			}
			if p.Offset != tc.page*tc.size {
				t.Fatalf("offset: expected %d, got %d", tc.page*tc.size, p.Offset)
			}
		})
	}
}

func TestNewPage_NilContentIsEmptySlice(t *testing.T) {
	p := NewPage(DefaultListQuery(), nil, 0, nil)
	if p.Content == nil {
		t.Fatalf("expected non-nil content")
	}
}

func TestAggregate_DashboardStats(t *testing.T) {
	if got := (Aggregate{}).DashboardStats(); got != (DashboardStats{}) {
		t.Fatalf("expected zero stats, got %+v", got)
	}

	got := Aggregate{Count: 2, TotalResumes: 7, AverageScore: 72.5, StrongMatches: 3}.DashboardStats()
	want := DashboardStats{TotalJDs: 2, TotalResumes: 7, AverageScore: 73, StrongMatches: 3}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestListQuery_Valid(t *testing.T) {
	q := DefaultListQuery()
	if !q.Valid() {
		t.Fatalf("default query should be valid")
	}

	bad := []func(*ListQuery){
		func(q *ListQuery) { q.Page = -1 },
		func(q *ListQuery) { q.Size = 0 },
		func(q *ListQuery) { q.Size = 101 },
		func(q *ListQuery) { q.SortBy = "salary" },
		func(q *ListQuery) { q.SortOrder = "up" },
	}
	for i, mutate := range bad {
		q := DefaultListQuery()
		mutate(&q)
		if q.Valid() {
			t.Fatalf("case %d: expected invalid query", i)
		}
	}
}

func TestUpdateInput_ApplyLeavesAbsentFields(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jd := New("user-1", CreateInput{
		Position:           "Backend Engineer",
		ExperienceRequired: ExperienceRequired{MinYears: 2},
		RequiredSkills:     []string{"Go"},
		Responsibilities:   []string{"Build APIs"},
	}, created)
	jd.Stats = Stats{TotalResumes: 4, StrongMatches: 1, AverageScore: 61}

	title := "New Title"
	later := created.Add(time.Hour)
	UpdateInput{Position: &title}.Apply(&jd, later)

	if jd.Position != "New Title" {
		t.Fatalf("position not applied")
	}
	if len(jd.RequiredSkills) != 1 || jd.RequiredSkills[0] != "Go" {
		t.Fatalf("requiredSkills changed: %v", jd.RequiredSkills)
	}
	if jd.Stats.TotalResumes != 4 || jd.Stats.AverageScore != 61 {
		t.Fatalf("stats changed: %+v", jd.Stats)
	}
	if !jd.CreatedAt.Equal(created) {
		t.Fatalf("createdAt changed")
	}
	if !jd.UpdatedAt.Equal(later) {
		t.Fatalf("updatedAt not refreshed")
	}
}

func TestPlainText(t *testing.T) {
	maxYears := 5.0
	jd := JobDescription{
		Position:           "Data Engineer",
		ExperienceRequired: ExperienceRequired{MinYears: 3, MaxYears: &maxYears},
		RequiredSkills:     []string{"SQL", "Python"},
		Responsibilities:   []string{"Own pipelines"},
	}

	want := "Position: Data Engineer\n" +
		"Experience required: 3-5 years\n" +
		"Required skills:\n- SQL\n- Python\n" +
		"Responsibilities:\n- Own pipelines"
	if got := jd.PlainText(); got != want {
		t.Fatalf("unexpected text:\n%s", got)
	}
}
