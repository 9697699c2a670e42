package jobdescription

import (
	"time"

	"github.com/google/uuid"
)

type ExperienceRequired struct {
	MinYears float64
	MaxYears *float64
}

type Stats struct {
	TotalResumes  int
	StrongMatches int
	AverageScore  float64
}

type JobDescription struct {
	ID                       uuid.UUID
	UserID                   string
	Position                 string
	ExperienceRequired       ExperienceRequired
	RequiredSkills           []string
	RequiredQualifications   []string
	NiceToHaveSkills         []string
	NiceToHaveQualifications []string
	Responsibilities         []string
	Stats                    Stats
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// CreateInput is a validated create body. Optional lists stay nil when absent.
type CreateInput struct {
	Position                 string
	ExperienceRequired       ExperienceRequired
	RequiredSkills           []string
	RequiredQualifications   []string
	NiceToHaveSkills         []string
	NiceToHaveQualifications []string
	Responsibilities         []string
}

// UpdateInput is a validated partial body; nil means "leave unchanged".
type UpdateInput struct {
	Position                 *string
	ExperienceRequired       *ExperienceRequired
	RequiredSkills           []string
	RequiredQualifications   []string
	NiceToHaveSkills         []string
	NiceToHaveQualifications []string
	Responsibilities         []string
}

// Apply merges the provided fields into jd and stamps UpdatedAt.
func (in UpdateInput) Apply(jd *JobDescription, now time.Time) {
	if jd == nil {
		return
	}
	if in.Position != nil {
		jd.Position = *in.Position
	}
	if in.ExperienceRequired != nil {
		jd.ExperienceRequired = in.ExperienceRequired.Clone()
	}
	if in.RequiredSkills != nil {
		jd.RequiredSkills = cloneStrings(in.RequiredSkills)
	}
	if in.RequiredQualifications != nil {
		jd.RequiredQualifications = cloneStrings(in.RequiredQualifications)
	}
	if in.NiceToHaveSkills != nil {
		jd.NiceToHaveSkills = cloneStrings(in.NiceToHaveSkills)
	}
	if in.NiceToHaveQualifications != nil {
		jd.NiceToHaveQualifications = cloneStrings(in.NiceToHaveQualifications)
	}
	if in.Responsibilities != nil {
		jd.Responsibilities = cloneStrings(in.Responsibilities)
	}
	jd.UpdatedAt = now
}

// New builds a fresh document for userID with zeroed stats and both timestamps set to now.
func New(userID string, in CreateInput, now time.Time) JobDescription {
	return JobDescription{
		ID:                       uuid.New(),
		UserID:                   userID,
		Position:                 in.Position,
		ExperienceRequired:       in.ExperienceRequired.Clone(),
		RequiredSkills:           cloneStrings(in.RequiredSkills),
		RequiredQualifications:   cloneStrings(in.RequiredQualifications),
		NiceToHaveSkills:         cloneStrings(in.NiceToHaveSkills),
		NiceToHaveQualifications: cloneStrings(in.NiceToHaveQualifications),
		Responsibilities:         cloneStrings(in.Responsibilities),
		Stats:                    Stats{},
		CreatedAt:                now,
		UpdatedAt:                now,
	}
}

func (e ExperienceRequired) Clone() ExperienceRequired {
	out := ExperienceRequired{MinYears: e.MinYears}
	if e.MaxYears != nil {
		v := *e.MaxYears
		out.MaxYears = &v
	}
	return out
}

func (jd JobDescription) Clone() JobDescription {
	out := jd
	out.ExperienceRequired = jd.ExperienceRequired.Clone()
	out.RequiredSkills = cloneStrings(jd.RequiredSkills)
	out.RequiredQualifications = cloneStrings(jd.RequiredQualifications)
	out.NiceToHaveSkills = cloneStrings(jd.NiceToHaveSkills)
	out.NiceToHaveQualifications = cloneStrings(jd.NiceToHaveQualifications)
	out.Responsibilities = cloneStrings(jd.Responsibilities)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
