package dto

import (
	"time"

	"jdmatch/internal/domain/jobdescription"
)

// TimeLayout is ISO-8601 in UTC with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

type ExperienceRequiredResponse struct {
	MinYears float64  `json:"minYears"`
	MaxYears *float64 `json:"maxYears,omitempty"`
}

type JobStatsResponse struct {
	TotalResumes  int     `json:"totalResumes"`
	StrongMatches int     `json:"strongMatches"`
	AverageScore  float64 `json:"averageScore"`
}

type JobDescriptionResponse struct {
	ID                       string                     `json:"id"`
	UserID                   string                     `json:"userId"`
	Position                 string                     `json:"position"`
	ExperienceRequired       ExperienceRequiredResponse `json:"experienceRequired"`
	RequiredSkills           []string                   `json:"requiredSkills"`
	RequiredQualifications   []string                   `json:"requiredQualifications"`
	NiceToHaveSkills         []string                   `json:"niceToHaveSkills"`
	NiceToHaveQualifications []string                   `json:"niceToHaveQualifications"`
	Responsibilities         []string                   `json:"responsibilities"`
	Stats                    JobStatsResponse           `json:"stats"`
	CreatedAt                string                     `json:"createdAt"`
	UpdatedAt                string                     `json:"updatedAt"`
}

func NewJobDescriptionResponse(jd jobdescription.JobDescription) JobDescriptionResponse {
	return JobDescriptionResponse{
		ID:       jd.ID.String(),
		UserID:   jd.UserID,
		Position: jd.Position,
		ExperienceRequired: ExperienceRequiredResponse{
			MinYears: jd.ExperienceRequired.MinYears,
			MaxYears: jd.ExperienceRequired.MaxYears,
		},
		RequiredSkills:           nonNil(jd.RequiredSkills),
		RequiredQualifications:   nonNil(jd.RequiredQualifications),
		NiceToHaveSkills:         nonNil(jd.NiceToHaveSkills),
		NiceToHaveQualifications: nonNil(jd.NiceToHaveQualifications),
		Responsibilities:         nonNil(jd.Responsibilities),
		Stats: JobStatsResponse{
			TotalResumes:  jd.Stats.TotalResumes,
			StrongMatches: jd.Stats.StrongMatches,
			AverageScore:  jd.Stats.AverageScore,
		},
		CreatedAt: FormatTime(jd.CreatedAt),
		UpdatedAt: FormatTime(jd.UpdatedAt),
	}
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
