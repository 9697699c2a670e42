// Package analysis holds the resume-vs-job-description analysis contract:
// the prompt sent to the model and the normalization of its reply.
package analysis

const (
	PlaceholderNotFound          = "Not found"
	PlaceholderNoRecommendations = "No recommendations provided"
	PlaceholderErrorParsing      = "Error parsing"
	PlaceholderParseFailed       = "Failed to parse analysis response"
)

type Experience struct {
	Total            float64  `json:"total"`
	Companies        []string `json:"companies"`
	RelevantProjects []string `json:"relevantProjects"`
}

type Result struct {
	CandidateName   string     `json:"candidateName"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	Skills          []string   `json:"skills"`
	Experience      Experience `json:"experience"`
	Education       []string   `json:"education"`
	SoftSkills      []string   `json:"softSkills"`
	MatchScore      float64    `json:"matchScore"`
	Strengths       []string   `json:"strengths"`
	Gaps            []string   `json:"gaps"`
	Recommendations string     `json:"recommendations"`
}

// FailedResult is returned when the reply holds no parsable JSON object.
func FailedResult() Result {
	return Result{
		CandidateName:   PlaceholderErrorParsing,
		Email:           PlaceholderErrorParsing,
		Phone:           PlaceholderErrorParsing,
		Skills:          []string{},
		Experience:      Experience{Total: 0, Companies: []string{}, RelevantProjects: []string{}},
		Education:       []string{},
		SoftSkills:      []string{},
		MatchScore:      0,
		Strengths:       []string{},
		Gaps:            []string{},
		Recommendations: PlaceholderParseFailed,
	}
}
