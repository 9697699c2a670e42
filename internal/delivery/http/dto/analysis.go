package dto

// AnalyzeRequest accepts the JD inline (jobDescription, or the older jd key)
// or as a URL to fetch.
type AnalyzeRequest struct {
	ResumeText        string `json:"resumeText"`
	JobDescription    string `json:"jobDescription"`
	JD                string `json:"jd"`
	JobDescriptionURL string `json:"jobDescriptionUrl"`
}

func (r AnalyzeRequest) JobDescriptionText() string {
	if r.JobDescription != "" {
		return r.JobDescription
	}
	return r.JD
}

type AnalyzeJobDescriptionRequest struct {
	ResumeText string `json:"resumeText"`
}

type LLMHealthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
