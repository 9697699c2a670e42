package analysis

import "fmt"

const SystemPrompt = "You are an expert HR recruiter and resume analyzer. You MUST respond with valid JSON only. No explanations, no markdown, no additional text. Just pure JSON."

const ProbePrompt = `Respond with a simple JSON: {"status": "connected"}`

const userPromptTemplate = `Analyze this resume against the job description and return a JSON object.

JOB DESCRIPTION:
%s

RESUME:
%s

Return a valid JSON object with this exact structure (no other text):
{
  "candidateName": "Full name from resume",
  "email": "Email address",
  "phone": "Phone number",
  "skills": ["skill1", "skill2", "skill3"],
  "experience": {
    "total": 5,
    "companies": ["Company1", "Company2"],
    "relevantProjects": ["Project description 1", "Project description 2"]
  },
  "education": ["Degree in CS, University Name", "Certification"],
  "softSkills": ["Communication", "Leadership", "Problem Solving"],
  "matchScore": 85,
  "strengths": ["Strong technical background", "Relevant experience"],
  "gaps": ["Missing cloud experience", "No team leadership shown"],
  "recommendations": "Brief hiring recommendation here"
}`

// BuildPrompt embeds both texts verbatim.
func BuildPrompt(resumeText, jobDescriptionText string) string {
	return fmt.Sprintf(userPromptTemplate, jobDescriptionText, resumeText)
}
