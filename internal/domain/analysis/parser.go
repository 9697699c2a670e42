package analysis

import (
	"encoding/json"
	"regexp"
	"strings"
)

type ParseOutcome string

const (
	OutcomeParsed       ParseOutcome = "parsed"
	OutcomeNoJSONObject ParseOutcome = "no_json_object"
	OutcomeInvalidJSON  ParseOutcome = "invalid_json"
)

func (o ParseOutcome) Failed() bool {
	return o != OutcomeParsed
}

var (
	jsonFenceRe  = regexp.MustCompile("```json\\n?")
	plainFenceRe = regexp.MustCompile("```\\n?")
)

// StripFences removes every fenced code-block marker and trims the result.
func StripFences(raw string) string {
	s := jsonFenceRe.ReplaceAllString(raw, "")
	s = plainFenceRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ExtractObject returns the text between the first '{' and the last '}'.
func ExtractObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(s, "}")
	if end < start {
		return "", false
	}
	return s[start : end+1], true
}

// Parse normalizes a raw model reply. It never fails: a reply without a
// usable object yields FailedResult and a failure outcome.
func Parse(raw string) (Result, ParseOutcome) {
	obj, ok := ExtractObject(StripFences(raw))
	if !ok {
		return FailedResult(), OutcomeNoJSONObject
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return FailedResult(), OutcomeInvalidJSON
	}

	return Normalize(fields), OutcomeParsed
}

// Normalize applies per-field defaults to a decoded reply object.
func Normalize(fields map[string]any) Result {
	exp, _ := fields["experience"].(map[string]any)

	return Result{
		CandidateName: stringOr(fields["candidateName"], PlaceholderNotFound),
		Email:         stringOr(fields["email"], PlaceholderNotFound),
		Phone:         stringOr(fields["phone"], PlaceholderNotFound),
		Skills:        stringList(fields["skills"]),
		Experience: Experience{
			Total:            numberOr(exp["total"], 0),
			Companies:        stringList(exp["companies"]),
			RelevantProjects: stringList(exp["relevantProjects"]),
		},
		Education:       stringList(fields["education"]),
		SoftSkills:      stringList(fields["softSkills"]),
		MatchScore:      numberOr(fields["matchScore"], 0),
		Strengths:       stringList(fields["strengths"]),
		Gaps:            stringList(fields["gaps"]),
		Recommendations: stringOr(fields["recommendations"], PlaceholderNoRecommendations),
	}
}

func stringOr(v any, fallback string) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}

func numberOr(v any, fallback float64) float64 {
	n, ok := v.(float64)
	if !ok {
		return fallback
	}
	return n
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			continue
		}
		out = append(out, s)
	}
	return out
}
