package analysis_test

import (
	"strings"
	"testing"

	"jdmatch/internal/domain/analysis"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given a raw model reply", t, func() {
		Convey("When it is a fenced json block with only matchScore", func() {
			res, outcome := analysis.Parse("```json\n{\"matchScore\": 77}\n```")

			Convey("Then present fields are kept and the rest fall back to defaults", func() {
				So(outcome, ShouldEqual, analysis.OutcomeParsed)
				So(res.MatchScore, ShouldEqual, 77)
				So(res.Skills, ShouldResemble, []string{})
				So(res.CandidateName, ShouldEqual, analysis.PlaceholderNotFound)
				So(res.Email, ShouldEqual, analysis.PlaceholderNotFound)
				So(res.Phone, ShouldEqual, analysis.PlaceholderNotFound)
				So(res.Recommendations, ShouldEqual, analysis.PlaceholderNoRecommendations)
				So(res.Experience.Total, ShouldEqual, 0)
				So(res.Experience.Companies, ShouldResemble, []string{})
				So(res.Experience.RelevantProjects, ShouldResemble, []string{})
			})
		})

		Convey("When it has no braces at all", func() {
			res, outcome := analysis.Parse("I cannot help with that.")

			Convey("Then the fully defaulted error result is returned", func() {
				So(outcome, ShouldEqual, analysis.OutcomeNoJSONObject)
				So(outcome.Failed(), ShouldBeTrue)
				So(res, ShouldResemble, analysis.FailedResult())
				So(res.CandidateName, ShouldEqual, analysis.PlaceholderErrorParsing)
				So(res.Recommendations, ShouldEqual, analysis.PlaceholderParseFailed)
			})
		})

		Convey("When the braces enclose invalid JSON", func() {
			res, outcome := analysis.Parse("Sure! {matchScore: high}")

			Convey("Then it degrades to the error result", func() {
				So(outcome, ShouldEqual, analysis.OutcomeInvalidJSON)
				So(res, ShouldResemble, analysis.FailedResult())
			})
		})

		Convey("When the only closing brace precedes the opening one", func() {
			_, outcome := analysis.Parse("} nothing here {")

			Convey("Then no object is found", func() {
				So(outcome, ShouldEqual, analysis.OutcomeNoJSONObject)
			})
		})

		Convey("When the object is surrounded by prose", func() {
			raw := "Here is the analysis:\n```\n{\"candidateName\": \"Ada\", \"experience\": {\"total\": 6, \"companies\": [\"Acme\"]}}\n```\nThanks"
			res, outcome := analysis.Parse(raw)

			Convey("Then the object between the first and last brace is used", func() {
				So(outcome, ShouldEqual, analysis.OutcomeParsed)
				So(res.CandidateName, ShouldEqual, "Ada")
				So(res.Experience.Total, ShouldEqual, 6)
				So(res.Experience.Companies, ShouldResemble, []string{"Acme"})
				So(res.Experience.RelevantProjects, ShouldResemble, []string{})
			})
		})

		Convey("When fields carry the wrong types", func() {
			raw := `{"candidateName": 42, "email": "", "skills": "Go", "matchScore": "90", "experience": {"total": "5"}, "gaps": ["none", 3], "recommendations": ["hire"]}`
			res, outcome := analysis.Parse(raw)

			Convey("Then each field falls back independently", func() {
				So(outcome, ShouldEqual, analysis.OutcomeParsed)
				So(res.CandidateName, ShouldEqual, analysis.PlaceholderNotFound)
				So(res.Email, ShouldEqual, analysis.PlaceholderNotFound)
				So(res.Skills, ShouldResemble, []string{})
				So(res.MatchScore, ShouldEqual, 0)
				So(res.Experience.Total, ShouldEqual, 0)
				So(res.Gaps, ShouldResemble, []string{"none"})
				So(res.Recommendations, ShouldEqual, analysis.PlaceholderNoRecommendations)
			})
		})

		Convey("When matchScore is outside 0-100", func() {
			res, _ := analysis.Parse(`{"matchScore": 140}`)

			Convey("Then it is not clamped", func() {
				So(res.MatchScore, ShouldEqual, 140)
			})
		})
	})
}

func TestBuildPrompt(t *testing.T) {
	Convey("Given resume and job description texts", t, func() {
		p := analysis.BuildPrompt("RESUME BODY", "JD BODY")

		Convey("Then both are embedded verbatim, job description first", func() {
			So(p, ShouldContainSubstring, "JOB DESCRIPTION:\nJD BODY")
			So(p, ShouldContainSubstring, "RESUME:\nRESUME BODY")
			So(strings.Index(p, "JD BODY"), ShouldBeLessThan, strings.Index(p, "RESUME BODY"))
		})
	})
}
