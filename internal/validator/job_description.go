// Package validator checks request input before it reaches the use cases.
package validator

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"jdmatch/internal/domain/jobdescription"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const rootField = "(root)"

type JobDescriptionValidator struct {
	create *gojsonschema.Schema
	update *gojsonschema.Schema
}

func NewJobDescriptionValidator() (*JobDescriptionValidator, error) {
	create, err := loadSchema("schemas/job_description.create.json")
	if err != nil {
		return nil, err
	}
	update, err := loadSchema("schemas/job_description.update.json")
	if err != nil {
		return nil, err
	}
	return &JobDescriptionValidator{create: create, update: update}, nil
}

func loadSchema(path string) (*gojsonschema.Schema, error) {
	b, err := schemaFS.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", path, err)
	}
	return s, nil
}

type experienceBody struct {
	MinYears *float64 `json:"minYears"`
	MaxYears *float64 `json:"maxYears"`
}

type jobDescriptionBody struct {
	Position                 *string         `json:"position"`
	ExperienceRequired       *experienceBody `json:"experienceRequired"`
	RequiredSkills           []string        `json:"requiredSkills"`
	RequiredQualifications   []string        `json:"requiredQualifications"`
	NiceToHaveSkills         []string        `json:"niceToHaveSkills"`
	NiceToHaveQualifications []string        `json:"niceToHaveQualifications"`
	Responsibilities         []string        `json:"responsibilities"`
}

func (v *JobDescriptionValidator) ValidateCreate(body []byte) (jobdescription.CreateInput, error) {
	parsed, err := v.validate(v.create, body)
	if err != nil {
		return jobdescription.CreateInput{}, err
	}

	in := jobdescription.CreateInput{
		RequiredSkills:           parsed.RequiredSkills,
		RequiredQualifications:   parsed.RequiredQualifications,
		NiceToHaveSkills:         parsed.NiceToHaveSkills,
		NiceToHaveQualifications: parsed.NiceToHaveQualifications,
		Responsibilities:         parsed.Responsibilities,
	}
	if parsed.Position != nil {
		in.Position = *parsed.Position
	}
	if parsed.ExperienceRequired != nil {
		in.ExperienceRequired = parsed.ExperienceRequired.toDomain()
	}
	return in, nil
}

func (v *JobDescriptionValidator) ValidateUpdate(body []byte) (jobdescription.UpdateInput, error) {
	parsed, err := v.validate(v.update, body)
	if err != nil {
		return jobdescription.UpdateInput{}, err
	}

	in := jobdescription.UpdateInput{
		Position:                 parsed.Position,
		RequiredSkills:           parsed.RequiredSkills,
		RequiredQualifications:   parsed.RequiredQualifications,
		NiceToHaveSkills:         parsed.NiceToHaveSkills,
		NiceToHaveQualifications: parsed.NiceToHaveQualifications,
		Responsibilities:         parsed.Responsibilities,
	}
	if parsed.ExperienceRequired != nil {
		exp := parsed.ExperienceRequired.toDomain()
		in.ExperienceRequired = &exp
	}
	return in, nil
}

func (v *JobDescriptionValidator) validate(schema *gojsonschema.Schema, body []byte) (jobDescriptionBody, error) {
	verr := newValidationError()

	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		verr.addForm("Invalid JSON body")
		return jobDescriptionBody{}, verr
	}
	if !res.Valid() {
		for _, re := range res.Errors() {
			field := topLevelField(re)
			if field == rootField {
				verr.addForm(re.Description())
				continue
			}
			verr.addField(field, re.Description())
		}
		return jobDescriptionBody{}, verr
	}

	var parsed jobDescriptionBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		verr.addForm("Invalid JSON body")
		return jobDescriptionBody{}, verr
	}

	if exp := parsed.ExperienceRequired; exp != nil && exp.MinYears != nil && exp.MaxYears != nil {
		if *exp.MaxYears < *exp.MinYears {
			verr.addField("experienceRequired", "maxYears must be greater than or equal to minYears")
		}
	}

	return parsed, verr.orNil()
}

func (e experienceBody) toDomain() jobdescription.ExperienceRequired {
	out := jobdescription.ExperienceRequired{MaxYears: e.MaxYears}
	if e.MinYears != nil {
		out.MinYears = *e.MinYears
	}
	return out
}

// topLevelField reports the first path segment an error belongs to.
func topLevelField(re gojsonschema.ResultError) string {
	field := re.Field()
	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok && prop != "" {
			if field == rootField || field == "" {
				field = prop
			} else {
				field = field + "." + prop
			}
		}
	}
	if field == "" {
		return rootField
	}
	if i := strings.Index(field, "."); i >= 0 {
		return field[:i]
	}
	return field
}
