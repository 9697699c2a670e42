package validator

import (
	"strconv"
	"strings"

	"jdmatch/internal/domain/jobdescription"
)

// ParseListQuery reads list parameters through get (usually a request's
// query accessor). Missing or blank values take their defaults.
func ParseListQuery(get func(key string) string) (jobdescription.ListQuery, error) {
	q := jobdescription.DefaultListQuery()
	verr := newValidationError()

	if raw := strings.TrimSpace(get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr.addField("page", "Expected integer")
		case n < 0:
			verr.addField("page", "Number must be greater than or equal to 0")
		default:
			q.Page = n
		}
	}

	if raw := strings.TrimSpace(get("size")); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr.addField("size", "Expected integer")
		case n < 1:
			verr.addField("size", "Number must be greater than or equal to 1")
		case n > jobdescription.MaxPageSize:
			verr.addField("size", "Number must be less than or equal to "+strconv.Itoa(jobdescription.MaxPageSize))
		default:
			q.Size = n
		}
	}

	q.Search = get("search")

	if raw := strings.TrimSpace(get("sortBy")); raw != "" {
		f := jobdescription.SortField(raw)
		if !f.Valid() {
			verr.addField("sortBy", "Invalid enum value. Expected 'createdAt' | 'position' | 'updatedAt'")
		} else {
			q.SortBy = f
		}
	}

	if raw := strings.TrimSpace(get("sortOrder")); raw != "" {
		o := jobdescription.SortOrder(raw)
		if !o.Valid() {
			verr.addField("sortOrder", "Invalid enum value. Expected 'asc' | 'desc'")
		} else {
			q.SortOrder = o
		}
	}

	if raw := strings.TrimSpace(get("includeStats")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			verr.addField("includeStats", "Expected boolean")
		} else {
			q.IncludeStats = b
		}
	}

	if err := verr.orNil(); err != nil {
		return jobdescription.ListQuery{}, err
	}
	return q, nil
}
