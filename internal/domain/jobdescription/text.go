package jobdescription

import (
	"fmt"
	"strconv"
	"strings"
)

// PlainText renders a stored job description as prompt-ready text.
func (jd JobDescription) PlainText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Position: %s\n", jd.Position)
	fmt.Fprintf(&b, "Experience required: %s\n", jd.ExperienceRequired.String())
	writeList(&b, "Required skills", jd.RequiredSkills)
	writeList(&b, "Required qualifications", jd.RequiredQualifications)
	writeList(&b, "Nice to have skills", jd.NiceToHaveSkills)
	writeList(&b, "Nice to have qualifications", jd.NiceToHaveQualifications)
	writeList(&b, "Responsibilities", jd.Responsibilities)
	return strings.TrimSpace(b.String())
}

func (e ExperienceRequired) String() string {
	lo := formatYears(e.MinYears)
	if e.MaxYears == nil {
		return lo + "+ years"
	}
	return lo + "-" + formatYears(*e.MaxYears) + " years"
}

func formatYears(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(title)
	b.WriteString(":\n")
	for _, it := range items {
		b.WriteString("- ")
		b.WriteString(it)
		b.WriteString("\n")
	}
}
