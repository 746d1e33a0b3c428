// Package adapt rewrites the hero copy of the portfolio for a specific job posting.
package adapt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/portfolio-site/internal/types"
)

// Hero is the adapted copy for the home tab.
type Hero struct {
	Subtitle    string  `json:"subtitle"`
	Keywords    string  `json:"keywords"`
	Description string  `json:"description"`
	Snippet     Snippet `json:"snippet"`
	Company     string  `json:"company"`
}

var descriptionTemplates = map[types.Language]string{
	types.LangES: "Enfocada en %s, aporto mis soluciones técnicas para potenciar los objetivos de %s.",
	types.LangEN: "Focused on %s, I bring my technical solutions to boost the goals of %s.",
}

// Apply builds the adapted hero copy from a record. A nil record is a no-op and returns (nil, nil).
// Company and role are required; missing skills are treated as an empty list.
func Apply(record *types.AnalysisRecord, lang types.Language) (*Hero, error) {
	if record == nil {
		return nil, nil
	}
	if err := validate(record); err != nil {
		return nil, err
	}

	tmpl, ok := descriptionTemplates[lang]
	if !ok {
		tmpl = descriptionTemplates[types.DefaultLanguage]
	}

	return &Hero{
		Subtitle:    record.Role + subtitleSuffix,
		Keywords:    strings.Join(record.KeySkills, keywordSeparator),
		Description: fmt.Sprintf(tmpl, record.Vibe, record.Company),
		Snippet: BuildSnippet(SnippetData{
			Role:       record.Role,
			Experience: record.Experience,
			Stack:      record.Stack,
			KeySkills:  record.KeySkills,
		}),
		Company: record.Company,
	}, nil
}

func validate(record *types.AnalysisRecord) error {
	err := record.Validate()
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{
			Field:   jsonName(fe.Field()),
			Message: fmt.Sprintf("failed %q check", fe.Tag()),
			Cause:   err,
		}
	}
	return &ValidationError{Field: "record", Message: err.Error(), Cause: err}
}

func jsonName(field string) string {
	switch field {
	case "Company":
		return "company"
	case "Role":
		return "role"
	default:
		return strings.ToLower(field)
	}
}
