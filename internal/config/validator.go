package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gyaneshwarpardhi/tempreach/internal/filter"
)

var validate = validator.New()

// Validate checks the config for:
//   - Required fields and value ranges (struct tags)
//   - A filter expression that compiles against the movement fields
//   - Two reports writing to the same file
func Validate(cfg *AnalysisConfig) error {
	var errs []string

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config: %w", err)
		}
		for _, fe := range verrs {
			errs = append(errs, formatFieldError(fe))
		}
	}

	if cfg.Filter != "" {
		if _, err := filter.Compile(cfg.Filter); err != nil {
			errs = append(errs, err.Error())
		}
	}

	paths := make(map[string]int)
	for i, r := range cfg.Reports {
		if r.Path == "" {
			continue
		}
		if prev, ok := paths[r.Path]; ok {
			errs = append(errs, fmt.Sprintf("reports[%d]: path %q already used by reports[%d]", i, r.Path, prev))
			continue
		}
		paths[r.Path] = i
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "AnalysisConfig.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", field)
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "len":
		return fmt.Sprintf("%s: must be exactly %s character(s)", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s: must be >= %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s: failed %s validation", field, fe.Tag())
	}
}
