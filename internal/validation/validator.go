// Package validation checks user input before it reaches the recommender or
// the cache, using go-playground/validator with the project's custom rules.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Validator wraps go-playground/validator and reports failures as
// domain.ErrValidation.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the custom tags used by domain types.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so messages match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tag names or nil functions.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, ok := parseClock(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("ageband", func(fl validator.FieldLevel) bool {
		return domain.AgeBand(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("visibility", func(fl validator.FieldLevel) bool {
		return domain.Visibility(fl.Field().String()).Valid()
	})

	v.RegisterStructValidation(tripFormRules, domain.TripForm{})

	return &Validator{v: v}
}

// Validate validates a struct and returns an error wrapping
// domain.ErrValidation that lists every failing field.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return formatError(err)
	}
	return nil
}

// tripFormRules holds the cross-field rules of a TripForm. Single-field
// format errors are reported by the field tags, so these only fire when
// both sides parse.
func tripFormRules(sl validator.StructLevel) {
	f := sl.Current().Interface().(domain.TripForm)

	start, errS := time.Parse(dateLayout, f.StartDate)
	end, errE := time.Parse(dateLayout, f.EndDate)
	if errS == nil && errE == nil && end.Before(start) {
		sl.ReportError(f.EndDate, "end_date", "EndDate", "notbefore", "start_date")
	}

	switch {
	case f.ActivityStart == nil && f.ActivityEnd == nil:
	case f.ActivityStart == nil:
		sl.ReportError(f.ActivityStart, "activity_start", "ActivityStart", "pairedwith", "activity_end")
	case f.ActivityEnd == nil:
		sl.ReportError(f.ActivityEnd, "activity_end", "ActivityEnd", "pairedwith", "activity_start")
	default:
		from, okFrom := parseClock(*f.ActivityStart)
		to, okTo := parseClock(*f.ActivityEnd)
		if okFrom && okTo && !to.After(from) {
			sl.ReportError(*f.ActivityEnd, "activity_end", "ActivityEnd", "after", "activity_start")
		}
	}
}

// parseClock accepts zero-padded 24h "HH:mm" only.
func parseClock(s string) (time.Time, bool) {
	if len(s) != len(timeLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(timeLayout, s)
	return t, err == nil
}

// formatError converts validator errors to a single domain validation error.
func formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, e.Field()+" "+friendlyMessage(e))
	}
	slices.Sort(msgs)
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "len":
		return "must have exactly " + e.Param() + " elements"
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "isodate":
		return "must be a date in yyyy-MM-dd format"
	case "hhmm":
		return "must be a time in HH:mm format"
	case "ageband":
		return "must be a known age band"
	case "visibility":
		return "must be PUBLIC or PRIVATE"
	case "notbefore":
		return "must not be before " + e.Param()
	case "pairedwith":
		return "must be set together with " + e.Param()
	case "after":
		return "must be after " + e.Param()
	default:
		return "is invalid"
	}
}
