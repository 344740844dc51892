package intake

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/spigell/resume-matcher/internal/jobs"
)

type validateStep struct {
	validate *validator.Validate
}

// NewValidate creates a step that rejects the whole batch when any posting is
// malformed. A nil validator is replaced with NewValidator().
func NewValidate(v *validator.Validate) Step {
	if v == nil {
		v = NewValidator()
	}
	return &validateStep{validate: v}
}

// NewValidator returns a validator that knows the notblank tag and reports
// fields by their json names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

func (s *validateStep) Name() string { return "validate" }

func (s *validateStep) Apply(_ context.Context, _ Deps, postings []*jobs.Posting) ([]*jobs.Posting, Report, error) {
	for i, posting := range postings {
		if posting == nil {
			return nil, Report{}, fmt.Errorf("%w: job #%d is empty", ErrInvalidPosting, i)
		}
		if err := s.validate.Struct(posting); err != nil {
			return nil, Report{}, fmt.Errorf("%w: job #%d (%s): %s", ErrInvalidPosting, i, strings.TrimSpace(posting.ID), describe(err))
		}
	}
	return postings, Report{Initial: len(postings), Left: len(postings)}, nil
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
	}
	return strings.Join(parts, ", ")
}
