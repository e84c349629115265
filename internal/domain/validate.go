package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// RegisterValidation only fails on an empty tag or a baked-in name.
		_ = validate.RegisterValidation("basicemail", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// FieldError describes one violated constraint.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func (f FieldError) String() string {
	if f.Param == "" {
		return fmt.Sprintf("%s: %s", f.Field, f.Rule)
	}
	return fmt.Sprintf("%s: %s=%s", f.Field, f.Rule, f.Param)
}

// ValidationError is returned when an entity fails its schema constraints.
type ValidationError struct {
	Entity string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s validation failed: %s", e.Entity, strings.Join(parts, ", "))
}

// ValidateUser checks u against the user schema. Call Normalize first.
// A zero age counts as not supplied.
func ValidateUser(u *User) error {
	return check("user", u, nil)
}

// ValidateUserWithAge is ValidateUser for writes that carried an age, where
// zero is a value below the minimum rather than an absent one.
func ValidateUserWithAge(u *User) error {
	var extra validator.ValidationErrors
	if u.Age == 0 {
		if err := validatorInstance().Var(u.Age, "min=1"); err != nil {
			if !errors.As(err, &extra) {
				return fmt.Errorf("validate user: %w", err)
			}
		}
	}
	return check("user", u, extra)
}

// ValidateArticle checks a against the article schema. Call Normalize first.
func ValidateArticle(a *Article) error {
	return check("article", a, nil)
}

// check validates v and merges any age violations found by a separate
// field-level check. Var errors carry no field name, so they are reported
// as age.
func check(entity string, v any, ageErrs validator.ValidationErrors) error {
	var verrs validator.ValidationErrors
	if err := validatorInstance().Struct(v); err != nil {
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate %s: %w", entity, err)
		}
	}
	if len(verrs) == 0 && len(ageErrs) == 0 {
		return nil
	}

	out := &ValidationError{Entity: entity, Fields: make([]FieldError, 0, len(verrs)+len(ageErrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: jsonFieldName(fe.Field()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	for _, fe := range ageErrs {
		out.Fields = append(out.Fields, FieldError{Field: "age", Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}

// jsonFieldName maps a Go field name to its camelCase API name.
func jsonFieldName(name string) string {
	if name == "OwnerID" {
		return "ownerId"
	}
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}
