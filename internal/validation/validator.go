package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/combosss/combo-api/internal/model"
)

var (
	emailRe   = regexp.MustCompile(`^[a-z0-9._-]+@[a-z0-9.-]+\.[a-z]{2,4}$`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	specialRe = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)
)

// tagLengthMatch is reported by the combo struct-level rule.
const tagLengthMatch = "eqlen"

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		mustRegister(v, "notblank", validators.NotBlank)
		mustRegister(v, "useremail", func(fl validator.FieldLevel) bool {
			return emailRe.MatchString(fl.Field().String())
		})
		mustRegister(v, "password", func(fl validator.FieldLevel) bool {
			return len(passwordProblems(fl.Field().String())) == 0
		})
		v.RegisterStructValidation(comboLengths, model.ComboSubmission{})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// jsonName makes error namespaces use the wire names.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// comboLengths requires one input group per position. Missing arrays are
// left to the required tags.
func comboLengths(sl validator.StructLevel) {
	s := sl.Current().Interface().(model.ComboSubmission)
	if s.Positions == nil || s.Inputs == nil {
		return
	}
	if len(s.Inputs) != len(s.Positions) {
		sl.ReportError(s.Inputs, "inputs", "Inputs", tagLengthMatch, fmt.Sprint(len(s.Positions)))
	}
}

// EchoValidator plugs Struct into echo's Context.Validate.
type EchoValidator struct{}

func (EchoValidator) Validate(i any) error { return Struct(i) }

// Struct validates s against its `validate` tags and returns Errors with
// one entry per violation. A length mismatch between positions and inputs
// is listed first.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	var first, rest Errors
	for _, fe := range ves {
		field := fieldPath(fe.Namespace())
		for _, msg := range messages(fe) {
			if fe.Tag() == tagLengthMatch {
				first.add(field, msg)
			} else {
				rest.add(field, msg)
			}
		}
	}
	return append(first, rest...).Err()
}

// fieldPath drops the root type name: "ComboSubmission.positions[0].positionName"
// becomes "positions[0].positionName".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func messages(fe validator.FieldError) []string {
	switch fe.Tag() {
	case "required", "notblank":
		return []string{"This field is required."}
	case "useremail":
		return []string{"Invalid email format."}
	case "password":
		s, _ := fe.Value().(string)
		return passwordProblems(s)
	case "http_url":
		return []string{"Invalid URL."}
	case "alphanum", "lowercase":
		return []string{"Only lowercase letters and numbers are allowed."}
	case "min":
		if fe.Kind() == reflect.String {
			return []string{fmt.Sprintf("Must be at least %s characters.", fe.Param())}
		}
		return []string{fmt.Sprintf("Must be %s or greater.", fe.Param())}
	case "max":
		return []string{fmt.Sprintf("Can't exceed %s characters.", fe.Param())}
	case "gte":
		return []string{fmt.Sprintf("Must be %s or greater.", fe.Param())}
	case tagLengthMatch:
		return []string{fmt.Sprintf("Expected %s input groups to match positions.", fe.Param())}
	}
	return []string{fmt.Sprintf("Failed the %s rule.", fe.Tag())}
}

func passwordProblems(p string) []string {
	var out []string
	if len([]rune(p)) < 8 {
		out = append(out, "Password requires at least 8 characters !")
	}
	if !digitRe.MatchString(p) {
		out = append(out, "Password must contain at least one number.")
	}
	if !upperRe.MatchString(p) {
		out = append(out, "Password must contain at least one uppercase letter.")
	}
	if !specialRe.MatchString(p) {
		out = append(out, "Password must contain at least one special character.")
	}
	return out
}
