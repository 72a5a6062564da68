package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SKuytov/SVP/internal/contracts"
)

// Error carries per-field validation failures (json field name → tag).
// It unwraps to contracts.ErrInvalidInput.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = k + ":" + e.Fields[k]
	}
	return fmt.Sprintf("validation failed (%s)", strings.Join(parts, ", "))
}

func (e *Error) Unwrap() error {
	return contracts.ErrInvalidInput
}

// Validator wraps validator/v10 with json field names
type Validator struct {
	v *validator.Validate
}

// New creates a validator reporting json tag names
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s; failures are returned as *Error
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", contracts.ErrInvalidInput, err)
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return &Error{Fields: fields}
}

// Fields extracts the field map from err (nil when err is not a validation error)
func Fields(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
