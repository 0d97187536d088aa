package contract

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/huangsam/farmstat/schema"
)

// ErrInvalidRecord marks a record rejected by validation.
var ErrInvalidRecord = errors.New("invalid record")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// recordValidator returns the shared validator, reporting fields by their JSON names.
func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateRecord checks a record's struct tags. The returned error wraps ErrInvalidRecord
// and lists every failing field.
func ValidateRecord(record schema.Record) error {
	err := recordValidator().Struct(record)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, formatFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(messages, "; "))
}

// ValidateRecords validates each record and reports the first failure by its 1-based position.
func ValidateRecords(records schema.RecordSet) error {
	for i, record := range records {
		if err := ValidateRecord(record); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
