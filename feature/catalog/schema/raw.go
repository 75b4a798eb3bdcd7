package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"bandori-index/feature/catalog/models"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report upstream field names rather than Go names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError reports a document that breaks the upstream contract.
type ValidationError struct {
	Kind models.Kind
	// ID is zero for listing-level failures.
	ID     int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("invalid %s listing: %s: %s", e.Kind, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s record %d: %s: %s", e.Kind, e.ID, e.Field, e.Reason)
}

// checker is implemented by raw documents with rules that tags cannot express.
type checker interface {
	check() (field, reason string)
}

func decodeAndValidate(kind models.Kind, id int, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return &ValidationError{Kind: kind, ID: id, Field: "document", Reason: err.Error()}
	}
	if err := validate.Struct(out); err != nil {
		return toValidationError(kind, id, err)
	}
	if c, ok := out.(checker); ok {
		if field, reason := c.check(); reason != "" {
			return &ValidationError{Kind: kind, ID: id, Field: field, Reason: reason}
		}
	}
	return nil
}

func toValidationError(kind models.Kind, id int, err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		reason := "failed '" + fe.Tag() + "'"
		if fe.Param() != "" {
			reason += " (" + fe.Param() + ")"
		}
		return &ValidationError{Kind: kind, ID: id, Field: fe.Namespace(), Reason: reason}
	}
	return &ValidationError{Kind: kind, ID: id, Field: "document", Reason: err.Error()}
}

// regionTuple is the upstream five-slot region array.
type regionTuple[T any] []*T

func (r regionTuple[T]) jp() *T {
	if len(r) == 0 {
		return nil
	}
	return r[0]
}

func (r regionTuple[T]) en() *T {
	if len(r) < 2 {
		return nil
	}
	return r[1]
}

func (r regionTuple[T]) regional() models.Regional[T] {
	return models.Regional[T]{JP: r.jp(), EN: r.en()}
}

// epochMillis decodes epoch milliseconds given as a number or a numeric string.
type epochMillis time.Time

func (e *epochMillis) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	ms, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid epoch milliseconds %s", data)
	}
	*e = epochMillis(time.UnixMilli(int64(ms)).UTC())
	return nil
}

func dates(r regionTuple[epochMillis]) models.Regional[time.Time] {
	var out models.Regional[time.Time]
	if jp := r.jp(); jp != nil {
		out.JP = models.Ptr(time.Time(*jp))
	}
	if en := r.en(); en != nil {
		out.EN = models.Ptr(time.Time(*en))
	}
	return out
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

func missingPrimary(kind models.Kind, id int, field string) error {
	return &ValidationError{Kind: kind, ID: id, Field: field, Reason: "missing primary region value"}
}
