package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/nutri-api/internal/generation"
)

// MaxBodyBytes bounds request bodies; photo data URIs make them large.
const MaxBodyBytes = 20 << 20

// ErrEmptyBody is returned by DecodeJSON for a request without a body.
var ErrEmptyBody = errors.New("request body is empty")

// Global validator instance for reuse
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// "datauri" accepts base64 data URIs the model invoker can decode.
	if err := v.RegisterValidation("datauri", func(fl validator.FieldLevel) bool {
		_, err := generation.ParseDataURI(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("register datauri validation: %v", err))
	}
	return v
}

// DecodeJSON decodes the request body into v. The body is limited to
// MaxBodyBytes and must hold exactly one JSON value.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v any) error {
	// Check if the object implements the Validate interface
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	// Otherwise, use the struct validator
	return validate.Struct(v)
}
