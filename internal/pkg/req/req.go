/*
Package req provides helper functions for HTTP request parsing and data binding.

It decodes JSON bodies strictly (unknown fields and trailing data are rejected), caps the
body size, and runs go-playground/validator over the `validate` struct tags of the target.
*/
package req

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"izmetro/internal/pkg/errs"
	"izmetro/internal/pkg/logx"
)

// MaxJSONBodySize caps the body of every JSON request (64 KB).
const MaxJSONBodySize int64 = 64 << 10

var validate = validator.New(validator.WithRequiredStructEnabled())

// BindJSON decodes the JSON body of r into dst and validates it.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return Validate(dst)
}

// Validate runs the struct-tag validation rules over v.
func Validate(v any) *errs.CustomError {
	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				logx.Debug("Request field failed validation",
					"field", fe.Namespace(),
					"rule", fe.Tag(),
				)
			}
		}
		return errs.NewError(errs.ErrInvalidParams)
	}
	return nil
}
