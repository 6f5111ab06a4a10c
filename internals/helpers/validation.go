package helper

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

/* ===============================
   Validator error mapping
=================================*/

// ValidationErrorsToMap → map field→pelanggaran untuk JsonValidationError.
// Nama field di-lowercase supaya cocok dengan tag json request.
func ValidationErrorsToMap(err error) map[string][]string {
	out := map[string][]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			field := strings.ToLower(fe.Field())
			out[field] = append(out[field], fe.Tag())
		}
		return out
	}
	if err != nil {
		out["_"] = []string{err.Error()}
	}
	return out
}

// HasFieldViolation: cek apakah error validasi menyentuh field tertentu
// (nama struct field, bukan tag json).
func HasFieldViolation(err error, field string) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Field() == field {
			return true
		}
	}
	return false
}
