package common

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateAndDecode decodes the request body into payload and runs the
// struct's validation tags. It returns an AppError so handlers can hand the
// failure straight to the error middleware.
func ValidateAndDecode(r *http.Request, payload interface{}) *AppError {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return NewAppError(http.StatusBadRequest, KindValidation, "Invalid request body", err)
	}

	if err := validate.Struct(payload); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		return NewAppError(http.StatusBadRequest, KindValidation, validationErrors.Error(), err)
	}

	return nil
}
