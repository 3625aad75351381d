package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"GO2GETHER_PLANNER/internal/dto"
)

const maxRequestBody = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes a dto.ErrorResponse
func WriteErrorResponse(w http.ResponseWriter, status int, errTitle, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Error: errTitle, Message: message})
}

// DecodeJSONRequest decodes and validates the request body into v. On
// failure it has already written a 400 response and the caller just returns.
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request", "request body must be valid JSON: "+err.Error())
		return err
	}
	if err := validate.Struct(v); err != nil {
		WriteJSONResponse(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation error",
			Message: validationMessage(err),
		})
		return err
	}
	return nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "uuid", "uuid4":
			msgs = append(msgs, field+" must be a UUID")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
