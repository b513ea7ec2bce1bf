package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/bank"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/order"
)

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to marshal response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func formatValidationErrors(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			details[fe.Field()] = "this field is required"
		case "min":
			details[fe.Field()] = "value is too short or too small (min " + fe.Param() + ")"
		case "gt", "gte":
			details[fe.Field()] = "value must be positive"
		case "oneof":
			details[fe.Field()] = "must be one of: " + fe.Param()
		default:
			details[fe.Field()] = "failed validation rule: " + fe.Tag()
		}
	}
	return details
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidOrder):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrDuplicateOrderCode):
		return http.StatusConflict
	case errors.Is(err, bank.ErrNoPrimaryAccount):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
