// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/generation"
)

// errorBody is the API error envelope. Every failure, whichever layer it
// comes from, reaches the client in this shape.
type errorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	RetryAfter *int   `json:"retry_after,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// writeError emits the error envelope with the given status.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// writeGenerationError maps the generation pipeline's typed errors onto
// HTTP statuses and envelope codes.
func writeGenerationError(w http.ResponseWriter, err error) {
	var rateErr *generation.RateLimitedError
	if errors.As(err, &rateErr) {
		retry := rateErr.RetryAfter
		w.Header().Set("Retry-After", strconv.Itoa(retry))
		writeJSON(w, http.StatusTooManyRequests, errorEnvelope{Error: errorBody{
			Code:       "rate_limited",
			Message:    err.Error(),
			RetryAfter: &retry,
		}})
		return
	}

	var budgetErr *generation.BudgetExceededError
	if errors.As(err, &budgetErr) {
		writeError(w, http.StatusPaymentRequired, "budget_exceeded", err.Error())
		return
	}

	var rejectedErr *generation.ContentRejectedError
	if errors.As(err, &rejectedErr) {
		writeError(w, http.StatusUnprocessableEntity, "content_rejected", err.Error())
		return
	}

	switch {
	case errors.Is(err, generation.ErrBrandNotFound):
		writeError(w, http.StatusNotFound, "not_found", "complete brand setup before generating content")
	case errors.Is(err, generation.ErrNoContent):
		writeError(w, http.StatusBadGateway, "generation_failed", "no platform produced content")
	default:
		slog.Error("generation request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal server error")
	}
}

// writeInternalError logs a store failure and hides its detail from the
// client.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "server_error", "internal server error")
}

// writeJSON encodes a response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("response encode failed", "error", err)
	}
}
