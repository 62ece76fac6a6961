// Package response writes the JSON envelope used by every API endpoint:
//
//	{ "success": true, "message": "...", "<payload key>": ... }
//
// Payload keys ride alongside success/message rather than nesting under a
// generic "data" field, matching what the storefront expects.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/bazaar/pkg/apperr"
)

// Payload is the set of extra top-level keys to merge into the envelope.
type Payload map[string]interface{}

func write(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func envelope(success bool, message string, payload Payload) map[string]interface{} {
	body := map[string]interface{}{"success": success}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	return body
}

// Success sends a 200 envelope.
func Success(w http.ResponseWriter, message string, payload Payload) {
	write(w, http.StatusOK, envelope(true, message, payload))
}

// Created sends a 201 envelope.
func Created(w http.ResponseWriter, message string, payload Payload) {
	write(w, http.StatusCreated, envelope(true, message, payload))
}

// Fail sends a failure envelope with an explicit status.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope(false, message, nil))
}

// Error maps err's kind to a status and sends a failure envelope carrying
// the error kind and, for validation failures, field-level messages.
func Error(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	body := envelope(false, apperr.MessageOf(err), Payload{"error": kind.String()})
	if fields := apperr.FieldsOf(err); len(fields) > 0 {
		body["errors"] = fields
	}
	write(w, kind.Status(), body)
}

// ValidationError sends a 422 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	body := envelope(false, "Validation failed", Payload{"error": apperr.Validation.String(), "errors": errs})
	write(w, http.StatusUnprocessableEntity, body)
}

// Unauthorized sends a 401 envelope.
func Unauthorized(w http.ResponseWriter) {
	Fail(w, http.StatusUnauthorized, "Unauthorized")
}

// NotFound sends a 404 envelope.
func NotFound(w http.ResponseWriter, message string) {
	Fail(w, http.StatusNotFound, message)
}

// Redirect sends the caller to location with a 303 See Other. The payment
// callbacks use this to land the shopper back on the storefront.
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}
