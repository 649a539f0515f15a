// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"net/http"
)

// Body is the JSON shape of every error response.
type Body struct {
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Render writes {"message": msg} with the given status.
func Render(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Body{Message: msg})
}

// RenderBadRequest reports malformed or invalid input.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	Render(w, http.StatusBadRequest, msg)
}

// RenderUnauthorized reports a request that carried no credentials.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "missing admin token"
	}
	w.Header().Set("WWW-Authenticate", `Bearer realm="ailibrary"`)
	Render(w, http.StatusUnauthorized, msg)
}

// RenderForbidden reports credentials that were presented and refused.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "admin token rejected"
	}
	Render(w, http.StatusForbidden, msg)
}

// RenderNotFound reports a missing resource.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "not found"
	}
	Render(w, http.StatusNotFound, msg)
}

// RenderTooManyRequests reports a rate-limited request.
func RenderTooManyRequests(w http.ResponseWriter, r *http.Request) {
	Render(w, http.StatusTooManyRequests, "too many requests")
}

// RenderServerError reports an internal failure without detail.
func RenderServerError(w http.ResponseWriter, r *http.Request) {
	Render(w, http.StatusInternalServerError, "internal server error")
}

// NotFound is the router's catch-all 404 handler.
func NotFound(w http.ResponseWriter, r *http.Request) {
	RenderNotFound(w, r, "")
}

// MethodNotAllowed is the router's 405 handler.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Render(w, http.StatusMethodNotAllowed, "method not allowed")
}
