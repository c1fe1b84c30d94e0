// cmd/api/errors.go
// This file contains all error-response helpers for the application.
package main

import (
	"log/slog"
	"net/http"
)

// logError logs an internal error at ERROR level with the request method and URL for context.
func (app *applicationDependencies) logError(r *http.Request, err error) {
	app.logger.Error(err.Error(),
		slog.String("request_method", r.Method),
		slog.String("request_url", r.URL.String()),
	)
}

// errorResponse sends a JSON envelope {"status": status, "message": message}
// with the given HTTP code. It is the building block for the helpers below.
func (app *applicationDependencies) errorResponse(w http.ResponseWriter, r *http.Request, code int, status, message string) {
	data := envelope{"status": status, "message": message}
	err := app.writeJSON(w, code, data, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// failResponse sends a client-error envelope with status "fail".
func (app *applicationDependencies) failResponse(w http.ResponseWriter, r *http.Request, code int, message string) {
	app.errorResponse(w, r, code, "fail", message)
}

// serverErrorResponse logs a 500-level error and sends a generic message to the client.
// Internal error details are never sent to the client.
func (app *applicationDependencies) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, "error", "the server encountered a problem and could not process your request")
}

// notFoundResponse sends a 404 for routes that do not exist.
func (app *applicationDependencies) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.failResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

// bookNotFoundResponse sends a 404 for a bookId that is not in the store.
func (app *applicationDependencies) bookNotFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.failResponse(w, r, http.StatusNotFound, message)
}

// methodNotAllowedResponse sends a 405 Method Not Allowed error.
func (app *applicationDependencies) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := "the " + r.Method + " method is not supported for this resource"
	app.failResponse(w, r, http.StatusMethodNotAllowed, message)
}

// badRequestResponse sends a 400 Bad Request error with the error message from the caller.
func (app *applicationDependencies) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.failResponse(w, r, http.StatusBadRequest, err.Error())
}

// failedValidationResponse sends a 400 carrying the message of the first
// business rule the payload broke.
func (app *applicationDependencies) failedValidationResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.failResponse(w, r, http.StatusBadRequest, message)
}

// rateLimitExceededResponse sends a 429 Too Many Requests error.
func (app *applicationDependencies) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.failResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded")
}
