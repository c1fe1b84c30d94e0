// cmd/api/helpers.go
// This file contains general-purpose helper functions for the application.
// Error-response helpers live in errors.go; only non-error utilities are here.
package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/julienschmidt/httprouter"
)

// envelope is the top-level JSON wrapper type used for all API responses,
// e.g. {"status": "success", "data": {"bookId": "..."}}.
type envelope map[string]any

// readIDParam extracts the ":bookId" URL parameter added by httprouter.
// Ids are opaque strings, so the only failure is an empty value.
func (app *applicationDependencies) readIDParam(r *http.Request) (string, error) {
	params := httprouter.ParamsFromContext(r.Context())
	id := params.ByName("bookId")
	if id == "" {
		return "", errors.New("invalid id parameter")
	}
	return id, nil
}

// readString reads a string query parameter from qs. The second return is
// false when the key is absent or empty.
func (app *applicationDependencies) readString(qs url.Values, key string) (string, bool) {
	s := qs.Get(key)
	return s, s != ""
}

// readFlag reads a 0/1 query parameter from qs. Only the literal "1" means
// true; any other present value means false. Returns nil if key is absent.
func (app *applicationDependencies) readFlag(qs url.Values, key string) *bool {
	if !qs.Has(key) {
		return nil
	}
	b := qs.Get(key) == "1"
	return &b
}

// writeJSON marshals data to indented JSON, applies any custom headers,
// sets Content-Type to "application/json", writes the status code, and
// streams the body to the client.
func (app *applicationDependencies) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n') // Trailing newline makes curl output nicer.

	// Caller-supplied headers go first so Content-Type below always wins.
	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
	return nil
}

// readJSON decodes a single JSON value from the request body into dst.
// It enforces a 1 MB size limit and ensures the body contains exactly one
// JSON value (no trailing data). Keys dst does not declare are ignored, so
// clients may echo read-only fields such as id or finished.
func (app *applicationDependencies) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	// Cap the request body to 1 MB to prevent large-payload attacks.
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)

	dec := json.NewDecoder(r.Body)

	err := dec.Decode(dst)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		// Decode reports io.EOF only when the body had no bytes at all.
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case errors.As(err, &maxBytesError):
			return errors.New("body must not be larger than 1MB")
		default:
			return err
		}
	}

	// Ensure there is no second JSON value in the body.
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}
