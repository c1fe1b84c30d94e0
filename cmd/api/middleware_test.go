package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverPanic(t *testing.T) {
	app := newTestApp(t)
	h := app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	code, resp := do(t, h, http.MethodGet, "/books", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "error", resp.Status)
	assert.NotContains(t, resp.Message, "boom")
}

func TestRateLimit(t *testing.T) {
	app := newTestApp(t)
	app.config.limiter.enabled = true
	app.config.limiter.rps = 0.001
	app.config.limiter.burst = 2
	h := app.routes()

	for i := 0; i < 2; i++ {
		code, _ := do(t, h, http.MethodGet, "/books", "")
		assert.Equal(t, http.StatusOK, code)
	}

	code, resp := do(t, h, http.MethodGet, "/books", "")
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "fail", resp.Status)

	// Another client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.RemoteAddr = "198.51.100.7:4321"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitDisabled(t *testing.T) {
	h := newTestApp(t).routes()
	for i := 0; i < 20; i++ {
		code, _ := do(t, h, http.MethodGet, "/books", "")
		assert.Equal(t, http.StatusOK, code)
	}
}

func TestDefaultConfigDoesNotThrottleCRUD(t *testing.T) {
	cfg, err := parseConfig(testFlagSet(), nil, envFrom(nil))
	require.NoError(t, err)

	app := newTestApp(t)
	app.config = cfg
	h := app.routes()

	id := createBook(t, h, `{"name":"A","pageCount":10,"readPage":1}`)
	getBook(t, h, id)
	listBooks(t, h, "")
	listBooks(t, h, "?reading=0")

	code, _ := do(t, h, http.MethodPut, "/books/"+id, `{"name":"A","pageCount":10,"readPage":10}`)
	assert.Equal(t, http.StatusOK, code)
	code, _ = do(t, h, http.MethodDelete, "/books/"+id, "")
	assert.Equal(t, http.StatusOK, code)
}
