// cmd/api/handlers.go
// This file contains all HTTP request handlers for the books resource.
// Each handler is a method on *applicationDependencies so it has access
// to the logger and the book store.
package main

import (
	"errors"
	"net/http"

	"github.com/aoideee/bookshelf/internal/data"
	"github.com/aoideee/bookshelf/internal/validator"
)

// Client-facing messages.
const (
	msgCreated          = "Buku berhasil ditambahkan"
	msgCreateNoName     = "Gagal menambahkan buku. Mohon isi nama buku"
	msgCreatePageBounds = "Gagal menambahkan buku. readPage tidak boleh lebih besar dari pageCount"
	msgNotFound         = "Buku tidak ditemukan"
	msgUpdated          = "Buku berhasil diperbarui"
	msgUpdateNoName     = "Gagal memperbarui buku. Mohon isi nama buku"
	msgUpdatePageBounds = "Gagal memperbarui buku. readPage tidak boleh lebih besar dari pageCount"
	msgUpdateNotFound   = "Gagal memperbarui buku. Id tidak ditemukan"
	msgDeleted          = "Buku berhasil dihapus"
	msgDeleteNotFound   = "Buku gagal dihapus. Id tidak ditemukan"
)

// createMessages and updateMessages map a failed validator key to the
// message reported for it.
var (
	createMessages = map[string]string{"name": msgCreateNoName, "readPage": msgCreatePageBounds}
	updateMessages = map[string]string{"name": msgUpdateNoName, "readPage": msgUpdatePageBounds}
)

// createBookHandler handles POST /books.
// It validates the payload, stores a new book and responds 201 with the
// generated bookId.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var input data.BookInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidateBookInput(v, input)
	if !v.Valid() {
		key, _ := v.First()
		app.failedValidationResponse(w, r, createMessages[key])
		return
	}

	// Insert() writes the generated id, timestamps and finished flag back into book.
	book := input.Book()
	err = app.models.Books.Insert(book)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{
		"status":  "success",
		"message": msgCreated,
		"data":    envelope{"bookId": book.ID},
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listBooksHandler handles GET /books.
// The optional name, reading and finished query parameters narrow the
// result; every supplied filter must match. Each book is reduced to its
// id, name and publisher.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	var filter data.BookFilter
	if name, ok := app.readString(qs, "name"); ok {
		filter.Name = &name
	}
	filter.Reading = app.readFlag(qs, "reading")
	filter.Finished = app.readFlag(qs, "finished")

	books := data.FilterBooks(app.models.Books.GetAll(), filter)

	summaries := make([]data.BookSummary, 0, len(books))
	for _, b := range books {
		summaries = append(summaries, b.Listing())
	}

	err := app.writeJSON(w, http.StatusOK, envelope{
		"status": "success",
		"data":   envelope{"books": summaries},
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showBookHandler handles GET /books/:bookId.
// Responds with the full record, or 404 if no book has that id.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.bookNotFoundResponse(w, r, msgNotFound)
		return
	}

	book, err := app.models.Books.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.bookNotFoundResponse(w, r, msgNotFound)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"status": "success",
		"data":   envelope{"book": book},
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateBookHandler handles PUT /books/:bookId.
// The book must exist before the payload is validated. Every mutable field
// is replaced; id and insertedAt are kept.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.bookNotFoundResponse(w, r, msgUpdateNotFound)
		return
	}

	_, err = app.models.Books.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.bookNotFoundResponse(w, r, msgUpdateNotFound)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var input data.BookInput
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidateBookInput(v, input)
	if !v.Valid() {
		key, _ := v.First()
		app.failedValidationResponse(w, r, updateMessages[key])
		return
	}

	book := input.Book()
	book.ID = id

	// The book may have been deleted since the lookup above.
	err = app.models.Books.Update(book)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.bookNotFoundResponse(w, r, msgUpdateNotFound)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"status": "success", "message": msgUpdated}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteBookHandler handles DELETE /books/:bookId.
// Responds 404 if no book with that id exists.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.bookNotFoundResponse(w, r, msgDeleteNotFound)
		return
	}

	err = app.models.Books.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.bookNotFoundResponse(w, r, msgDeleteNotFound)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"status": "success", "message": msgDeleted}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// healthcheckHandler handles GET /healthcheck.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{
		"status":      "available",
		"environment": app.config.environment,
		"version":     appVersion,
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
