// internal/data/models.go
package data

import (
	"errors"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// IDLength is the length of every generated book id.
const IDLength = 16

// ErrRecordNotFound is returned when no book has the requested id.
var ErrRecordNotFound = errors.New("record not found")

// Models is a top-level container that groups all model types together.
// It is passed around the application via applicationDependencies so every
// handler reaches the same store.
type Models struct {
	Books *BookModel
}

// NewModels constructs a Models value backed by a fresh, empty store.
// Call this once during application startup.
func NewModels() Models {
	return Models{
		Books: NewBookModel(nil, nil),
	}
}

// NewID returns a fresh 16-character nanoid.
func NewID() (string, error) {
	return gonanoid.New(IDLength)
}

// BookModel is the authoritative ordered collection of books.
// All methods are safe for concurrent use.
type BookModel struct {
	mu    sync.RWMutex
	books []*Book
	newID func() (string, error)
	now   func() time.Time
}

// NewBookModel returns an empty store. A nil newID defaults to NewID and a
// nil now defaults to the UTC wall clock.
func NewBookModel(newID func() (string, error), now func() time.Time) *BookModel {
	if newID == nil {
		newID = NewID
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &BookModel{newID: newID, now: now}
}

// Insert appends book to the end of the store. The id, both timestamps and
// Finished are written back into book.
func (m *BookModel) Insert(book *Book) error {
	id, err := m.newID()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	book.ID = id
	book.Finished = book.ReadPage == book.PageCount
	book.InsertedAt = now
	book.UpdatedAt = now

	stored := *book
	m.books = append(m.books, &stored)
	return nil
}

// Get retrieves a copy of the book with the given id.
// Returns ErrRecordNotFound if no such book exists.
func (m *BookModel) Get(id string) (*Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrRecordNotFound
	}
	book := *m.books[i]
	return &book, nil
}

// GetAll returns copies of every book in insertion order.
// The returned slice is never nil.
func (m *BookModel) GetAll() []*Book {
	m.mu.RLock()
	defer m.mu.RUnlock()

	books := make([]*Book, 0, len(m.books))
	for _, b := range m.books {
		book := *b
		books = append(books, &book)
	}
	return books
}

// Len returns the number of books held.
func (m *BookModel) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.books)
}

// Update replaces every mutable field of the stored book whose id matches
// book.ID. InsertedAt is preserved, Finished is recomputed and UpdatedAt is
// refreshed; the stored values are written back into book.
// Returns ErrRecordNotFound if no matching book exists.
func (m *BookModel) Update(book *Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(book.ID)
	if i < 0 {
		return ErrRecordNotFound
	}

	existing := m.books[i]
	book.InsertedAt = existing.InsertedAt
	book.Finished = book.ReadPage == book.PageCount
	book.UpdatedAt = m.now()
	if book.UpdatedAt.Before(book.InsertedAt) {
		book.UpdatedAt = book.InsertedAt
	}

	stored := *book
	m.replaceAt(i, &stored)
	return nil
}

// Delete removes the book with the given id, keeping the order of the rest.
// Returns ErrRecordNotFound if no matching book exists.
func (m *BookModel) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return ErrRecordNotFound
	}
	m.removeAt(i)
	return nil
}

// indexOf returns the position of id, or -1. m.mu must be held.
func (m *BookModel) indexOf(id string) int {
	for i, b := range m.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// replaceAt overwrites position i. m.mu must be held for writing.
func (m *BookModel) replaceAt(i int, book *Book) {
	m.books[i] = book
}

// removeAt deletes position i. m.mu must be held for writing.
func (m *BookModel) removeAt(i int) {
	copy(m.books[i:], m.books[i+1:])
	m.books[len(m.books)-1] = nil
	m.books = m.books[:len(m.books)-1]
}
