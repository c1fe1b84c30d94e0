// Package data provides the book model and the in-memory store that
// holds every book for the lifetime of the process.
package data

import (
	"strings"
	"time"

	"github.com/aoideee/bookshelf/internal/validator"
)

// Book represents a single catalog entry held by the store.
type Book struct {
	ID         string    `json:"id"`         // 16-character id assigned on insert
	Name       string    `json:"name"`       // Title of the book, required
	Year       int       `json:"year"`       // Year the book was published
	Author     string    `json:"author"`     // Author name
	Summary    string    `json:"summary"`    // Short description
	Publisher  string    `json:"publisher"`  // Name of the publishing company
	PageCount  int       `json:"pageCount"`  // Total number of pages
	ReadPage   int       `json:"readPage"`   // Last page read, never above PageCount
	Finished   bool      `json:"finished"`   // Derived: ReadPage == PageCount
	Reading    bool      `json:"reading"`    // Whether the owner is currently reading it
	InsertedAt time.Time `json:"insertedAt"` // Set once on insert
	UpdatedAt  time.Time `json:"updatedAt"`  // Refreshed on every successful write
}

// BookSummary is the projection returned by the list endpoint.
type BookSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
}

// Listing projects b onto the fields shown in listings.
func (b *Book) Listing() BookSummary {
	return BookSummary{ID: b.ID, Name: b.Name, Publisher: b.Publisher}
}

// BookInput holds the fields a client supplies when creating or replacing
// a book. Finished is deliberately absent; it is always derived.
type BookInput struct {
	Name      string `json:"name"      yaml:"name"`
	Year      int    `json:"year"      yaml:"year"`
	Author    string `json:"author"    yaml:"author"`
	Summary   string `json:"summary"   yaml:"summary"`
	Publisher string `json:"publisher" yaml:"publisher"`
	PageCount int    `json:"pageCount" yaml:"pageCount"`
	ReadPage  int    `json:"readPage"  yaml:"readPage"`
	Reading   bool   `json:"reading"   yaml:"reading"`
}

// Book maps the input onto a new Book. ID and timestamps are left for the
// store to fill in.
func (in BookInput) Book() *Book {
	return &Book{
		Name:      in.Name,
		Year:      in.Year,
		Author:    in.Author,
		Summary:   in.Summary,
		Publisher: in.Publisher,
		PageCount: in.PageCount,
		ReadPage:  in.ReadPage,
		Reading:   in.Reading,
	}
}

// ValidateBookInput runs the business checks in the order they must be
// reported: name first, then page bounds.
func ValidateBookInput(v *validator.Validator, in BookInput) {
	v.Check(in.Name != "", "name", "must be provided")
	v.Check(in.ReadPage <= in.PageCount, "readPage", "must not be greater than pageCount")
}

// BookFilter narrows a listing. Nil fields are not applied.
type BookFilter struct {
	Name     *string
	Reading  *bool
	Finished *bool
}

// Matches reports whether b passes every filter that is set.
func (f BookFilter) Matches(b *Book) bool {
	if f.Name != nil && !strings.Contains(strings.ToLower(b.Name), strings.ToLower(*f.Name)) {
		return false
	}
	if f.Reading != nil && b.Reading != *f.Reading {
		return false
	}
	if f.Finished != nil && b.Finished != *f.Finished {
		return false
	}
	return true
}

// FilterBooks returns the books that match f, keeping their order.
func FilterBooks(books []*Book, f BookFilter) []*Book {
	out := make([]*Book, 0, len(books))
	for _, b := range books {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}
