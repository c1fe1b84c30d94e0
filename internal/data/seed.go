package data

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aoideee/bookshelf/internal/validator"
)

// seedFile is the on-disk layout of a seed file:
//
//	books:
//	  - name: Dune
//	    pageCount: 412
//	    readPage: 412
type seedFile struct {
	Books []BookInput `yaml:"books"`
}

// ReadSeed decodes the books listed in a YAML seed document.
func ReadSeed(r io.Reader) ([]BookInput, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return f.Books, nil
}

// Seed validates every entry and inserts them in order. Nothing is inserted
// if any entry fails validation.
func (m *BookModel) Seed(inputs []BookInput) error {
	for i, in := range inputs {
		v := validator.New()
		ValidateBookInput(v, in)
		if !v.Valid() {
			key, msg := v.First()
			return fmt.Errorf("seed entry %d (%q): %s %s", i, in.Name, key, msg)
		}
	}
	for _, in := range inputs {
		if err := m.Insert(in.Book()); err != nil {
			return err
		}
	}
	return nil
}

// SeedFromFile loads path and seeds the store with its books, returning how
// many were inserted.
func (m *BookModel) SeedFromFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	inputs, err := ReadSeed(f)
	if err != nil {
		return 0, err
	}
	if err := m.Seed(inputs); err != nil {
		return 0, err
	}
	return len(inputs), nil
}
