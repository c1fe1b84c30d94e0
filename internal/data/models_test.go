package data

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock returns a clock that advances one second per call.
func testClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// sequentialIDs returns an id generator yielding book-1, book-2, ...
func sequentialIDs() func() (string, error) {
	var mu sync.Mutex
	n := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("book-%d", n), nil
	}
}

func newTestModel() *BookModel {
	return NewBookModel(sequentialIDs(), testClock())
}

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewID()
		require.NoError(t, err)
		assert.Len(t, id, IDLength)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestBookModel_Insert(t *testing.T) {
	m := newTestModel()

	book := &Book{Name: "A", PageCount: 100, ReadPage: 100, Finished: false}
	require.NoError(t, m.Insert(book))

	assert.Equal(t, "book-1", book.ID)
	assert.True(t, book.Finished)
	assert.False(t, book.InsertedAt.IsZero())
	assert.Equal(t, book.InsertedAt, book.UpdatedAt)
	assert.Equal(t, 1, m.Len())

	other := &Book{Name: "B", PageCount: 100, ReadPage: 10, Finished: true}
	require.NoError(t, m.Insert(other))
	assert.False(t, other.Finished)

	// The store keeps its own copy.
	book.Name = "changed"
	got, err := m.Get("book-1")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
}

func TestBookModel_InsertIDFailure(t *testing.T) {
	boom := errors.New("entropy exhausted")
	m := NewBookModel(func() (string, error) { return "", boom }, nil)

	err := m.Insert(&Book{Name: "A"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.Len())
}

func TestBookModel_GetAllKeepsInsertionOrder(t *testing.T) {
	m := newTestModel()
	assert.NotNil(t, m.GetAll())
	assert.Empty(t, m.GetAll())

	for _, name := range []string{"C", "A", "B"} {
		require.NoError(t, m.Insert(&Book{Name: name}))
	}

	books := m.GetAll()
	require.Len(t, books, 3)
	assert.Equal(t, "C", books[0].Name)
	assert.Equal(t, "A", books[1].Name)
	assert.Equal(t, "B", books[2].Name)

	// Mutating the snapshot does not touch the store.
	books[0].Name = "Z"
	assert.Equal(t, "C", m.GetAll()[0].Name)
}

func TestBookModel_Get(t *testing.T) {
	m := newTestModel()
	require.NoError(t, m.Insert(&Book{Name: "A"}))

	_, err := m.Get("missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	got, err := m.Get("book-1")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
}

func TestBookModel_Update(t *testing.T) {
	m := newTestModel()
	orig := &Book{Name: "A", PageCount: 100, ReadPage: 10, Reading: true}
	require.NoError(t, m.Insert(orig))

	upd := &Book{
		ID:         orig.ID,
		Name:       "A2",
		Author:     "Someone",
		PageCount:  50,
		ReadPage:   50,
		InsertedAt: time.Time{},
	}
	require.NoError(t, m.Update(upd))

	got, err := m.Get(orig.ID)
	require.NoError(t, err)
	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, "A2", got.Name)
	assert.Equal(t, "Someone", got.Author)
	assert.False(t, got.Reading)
	assert.True(t, got.Finished)
	assert.Equal(t, orig.InsertedAt, got.InsertedAt)
	assert.True(t, got.UpdatedAt.After(orig.UpdatedAt))
	assert.Equal(t, got, upd)
}

func TestBookModel_UpdateMissing(t *testing.T) {
	m := newTestModel()
	require.NoError(t, m.Insert(&Book{Name: "A"}))
	before := m.GetAll()

	err := m.Update(&Book{ID: "missing", Name: "X"})
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.Equal(t, before, m.GetAll())
}

func TestBookModel_UpdatedAtNeverBeforeInsertedAt(t *testing.T) {
	calls := 0
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		calls++
		// The clock steps backwards after the insert.
		return base.Add(-time.Duration(calls) * time.Hour)
	}
	m := NewBookModel(sequentialIDs(), clock)
	b := &Book{Name: "A"}
	require.NoError(t, m.Insert(b))

	upd := &Book{ID: b.ID, Name: "A"}
	require.NoError(t, m.Update(upd))
	assert.False(t, upd.UpdatedAt.Before(upd.InsertedAt))
}

func TestBookModel_Delete(t *testing.T) {
	m := newTestModel()
	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, m.Insert(&Book{Name: name}))
	}

	require.NoError(t, m.Delete("book-2"))
	assert.ErrorIs(t, m.Delete("book-2"), ErrRecordNotFound)

	books := m.GetAll()
	require.Len(t, books, 2)
	assert.Equal(t, "A", books[0].Name)
	assert.Equal(t, "C", books[1].Name)

	require.NoError(t, m.Delete("book-3"))
	require.NoError(t, m.Delete("book-1"))
	assert.Equal(t, 0, m.Len())
}

func TestBookModel_PositionalHelpers(t *testing.T) {
	m := newTestModel()
	for _, name := range []string{"A", "B"} {
		require.NoError(t, m.Insert(&Book{Name: name}))
	}

	assert.Equal(t, 0, m.indexOf("book-1"))
	assert.Equal(t, 1, m.indexOf("book-2"))
	assert.Equal(t, -1, m.indexOf("book-9"))

	m.replaceAt(1, &Book{ID: "book-2", Name: "B2"})
	assert.Equal(t, "B2", m.books[1].Name)

	m.removeAt(0)
	require.Len(t, m.books, 1)
	assert.Equal(t, "book-2", m.books[0].ID)
}

func TestBookModel_ConcurrentAccess(t *testing.T) {
	m := NewBookModel(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := &Book{Name: fmt.Sprintf("book %d", i), PageCount: 10}
			if err := m.Insert(b); err != nil {
				t.Error(err)
				return
			}
			b.ReadPage = 10
			if err := m.Update(b); err != nil {
				t.Error(err)
			}
			_ = m.GetAll()
			if i%2 == 0 {
				if err := m.Delete(b.ID); err != nil {
					t.Error(err)
				}
			}
		}(i)
	}
	wg.Wait()

	books := m.GetAll()
	assert.Len(t, books, 25)
	for _, b := range books {
		assert.True(t, b.Finished)
	}
}
