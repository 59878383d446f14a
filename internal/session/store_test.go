package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func newSession(id string) *Session {
	return &Session{
		Document:  domain.Document{ID: id, Name: id + ".pdf", Text: "a b c"},
		Chunks:    []domain.Chunk{{Index: 0, Text: "a b c"}},
		CreatedAt: time.Now(),
	}
}

func TestStore_SaveGetDelete(t *testing.T) {
	s := NewStore(time.Hour)

	s.Save(newSession("doc-1"))
	s.Save(newSession("doc-2"))
	assert.Equal(t, 2, s.Len())

	got, ok := s.Get("doc-1")
	require.True(t, ok)
	assert.Equal(t, "doc-1.pdf", got.Document.Name)
	assert.Len(t, got.Chunks, 1)

	_, ok = s.Get("missing")
	assert.False(t, ok)

	assert.True(t, s.Delete("doc-1"))
	assert.False(t, s.Delete("doc-1"))
	_, ok = s.Get("doc-1")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestStore_SaveReplaces(t *testing.T) {
	s := NewStore(0)
	s.Save(newSession("doc"))
	replacement := newSession("doc")
	replacement.Document.Name = "new.pdf"
	s.Save(replacement)

	got, ok := s.Get("doc")
	require.True(t, ok)
	assert.Equal(t, "new.pdf", got.Document.Name)
	assert.Equal(t, 1, s.Len())
}

func TestStore_Expiry(t *testing.T) {
	s := NewStore(20 * time.Millisecond)
	s.Save(newSession("doc"))

	time.Sleep(60 * time.Millisecond)

	_, ok := s.Get("doc")
	assert.False(t, ok)
}
