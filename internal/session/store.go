package session

import (
	"time"

	"github.com/patrickmn/go-cache"

	"docqa/internal/domain"
)

// DefaultTTL is how long an idle document session is kept.
const DefaultTTL = time.Hour

// Session holds one document and its chunk sequence. It is never mutated after Save.
type Session struct {
	Document  domain.Document
	Chunks    []domain.Chunk
	CreatedAt time.Time
}

// Store keeps document sessions in memory with expiry.
type Store struct {
	cache *cache.Cache
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{cache: cache.New(ttl, 10*time.Minute)}
}

// Save stores s under its document ID, replacing any previous session.
func (s *Store) Save(sess *Session) {
	s.cache.Set(sess.Document.ID, sess, cache.DefaultExpiration)
}

// Get returns the session for documentID and refreshes its expiry.
func (s *Store) Get(documentID string) (*Session, bool) {
	x, expiresAt, found := s.cache.GetWithExpiration(documentID)
	if !found {
		return nil, false
	}
	sess := x.(*Session)
	if !expiresAt.IsZero() {
		s.cache.Set(documentID, sess, cache.DefaultExpiration)
	}
	return sess, true
}

// Delete removes the session and reports whether it existed.
func (s *Store) Delete(documentID string) bool {
	if _, found := s.cache.Get(documentID); !found {
		return false
	}
	s.cache.Delete(documentID)
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int { return s.cache.ItemCount() }
