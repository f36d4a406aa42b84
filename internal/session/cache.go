package session

import (
	"maps"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often expired sessions are swept from
// the in-process store.
const DefaultCleanupInterval = 10 * time.Minute

// CacheStore is a gorilla sessions.Store keeping values in an in-process
// go-cache. Entries expire after Options.MaxAge and the cache's janitor
// reclaims them every cleanup interval, read or not.
//
// It is the store used when no Redis address is configured; sessions do
// not survive a restart and are not shared between instances.
type CacheStore struct {
	cache   *cache.Cache
	options sessions.Options
}

func NewCacheStore(options sessions.Options, cleanupInterval time.Duration) *CacheStore {
	return &CacheStore{
		cache:   cache.New(time.Duration(options.MaxAge)*time.Second, cleanupInterval),
		options: options,
	}
}

// Get returns the session cached in the request registry, loading it on
// first use.
func (s *CacheStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie. Unknown IDs are not
// adopted: the caller gets a new session with an empty ID.
func (s *CacheStore) New(r *http.Request, name string) (*sessions.Session, error) {
	sess := sessions.NewSession(s, name)
	opts := s.options
	sess.Options = &opts
	sess.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return sess, nil
	}

	stored, ok := s.cache.Get(cookie.Value)
	if !ok {
		return sess, nil
	}

	sess.ID = cookie.Value
	sess.Values = maps.Clone(stored.(map[any]any))
	sess.IsNew = false
	return sess, nil
}

// Save stores the values for Options.MaxAge seconds, or deletes them when
// MaxAge is not positive, and writes the cookie.
func (s *CacheStore) Save(_ *http.Request, w http.ResponseWriter, sess *sessions.Session) error {
	if sess.Options.MaxAge <= 0 {
		if sess.ID != "" {
			s.cache.Delete(sess.ID)
		}
		http.SetCookie(w, sessions.NewCookie(sess.Name(), "", sess.Options))
		return nil
	}

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}

	s.cache.Set(sess.ID, maps.Clone(sess.Values), time.Duration(sess.Options.MaxAge)*time.Second)
	http.SetCookie(w, sessions.NewCookie(sess.Name(), sess.ID, sess.Options))
	return nil
}

// Len reports the number of stored sessions, including expired ones the
// janitor has not swept yet.
func (s *CacheStore) Len() int {
	return s.cache.ItemCount()
}
