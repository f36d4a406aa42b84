// Package session keeps admin console sessions on the server side.
//
// Sessions are gorilla/sessions sessions handed to echo through
// echo-contrib/session. The browser only holds an opaque session ID in a
// cookie; the values live in a server-side store (an in-process TTL cache
// or Redis) and expire after the configured TTL.
package session

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// CookieOptions are the options of the session cookie. MaxAge doubles as
// the server-side TTL of the stored values.
func CookieOptions(ttl time.Duration) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Manager ties a gorilla store to the admin session cookie.
//
// Get is only usable behind Middleware, which puts the store on the echo
// context. Within one request every Get returns the same *sessions.Session.
type Manager struct {
	store      sessions.Store
	cookieName string
}

func NewManager(store sessions.Store, cookieName string) *Manager {
	return &Manager{
		store:      store,
		cookieName: cookieName,
	}
}

// Middleware makes the store available to Get.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return echosession.Middleware(m.store)
}

// Get returns the request's session. A missing, unknown or expired
// session ID yields a new empty session; nothing is stored until Save.
func (m *Manager) Get(c echo.Context) (*sessions.Session, error) {
	return echosession.Get(m.cookieName, c)
}

// Save persists the session and (re)issues the cookie.
func (m *Manager) Save(c echo.Context, sess *sessions.Session) error {
	sess.Options.Secure = c.IsTLS()
	return sess.Save(c.Request(), c.Response())
}

// Renew drops the session ID so the next Save stores the values under a
// fresh one. An ID seen before login is then useless after it.
func (m *Manager) Renew(sess *sessions.Session) {
	sess.ID = ""
}

// Destroy removes the session from the store and expires the cookie.
func (m *Manager) Destroy(c echo.Context) error {
	sess, err := m.Get(c)
	if err != nil {
		return err
	}

	clear(sess.Values)
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// String reads a string value, "" when absent.
func String(sess *sessions.Session, key string) string {
	value, _ := sess.Values[key].(string)
	return value
}
