package service

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/gradejournal/internal/server"
	"github.com/deppfellow/gradejournal/internal/session"
)

const (
	// SessionTokenKey holds the admin flag; SessionToken is its only
	// accepted value.
	SessionTokenKey = "token"
	SessionToken    = "admin_token"

	SessionUsernameKey = "username"
)

// AdminAuthService checks the configured admin credential and keeps the
// result in the session.
type AdminAuthService struct {
	sessions *session.Manager
	username string
	password string
}

func NewAdminAuthService(s *server.Server) *AdminAuthService {
	return &AdminAuthService{
		sessions: s.Sessions,
		username: s.Config.Admin.Username,
		password: s.Config.Admin.Password,
	}
}

// Login marks the session as admin when the credentials match. A
// mismatch leaves the session untouched.
func (a *AdminAuthService) Login(c echo.Context, username, password string) (bool, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !userOK || !passOK {
		return false, nil
	}

	sess, err := a.sessions.Get(c)
	if err != nil {
		return false, err
	}

	a.sessions.Renew(sess)
	sess.Values[SessionTokenKey] = SessionToken
	sess.Values[SessionUsernameKey] = username

	if err := a.sessions.Save(c, sess); err != nil {
		return false, err
	}
	return true, nil
}

// Logout clears the whole session.
func (a *AdminAuthService) Logout(c echo.Context) error {
	return a.sessions.Destroy(c)
}

// Authenticate reports whether the request's session carries the admin
// flag.
func (a *AdminAuthService) Authenticate(c echo.Context) (bool, error) {
	sess, err := a.sessions.Get(c)
	if err != nil {
		return false, err
	}
	return session.String(sess, SessionTokenKey) == SessionToken, nil
}

// Username returns the logged-in admin's name, if any.
func (a *AdminAuthService) Username(c echo.Context) string {
	sess, err := a.sessions.Get(c)
	if err != nil {
		return ""
	}
	return session.String(sess, SessionUsernameKey)
}
