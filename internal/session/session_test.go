package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const cookieName = "session"

// newTestEcho serves three routes over manager: /login stores the admin
// flag under a renewed ID, /whoami reports it, /logout destroys the
// session.
func newTestEcho(manager *Manager) *echo.Echo {
	e := echo.New()
	e.Use(manager.Middleware())

	e.GET("/login", func(c echo.Context) error {
		sess, err := manager.Get(c)
		if err != nil {
			return err
		}
		manager.Renew(sess)
		sess.Values["token"] = "admin_token"
		if err := manager.Save(c, sess); err != nil {
			return err
		}
		return c.String(http.StatusOK, sess.ID)
	})
	e.GET("/whoami", func(c echo.Context) error {
		sess, err := manager.Get(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, String(sess, "token"))
	})
	e.GET("/logout", func(c echo.Context) error {
		return manager.Destroy(c)
	})
	return e
}

func serve(e *echo.Echo, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func responseCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			found = c
		}
	}
	if found == nil {
		t.Fatalf("no %s cookie in response", cookieName)
	}
	return found
}

func newCacheManager(ttl time.Duration) (*Manager, *CacheStore) {
	store := NewCacheStore(CookieOptions(ttl), time.Minute)
	return NewManager(store, cookieName), store
}

func TestManager_SaveThenGet_RoundTrip(t *testing.T) {
	manager, _ := newCacheManager(time.Hour)
	e := newTestEcho(manager)

	rec := serve(e, "/login")
	if rec.Code != http.StatusOK {
		t.Fatalf("/login = %d %s", rec.Code, rec.Body)
	}
	cookie := responseCookie(t, rec)
	if !cookie.HttpOnly {
		t.Error("cookie is not HttpOnly")
	}
	if cookie.Value != rec.Body.String() {
		t.Errorf("cookie value = %q, want session ID %q", cookie.Value, rec.Body)
	}

	if got := serve(e, "/whoami", cookie).Body.String(); got != "admin_token" {
		t.Fatalf("token = %q, want admin_token", got)
	}
}

func TestManager_UnknownCookie_NotAdopted(t *testing.T) {
	manager, _ := newCacheManager(time.Hour)
	e := newTestEcho(manager)

	forged := &http.Cookie{Name: cookieName, Value: "forged"}
	if got := serve(e, "/whoami", forged).Body.String(); got != "" {
		t.Fatalf("token = %q, want none", got)
	}

	rec := serve(e, "/login", forged)
	if id := responseCookie(t, rec).Value; id == "forged" {
		t.Fatal("unknown session ID was adopted")
	}
}

func TestManager_Renew_IssuesFreshID(t *testing.T) {
	manager, _ := newCacheManager(time.Hour)
	e := newTestEcho(manager)

	first := responseCookie(t, serve(e, "/login"))
	second := responseCookie(t, serve(e, "/login", first))
	if first.Value == second.Value {
		t.Fatal("login kept the previous session ID")
	}
}

func TestManager_Destroy(t *testing.T) {
	manager, store := newCacheManager(time.Hour)
	e := newTestEcho(manager)

	cookie := responseCookie(t, serve(e, "/login"))

	rec := serve(e, "/logout", cookie)
	if expired := responseCookie(t, rec); expired.MaxAge >= 0 {
		t.Errorf("cookie MaxAge = %d, want expired", expired.MaxAge)
	}
	if store.Len() != 0 {
		t.Errorf("store holds %d sessions after logout, want 0", store.Len())
	}
	if got := serve(e, "/whoami", cookie).Body.String(); got != "" {
		t.Fatalf("token after logout = %q, want none", got)
	}
}

func TestCacheStore_ExpiredSession_Gone(t *testing.T) {
	manager, _ := newCacheManager(time.Second)
	e := newTestEcho(manager)

	cookie := responseCookie(t, serve(e, "/login"))
	time.Sleep(1100 * time.Millisecond)

	if got := serve(e, "/whoami", cookie).Body.String(); got != "" {
		t.Fatalf("token after TTL = %q, want none", got)
	}
}

func TestCacheStore_AbandonedSessions_Swept(t *testing.T) {
	store := NewCacheStore(CookieOptions(time.Second), 50*time.Millisecond)
	e := newTestEcho(NewManager(store, cookieName))

	for i := 0; i < 3; i++ {
		serve(e, "/login")
	}
	if store.Len() != 3 {
		t.Fatalf("stored sessions = %d, want 3", store.Len())
	}

	// Never read again: only the janitor can reclaim them.
	deadline := time.Now().Add(3 * time.Second)
	for store.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if store.Len() != 0 {
		t.Fatalf("stored sessions = %d after TTL, want 0", store.Len())
	}
}

func TestCacheStore_ValuesAreCopied(t *testing.T) {
	store := NewCacheStore(CookieOptions(time.Hour), time.Minute)

	rec := httptest.NewRecorder()
	sess := sessions.NewSession(store, cookieName)
	opts := CookieOptions(time.Hour)
	sess.Options = &opts
	sess.Values["token"] = "admin_token"
	if err := store.Save(httptest.NewRequest(http.MethodGet, "/", nil), rec, sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	sess.Values["token"] = "changed"

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(responseCookie(t, rec))
	loaded, err := store.New(req, cookieName)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if String(loaded, "token") != "admin_token" {
		t.Fatal("mutating saved values changed the stored session")
	}
}

// Redis tests need a server: GRADEJOURNAL_TEST_REDIS=localhost:6379.
func TestRedisStore_RoundTripAndDestroy(t *testing.T) {
	addr := os.Getenv("GRADEJOURNAL_TEST_REDIS")
	if addr == "" {
		t.Skip("GRADEJOURNAL_TEST_REDIS not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewRedisStore(ctx, client, CookieOptions(time.Minute))
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	e := newTestEcho(NewManager(store, cookieName))

	cookie := responseCookie(t, serve(e, "/login"))
	key := sessionKeyPrefix + cookie.Value

	ttl, err := client.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Fatalf("TTL = %v, %v", ttl, err)
	}
	if got := serve(e, "/whoami", cookie).Body.String(); got != "admin_token" {
		t.Fatalf("token = %q, want admin_token", got)
	}

	serve(e, "/logout", cookie)
	if n, _ := client.Exists(ctx, key).Result(); n != 0 {
		t.Fatal("session key still present after logout")
	}
}
