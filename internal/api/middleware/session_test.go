package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/friendconnect/auth-service/internal/core/domain"
	"github.com/friendconnect/auth-service/internal/core/service"
	"github.com/friendconnect/auth-service/internal/infrastructure/db/memory"
)

const testCookieName = "AUTH"

func newGuardFixture(t *testing.T) (*service.JWTTokenService, *memory.UserRepository) {
	t.Helper()
	tokens := service.NewJWTTokenService("guard-secret")
	users := memory.NewUserRepository()
	if err := users.Insert(context.Background(), &domain.User{Username: "alice", PasswordHash: "hash"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return tokens, users
}

func request(t *testing.T, mw echo.MiddlewareFunc, cookieValue string, withCookie bool) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if withCookie {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return rec, called, err
}

func TestSession_ValidToken(t *testing.T) {
	tokens, users := newGuardFixture(t)
	mw := Session(tokens, users, testCookieName, RejectMode)

	token, err := tokens.Issue("alice", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		if c.Get(ContextKeyUsername) != "alice" {
			t.Fatalf("username not set in context")
		}
		user, ok := c.Get(ContextKeyUser).(*domain.User)
		if !ok || user.Username != "alice" {
			t.Fatalf("user not set in context")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

// All rejection causes must be indistinguishable to the caller.
func TestSession_UniformRejection(t *testing.T) {
	tokens, users := newGuardFixture(t)
	mw := Session(tokens, users, testCookieName, RejectMode)

	expired, err := tokens.Issue("alice", -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	forged, err := service.NewJWTTokenService("other-secret").Issue("alice", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	deletedUser, err := tokens.Issue("bob", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name       string
		value      string
		withCookie bool
	}{
		{"no cookie", "", false},
		{"empty cookie", "", true},
		{"malformed token", "not-a-token", true},
		{"expired token", expired, true},
		{"forged token", forged, true},
		{"deleted user", deletedUser, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, called, err := request(t, mw, tc.value, tc.withCookie)
			if called {
				t.Fatalf("next handler reached")
			}
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if he.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", he.Code)
			}
			if he.Message != "not authenticated" {
				t.Fatalf("rejection message leaks detail: %v", he.Message)
			}
		})
	}
}

func TestSession_RedirectMode(t *testing.T) {
	tokens, users := newGuardFixture(t)
	mw := Session(tokens, users, testCookieName, RedirectMode)

	rec, called, err := request(t, mw, "garbage", true)
	if err != nil {
		t.Fatalf("redirect mode should not return an error: %v", err)
	}
	if called {
		t.Fatalf("next handler reached")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != LoginPath {
		t.Fatalf("expected redirect to %s, got %s", LoginPath, loc)
	}
}

// Logout only clears the client cookie; a kept copy of the token keeps
// resolving until its natural expiry.
func TestSession_TokenReplayAfterLogout(t *testing.T) {
	tokens, users := newGuardFixture(t)
	mw := Session(tokens, users, testCookieName, RejectMode)

	token, err := tokens.Issue("alice", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	for i := 0; i < 2; i++ {
		rec, called, err := request(t, mw, token, true)
		if err != nil || !called || rec.Code != http.StatusOK {
			t.Fatalf("replay %d rejected: err=%v called=%v code=%d", i, err, called, rec.Code)
		}
	}
}

func TestSession_DeletedUserStopsResolving(t *testing.T) {
	tokens, users := newGuardFixture(t)
	mw := Session(tokens, users, testCookieName, RejectMode)

	token, err := tokens.Issue("alice", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, called, err := request(t, mw, token, true); err != nil || !called {
		t.Fatalf("expected token to resolve before deletion")
	}

	users.Delete(context.Background(), "alice")

	_, called, err := request(t, mw, token, true)
	if called {
		t.Fatalf("token for deleted user resolved")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
