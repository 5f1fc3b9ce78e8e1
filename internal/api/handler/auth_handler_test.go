package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/friendconnect/auth-service/internal/core/domain"
	"github.com/friendconnect/auth-service/internal/core/ports"
	"github.com/friendconnect/auth-service/internal/core/service"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (string, *domain.User, error)
	logouts    []string
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(_ context.Context, username string) {
	s.logouts = append(s.logouts, username)
}

var testCookie = CookieConfig{Name: "AUTH", TTL: 30 * time.Minute}

func formContext(t *testing.T, method, path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == testCookie.Name {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", testCookie.Name)
	return nil
}

func TestAuthHandler_Login_SetsCookieAndRedirects(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (string, *domain.User, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "token123", &domain.User{Username: "alice"}, nil
		},
	}
	handler := NewAuthHandler(stub, service.NewJWTTokenService("secret"), testCookie)

	c, rec := formContext(t, http.MethodPost, "/login", url.Values{
		"username": {"alice"},
		"password": {"secret"},
	})
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
		t.Fatalf("expected redirect to /, got %s", loc)
	}

	cookie := sessionCookieFrom(t, rec)
	if cookie.Value != "token123" {
		t.Fatalf("unexpected cookie value: %s", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be HTTP-only")
	}
	if cookie.Path != "/" {
		t.Fatalf("expected path /, got %s", cookie.Path)
	}
}

func TestAuthHandler_Login_InvalidCredentials_NoCookie(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, service.NewJWTTokenService("secret"), testCookie)

	c, rec := formContext(t, http.MethodPost, "/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("failed login must not set a cookie")
	}
}

func TestAuthHandler_Login_MissingFieldsReadAsInvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			t.Fatalf("service should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub, service.NewJWTTokenService("secret"), testCookie)

	c, _ := formContext(t, http.MethodPost, "/login", url.Values{"username": {"alice"}})
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_Throttled(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrTooManyAttempts
		},
	}
	handler := NewAuthHandler(stub, service.NewJWTTokenService("secret"), testCookie)

	c, _ := formContext(t, http.MethodPost, "/login", url.Values{
		"username": {"alice"},
		"password": {"secret"},
	})
	if err := handler.Login(c); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthHandler_Logout_ClearsCookieAndRedirects(t *testing.T) {
	tokens := service.NewJWTTokenService("secret")
	stub := &stubAuthService{}
	handler := NewAuthHandler(stub, tokens, testCookie)

	token, err := tokens.Issue("alice", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: testCookie.Name, Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}

	cookie := sessionCookieFrom(t, rec)
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("cookie not cleared: value=%q maxage=%d", cookie.Value, cookie.MaxAge)
	}
	if len(stub.logouts) != 1 || stub.logouts[0] != "alice" {
		t.Fatalf("expected logout recorded for alice, got %v", stub.logouts)
	}
}

func TestAuthHandler_Logout_IdempotentWithoutSession(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{}, service.NewJWTTokenService("secret"), testCookie)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}

	// Same cleared-cookie effect as logging out with an active session.
	cookie := sessionCookieFrom(t, rec)
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("cookie not cleared: value=%q maxage=%d", cookie.Value, cookie.MaxAge)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Username != "alice" || in.Password != "longenough" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.Profile["name"] != "Alice" || in.Profile["age"] != "30" {
				t.Fatalf("unexpected profile: %+v", in.Profile)
			}
			return &domain.User{Username: in.Username, Profile: in.Profile}, nil
		},
	}
	handler := NewAuthHandler(stub, service.NewJWTTokenService("secret"), testCookie)

	c, rec := formContext(t, http.MethodPost, "/register", url.Values{
		"username": {"alice"},
		"password": {"longenough"},
		"name":     {"Alice"},
		"age":      {"30"},
	})
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %s", loc)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("registration must not start a session")
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub, service.NewJWTTokenService("secret"), testCookie)

	c, _ := formContext(t, http.MethodPost, "/register", url.Values{
		"username": {"alice"},
		"password": {"longenough"},
	})
	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_MultibytePasswordOverByteLimit(t *testing.T) {
	// 72 two-byte runes pass the rune-counting max=72 validation but exceed
	// bcrypt's 72-byte limit. The byte check lives in the hasher; the error
	// must surface as ErrPasswordTooLong (mapped to 400), never as a 500.
	called := false
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			called = true
			if len(in.Password) <= 72 {
				t.Fatalf("expected password over 72 bytes, got %d", len(in.Password))
			}
			return nil, domain.ErrPasswordTooLong
		},
	}
	handler := NewAuthHandler(stub, service.NewJWTTokenService("secret"), testCookie)

	c, _ := formContext(t, http.MethodPost, "/register", url.Values{
		"username": {"alice"},
		"password": {strings.Repeat("é", 72)},
	})
	err := handler.Register(c)
	if !called {
		t.Fatalf("validation rejected a 72-rune password: %v", err)
	}
	if !errors.Is(err, domain.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, service.NewJWTTokenService("secret"), testCookie)

	c, _ := formContext(t, http.MethodPost, "/register", url.Values{
		"username": {"alice"},
		"password": {"short"},
	})
	err := handler.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_LoginForm(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{}, service.NewJWTTokenService("secret"), testCookie)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.LoginForm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "username") {
		t.Fatalf("login form descriptor missing fields: %s", rec.Body.String())
	}
}
