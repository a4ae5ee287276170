package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookora/bookora/internal/booking"
	"github.com/bookora/bookora/internal/model"
)

func TestMiddlewareResolvesActor(t *testing.T) {
	v := NewVerifier("test-secret")
	token, err := v.Sign("user-1", model.RoleProvider, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	var got booking.Actor
	var ok bool
	h := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = ActorFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !ok {
		t.Fatal("actor missing from context")
	}
	if got.UserID != "user-1" || got.Role != model.RoleProvider {
		t.Fatalf("actor = %+v", got)
	}
}

func TestMiddlewareRejects(t *testing.T) {
	v := NewVerifier("test-secret")

	expired, err := v.Sign("user-1", model.RoleClient, -time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	otherSecret, err := NewVerifier("other-secret").Sign("user-1", model.RoleClient, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noSubToken, err := noSub.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expired},
		{"wrong secret", "Bearer " + otherSecret},
		{"missing subject", "Bearer " + noSubToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))
			req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if called {
				t.Fatal("handler ran despite invalid token")
			}
		})
	}
}

func TestParseUnknownRoleFallsBackToClient(t *testing.T) {
	v := NewVerifier("test-secret")
	claims := Claims{
		Role: "SUPERUSER",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-2",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	actor, err := v.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if actor.Role != model.RoleClient {
		t.Fatalf("role = %q, want CLIENT", actor.Role)
	}
}
