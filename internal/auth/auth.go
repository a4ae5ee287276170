package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookora/bookora/internal/booking"
	"github.com/bookora/bookora/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

type ctxKey int

const ctxKeyActor ctxKey = iota

// Claims is the token payload issued by the identity service. Sub carries
// the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ActorFromContext returns the authenticated caller, if any.
func ActorFromContext(ctx context.Context) (booking.Actor, bool) {
	actor, ok := ctx.Value(ctxKeyActor).(booking.Actor)
	return actor, ok
}

// Verifier validates HS256 bearer tokens and resolves them into an Actor.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Parse(token string) (booking.Actor, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return booking.Actor{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return booking.Actor{}, ErrInvalidToken
	}
	role := model.Role(claims.Role)
	if !role.Valid() {
		role = model.RoleClient
	}
	return booking.Actor{UserID: claims.Subject, Role: role}, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// resolved Actor in the request context.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(w)
			return
		}
		actor, err := v.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			unauthorized(w)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyActor, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Sign issues a token for the given user. The HTTP service only verifies
// tokens; signing lives here for tests and local tooling.
func (v *Verifier) Sign(userID string, role model.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"missing or invalid bearer token"}}`))
}
