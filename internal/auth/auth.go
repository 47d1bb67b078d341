// Package auth turns a bearer token into the orders.Identity of the caller.
// Tokens are HS256 JWTs issued by the account service; this package only
// verifies them.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ariefcatur/bookstore-orders/internal/orders"
	"github.com/golang-jwt/jwt/v5"
)

var ErrUnauthenticated = errors.New("authentication required")

// Claims mirrors the payload the account service signs.
type Claims struct {
	UserID  string `json:"id"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(token string) (orders.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return orders.Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	id := claims.UserID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return orders.Identity{}, fmt.Errorf("%w: token has no user id", ErrUnauthenticated)
	}
	return orders.Identity{ID: id, Admin: claims.IsAdmin}, nil
}

// Sign issues a token for who. The API never calls it; it exists for local
// tooling and tests.
func Sign(secret string, who orders.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  who.ID,
		IsAdmin: who.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   who.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, who orders.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, who)
}

func FromContext(ctx context.Context) (orders.Identity, bool) {
	who, ok := ctx.Value(ctxKey{}).(orders.Identity)
	return who, ok
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Middleware rejects requests without a valid bearer token through reject
// and stores the caller's identity in the request context otherwise.
func Middleware(v *Verifier, reject func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				reject(w, r, ErrUnauthenticated)
				return
			}
			who, err := v.Verify(token)
			if err != nil {
				reject(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), who)))
		})
	}
}
