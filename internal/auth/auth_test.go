package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariefcatur/bookstore-orders/internal/orders"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestVerifyRoundTrip(t *testing.T) {
	tok, err := Sign(secret, orders.Identity{ID: "u-1", Admin: true}, time.Hour)
	require.NoError(t, err)

	who, err := NewVerifier(secret).Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, orders.Identity{ID: "u-1", Admin: true}, who)
}

func TestVerifyRejects(t *testing.T) {
	v := NewVerifier(secret)

	wrongKey, _ := Sign("other", orders.Identity{ID: "u-1"}, time.Hour)
	_, err := v.Verify(wrongKey)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	expired, _ := Sign(secret, orders.Identity{ID: "u-1"}, -time.Minute)
	_, err = v.Verify(expired)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	noID, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte(secret))
	_, err = v.Verify(noID)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = v.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestMiddleware(t *testing.T) {
	var seen orders.Identity
	h := Middleware(NewVerifier(secret), func(w http.ResponseWriter, _ *http.Request, _ error) {
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tok, err := Sign(secret, orders.Identity{ID: "u-7"}, time.Hour)
	require.NoError(t, err)

	cases := map[string]struct {
		header string
		want   int
	}{
		"valid":          {"Bearer " + tok, http.StatusNoContent},
		"lowercase":      {"bearer " + tok, http.StatusNoContent},
		"missing":        {"", http.StatusUnauthorized},
		"wrong scheme":   {"Basic " + tok, http.StatusUnauthorized},
		"garbage bearer": {"Bearer abc", http.StatusUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/orders", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
	assert.Equal(t, "u-7", seen.ID)
}
