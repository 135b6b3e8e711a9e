package httpadapter

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/legalsift/docsift/internal/core/domain"
)

const userIDHeader = "X-User-Id"

type callerContextKey struct{}

func callerFromContext(ctx context.Context) string {
	caller, _ := ctx.Value(callerContextKey{}).(string)
	return caller
}

// authenticator resolves the caller id. With a secret it accepts only
// HS256 bearer tokens and reads the sub claim; without one it trusts the
// gateway-provided X-User-Id header.
type authenticator struct {
	secret []byte
}

func newAuthenticator(secret string) authenticator {
	return authenticator{secret: []byte(strings.TrimSpace(secret))}
}

func (a authenticator) caller(r *http.Request) (string, error) {
	if len(a.secret) == 0 {
		caller := strings.TrimSpace(r.Header.Get(userIDHeader))
		if caller == "" {
			return "", domain.WrapError(domain.ErrUnauthorized, "authenticate", errors.New("X-User-Id header required"))
		}
		return caller, nil
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", domain.WrapError(domain.ErrUnauthorized, "authenticate", errors.New("bearer token required"))
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", domain.WrapError(domain.ErrUnauthorized, "authenticate", errors.New("invalid or expired token"))
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", domain.WrapError(domain.ErrUnauthorized, "authenticate", errors.New("token has no subject"))
	}
	return claims.Subject, nil
}

func (a authenticator) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := a.caller(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerContextKey{}, caller)))
	})
}
