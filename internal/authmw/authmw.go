// Package authmw provides HTTP middleware for bearer token
// authentication and carries the resolved operator identity in the
// request context.
package authmw

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
)

type operatorKey struct{}

// Operators maps bearer tokens to operator identities.
type Operators map[string]string

// ParseOperators parses a "token=operator,token=operator" list.
func ParseOperators(s string) (Operators, error) {
	ops := make(Operators)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, operator, ok := strings.Cut(pair, "=")
		if !ok || token == "" || operator == "" {
			return nil, fmt.Errorf("malformed token entry %q", pair)
		}
		ops[token] = operator
	}
	return ops, nil
}

// BearerOperator returns middleware that validates the Authorization
// header against the token set and stores the matching operator in the
// request context. Comparison uses constant-time equality to prevent
// timing side-channel attacks.
func BearerOperator(ops Operators) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, `{"error":"missing or malformed authorization header"}`, http.StatusUnauthorized)
				return
			}

			got := []byte(auth[len("Bearer "):])

			// check every token so response time does not reveal
			// which ones exist
			var operator string
			var matched bool
			for token, op := range ops {
				if subtle.ConstantTimeCompare(got, []byte(token)) == 1 {
					operator = op
					matched = true
				}
			}
			if !matched {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), operatorKey{}, operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Operator returns the authenticated operator identity, or "" when the
// request did not pass through BearerOperator.
func Operator(ctx context.Context) string {
	op, _ := ctx.Value(operatorKey{}).(string)
	return op
}
