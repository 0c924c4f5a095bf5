/*
auth.go - JWT bearer authentication and permission checks

PURPOSE:
  Authenticates API callers with HS256 JWTs and gates the payment
  endpoints behind the manage_payments permission. Permission failures
  short-circuit BEFORE any input validation runs, so an unauthorized
  caller never receives field errors.

TOKEN SHAPE:
  Authorization: Bearer <jwt>
  Claims:
    sub          caller identity (user or app ID)
    actor_kind   "user" or "app" - carried into attribution fields
    permissions  list of permission strings

RESPONSES:
  401 missing/malformed/expired token
  403 valid token without the required permission

SEE ALSO:
  - handlers.go: ActorFromContext for attribution
  - cmd/server/main.go: Secret configuration
*/
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/warp/payment-ledger/ledger"
)

// PermissionManagePayments gates every payment endpoint.
const PermissionManagePayments = "manage_payments"

type contextKey string

const actorContextKey contextKey = "actor"

// Claims is the JWT claim set the API issues and accepts.
type Claims struct {
	ActorKind   string   `json:"actor_kind"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Auth validates bearer tokens and injects the caller's Actor into
// the request context.
type Auth struct {
	secret []byte
}

func NewAuth(secret []byte) *Auth {
	return &Auth{secret: secret}
}

// RequirePermission returns middleware rejecting callers whose token
// is invalid (401) or lacks the permission (403).
func (a *Auth) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := a.parse(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Authentication required", err)
				return
			}
			if !hasPermission(claims, permission) {
				writeError(w, http.StatusForbidden, "Permission denied", nil)
				return
			}

			actor := ledger.Actor{Kind: ledger.ActorKind(claims.ActorKind), ID: claims.Subject}
			ctx := context.WithValue(r.Context(), actorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Auth) parse(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, jwt.ErrTokenMalformed
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func hasPermission(claims *Claims, permission string) bool {
	for _, p := range claims.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// NewToken issues a signed token. Used by tests and local tooling.
func (a *Auth) NewToken(subject string, kind ledger.ActorKind, permissions ...string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ActorKind:   string(kind),
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	})
	return token.SignedString(a.secret)
}

// ActorFromContext returns the authenticated caller, zero if none.
func ActorFromContext(ctx context.Context) ledger.Actor {
	actor, _ := ctx.Value(actorContextKey).(ledger.Actor)
	return actor
}
