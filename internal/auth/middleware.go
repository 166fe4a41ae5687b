package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/expense-server/internal/logging"
)

type ownerKey struct{}

// WithOwner returns a copy of ctx carrying the authenticated owner id.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFromContext returns the authenticated owner id, if any.
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ownerKey{}).(string)
	return owner, ok && owner != ""
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Middleware rejects requests without a valid bearer token before any handler
// runs, and stores the resolved owner id in the request context.
func Middleware(api huma.API, verifier Verifier) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		owner, err := verifier.Verify(BearerToken(ctx.Header("Authorization")))
		if err != nil {
			if logData := logging.GetLogData(ctx.Context()); logData != nil {
				logData.AddData("authError", err.Error())
			}
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid or missing bearer token")
			return
		}

		if logData := logging.GetLogData(ctx.Context()); logData != nil {
			logData.AddData("owner", owner)
		}
		next(huma.WithValue(ctx, ownerKey{}, owner))
	}
}
