package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/tristarfitness/backend/internal/app/service/auth"
	"github.com/tristarfitness/backend/pkg/logctx"
	"github.com/tristarfitness/backend/pkg/response"
	"github.com/tristarfitness/backend/pkg/types"
)

const keySubject = "auth_subject"

// TokenVerifier turns a bearer token into the caller's identity.
type TokenVerifier interface {
	Verify(token string) (*auth.Subject, error)
}

// Authenticate rejects requests without a valid bearer token with 401 and
// stores the subject for handlers and RequireRoles.
func Authenticate(v TokenVerifier, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := v.Verify(bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			msg := "invalid or expired token"
			if errors.Is(err, auth.ErrUnauthenticated) {
				msg = "authentication required"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT(msg, err))
			return
		}

		c.Set(keySubject, sub)
		c.Set(logctx.KeyUserID, sub.ID)
		c.Set(logctx.KeyRole, string(sub.Role))
		ctx := context.WithValue(c.Request.Context(), logctx.KeyUserID, sub.ID)
		ctx = context.WithValue(ctx, logctx.KeyRole, string(sub.Role))
		c.Request = c.Request.WithContext(ctx)
		setRequestLogger(c, logctx.FromGin(c, base).With("user_id", sub.ID, "role", sub.Role))
		c.Next()
	}
}

// RequireRoles answers 403 unless the authenticated subject has one of roles.
func RequireRoles(roles ...types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, ok := SubjectFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT("authentication required", auth.ErrUnauthenticated))
			return
		}
		if !lo.Contains(roles, sub.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorT("insufficient permissions", errors.New("role "+string(sub.Role)+" may not perform this action")))
			return
		}
		c.Next()
	}
}

func SubjectFrom(c *gin.Context) (*auth.Subject, bool) {
	v, ok := c.Get(keySubject)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*auth.Subject)
	return sub, ok && sub != nil
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
