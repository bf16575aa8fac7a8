package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/slashroll/slashroll/internal/access"
	"github.com/slashroll/slashroll/internal/common"
	"github.com/slashroll/slashroll/internal/session"
	"github.com/slashroll/slashroll/pkg/responses"
	"github.com/slashroll/slashroll/pkg/token"
)

// SessionAuth resolves the session token (cookie first, then a Bearer
// header) to a Principal and stores it on the context. Any failure is a 401.
func SessionAuth(secret, cookieName string, accessSvc *access.Service, store session.RevocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := SessionToken(c, cookieName)
		if raw == "" {
			responses.Unauthorized(c, "Authentication required")
			return
		}

		claims, err := token.ValidateSession(raw, secret)
		if err != nil {
			responses.Unauthorized(c, "Invalid or expired session")
			return
		}

		revoked, err := store.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			log.Error().Err(err).Msg("session revocation lookup failed")
			responses.InternalServerError(c)
			return
		}
		if revoked {
			responses.Unauthorized(c, "Session has been logged out")
			return
		}

		kind := access.Kind(claims.Kind)
		if !kind.Valid() {
			responses.Unauthorized(c, "Invalid or expired session")
			return
		}
		principal, err := accessSvc.LoadPrincipal(c.Request.Context(), kind, claims.SubjectID)
		if err != nil {
			var (
				ne *common.NotFoundError
				ve *common.ValidationError
			)
			if errors.As(err, &ne) || errors.As(err, &ve) {
				responses.Unauthorized(c, "Account no longer exists")
				return
			}
			responses.Fail(c, err)
			return
		}

		c.Set(common.ContextSessionKey, claims)
		c.Set(common.ContextPrincipalKey, principal)
		c.Next()
	}
}

// SessionToken reads the raw session token from the cookie or the
// Authorization header.
func SessionToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// CurrentPrincipal returns the principal set by SessionAuth.
func CurrentPrincipal(c *gin.Context) (access.Principal, bool) {
	v, ok := c.Get(common.ContextPrincipalKey)
	if !ok {
		return access.Principal{}, false
	}
	p, ok := v.(access.Principal)
	return p, ok
}

// SessionClaims returns the validated token claims of the request.
func SessionClaims(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(common.ContextSessionKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}
