package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/slashroll/slashroll/config"
	"github.com/slashroll/slashroll/internal/access"
	"github.com/slashroll/slashroll/internal/common"
	"github.com/slashroll/slashroll/internal/middleware"
	"github.com/slashroll/slashroll/internal/session"
	"github.com/slashroll/slashroll/pkg/responses"
	"github.com/slashroll/slashroll/pkg/token"
	"github.com/slashroll/slashroll/utils"
)

const invalidCredentials = "Invalid username or password"

type AuthController struct {
	repo      AuthRepository
	accessSvc *access.Service
	store     session.RevocationStore
	config    *config.Config
}

func NewAuthController(repo AuthRepository, accessSvc *access.Service, store session.RevocationStore, cfg *config.Config) *AuthController {
	return &AuthController{repo: repo, accessSvc: accessSvc, store: store, config: cfg}
}

// @Summary      Log in
// @Description  Checks admin accounts first, then team members. Sets the session cookie.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  LoginRequest  true  "Credentials"
// @Success      200  {object} StatusResponse
// @Failure      400  {object} responses.ErrorResponse
// @Failure      401  {object} responses.ErrorResponse
// @Router       /login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BindError(c, err)
		return
	}
	username := strings.TrimSpace(req.Username)
	ctx := c.Request.Context()

	principal, ok, err := ac.authenticate(ctx, username, req.Password)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "login", ""))
		return
	}
	if !ok {
		log.Warn().Str("username", username).Str("ip", c.ClientIP()).Msg("failed login")
		responses.Unauthorized(c, invalidCredentials)
		return
	}

	raw, claims, err := token.GenerateSession(string(principal.Kind), principal.ID, ac.config.Session.Secret, ac.config.SessionTTL())
	if err != nil {
		responses.Fail(c, err)
		return
	}
	ac.setCookie(c, raw, int(time.Until(claims.ExpiresAt.Time).Seconds()))

	teams, err := ac.accessSvc.PermittedTeams(ctx, principal)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	log.Info().Str("username", principal.Username).Str("kind", string(principal.Kind)).Msg("login")
	expires := claims.ExpiresAt.Time
	c.JSON(http.StatusOK, StatusResponse{Authenticated: true, User: &principal, Teams: teams, ExpiresAt: &expires})
}

func (ac *AuthController) authenticate(ctx context.Context, username, password string) (access.Principal, bool, error) {
	admin, err := ac.repo.GetAdminByUsername(ctx, username)
	if err != nil {
		return access.Principal{}, false, err
	}
	if admin != nil && utils.CheckPassword(admin.PasswordHash, password) {
		return access.Admin(admin.ID, admin.Username, admin.IsSuperadmin), true, nil
	}

	user, err := ac.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return access.Principal{}, false, err
	}
	if user != nil && utils.CheckPassword(user.PasswordHash, password) {
		return access.Member(user.ID, user.Username), true, nil
	}
	return access.Principal{}, false, nil
}

// @Summary      Log out
// @Description  Revokes the current session id and clears the cookie. Succeeds without a session.
// @Tags         Auth
// @Produce      json
// @Success      200  {object} responses.MessageResponse
// @Router       /logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	raw := middleware.SessionToken(c, ac.config.Session.CookieName)
	if raw != "" {
		claims, err := token.ValidateSession(raw, ac.config.Session.Secret)
		if err == nil {
			if err := ac.store.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
				log.Error().Err(err).Msg("failed to revoke session")
				responses.InternalServerError(c)
				return
			}
		}
	}
	ac.setCookie(c, "", -1)
	responses.SendMessage(c, http.StatusOK, "Logged out successfully")
}

// @Summary      Session status
// @Tags         Auth
// @Produce      json
// @Success      200  {object} StatusResponse
// @Failure      401  {object} responses.ErrorResponse
// @Router       /auth/status [get]
func (ac *AuthController) Status(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	resp := StatusResponse{Authenticated: true, User: &principal}
	if claims, ok := middleware.SessionClaims(c); ok {
		expires := claims.ExpiresAt.Time
		resp.ExpiresAt = &expires
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Teams the current principal may access
// @Tags         Auth
// @Produce      json
// @Success      200  {array} models.Team
// @Failure      401  {object} responses.ErrorResponse
// @Router       /auth/teams [get]
func (ac *AuthController) Teams(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	teams, err := ac.accessSvc.PermittedTeams(c.Request.Context(), principal)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

func (ac *AuthController) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ac.config.Session.CookieName, value, maxAge, "/", "", ac.config.Session.CookieSecure, true)
}
