package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"textok/internal/http/rsdata"
	"textok/internal/model"
	"textok/internal/service"
)

const principalLocalKey = "principal"

// TokenParser verifies tokens issued by the server.
type TokenParser interface {
	Validate(raw string) bool
	ParseAccess(raw string) (*model.Principal, error)
}

// SessionRefresher trades a refresh token for a new access token.
type SessionRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, *model.Principal, error)
}

// PrincipalFrom returns the authenticated caller, or nil.
func PrincipalFrom(c *fiber.Ctx) *model.Principal {
	p, _ := c.Locals(principalLocalKey).(*model.Principal)
	return p
}

// SetPrincipal stores the authenticated caller on the request.
func SetPrincipal(c *fiber.Ctx, p *model.Principal) {
	c.Locals(principalLocalKey, p)
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(tok)
	}
	return ""
}

var jwtSkipPaths = compilePatterns("/swagger/**", "/health", "/healthz", "/metrics")

// JWTAuth resolves the caller from the access token (Authorization header
// first, then the accessToken cookie). When the access token is missing or
// invalid but a valid refresh cookie is present, the session is refreshed and
// a new access cookie is written. A refresh rejected by the session store
// clears both cookies; the request then continues anonymously when policy
// permits it without a principal and ends with 401 otherwise.
func JWTAuth(tokens TokenParser, sessions SessionRefresher, cookies *Cookies, policy *AccessPolicy, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if matchAny(jwtSkipPaths, c.Path()) {
			return c.Next()
		}

		access := bearerToken(c)
		if access == "" {
			access = c.Cookies(AccessTokenCookie)
		}
		if access != "" {
			if p, err := tokens.ParseAccess(access); err == nil {
				SetPrincipal(c, p)
				return c.Next()
			}
		}

		refresh := c.Cookies(RefreshTokenCookie)
		if refresh == "" || !tokens.Validate(refresh) {
			return c.Next()
		}

		newAccess, p, err := sessions.Refresh(c.UserContext(), refresh)
		if err != nil {
			if se, ok := service.AsError(err); ok {
				cookies.Clear(c)
				if policy.Permits(c.Method(), c.Path()) {
					log.Debug().Str("request_id", RequestIDFrom(c)).Str("reason", se.Message).Msg("stale_session_dropped")
					return c.Next()
				}
				return rsdata.Error(c, se)
			}
			return err
		}

		cookies.Set(c, AccessTokenCookie, newAccess)
		SetPrincipal(c, p)
		log.Debug().Int64("user_id", p.UserID).Str("request_id", RequestIDFrom(c)).Msg("access_token_refreshed")
		return c.Next()
	}
}
