package handler

import (
	"context"
	"crypto/subtle"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"textok/internal/config"
	"textok/internal/http/middleware"
	"textok/internal/security/oauth"
	"textok/internal/service"
)

const (
	oauthStateCookie = "oauth2_state"
	oauthStateTTL    = 5 * time.Minute
)

var (
	errOAuth2State  = service.NewError("401-1", "oauth2 state does not match")
	errOAuth2Failed = service.NewError("401-1", "oauth2 login failed")
)

// OAuth2Provider runs the authorization-code flow of one provider.
type OAuth2Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.UserInfo, error)
}

// TemporaryTokenIssuer issues the short-lived token that lets an OAuth2
// user finish registration.
type TemporaryTokenIssuer interface {
	GenerateTemporaryToken(userID int64) (string, error)
}

func matchesProvider(c *fiber.Ctx, p OAuth2Provider) bool {
	return strings.EqualFold(c.Params("provider"), p.Name())
}

func setStateCookie(c *fiber.Ctx, value string, secure bool) {
	ck := &fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   int(oauthStateTTL.Seconds()),
	}
	if value == "" {
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
	}
	c.Cookie(ck)
}

// OAuth2Authorize redirects the browser to the provider's consent page.
func OAuth2Authorize(p OAuth2Provider, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !matchesProvider(c, p) {
			return fiber.ErrNotFound
		}
		state := uuid.NewString()
		setStateCookie(c, state, secure)
		return c.Redirect(p.AuthCodeURL(state), fiber.StatusFound)
	}
}

// OAuth2Callback finishes the login. Users that have not picked a nickname
// yet are sent to the registration page with a temporary token; everyone
// else gets a session and lands on the frontend.
func OAuth2Callback(
	p OAuth2Provider,
	auth service.AuthService,
	sessions service.SessionService,
	tokens TemporaryTokenIssuer,
	cookies *middleware.Cookies,
	cfg config.OAuth2Config,
	secure bool,
	log zerolog.Logger,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !matchesProvider(c, p) {
			return fiber.ErrNotFound
		}

		expected := c.Cookies(oauthStateCookie)
		setStateCookie(c, "", secure)
		got := c.Query("state")
		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
			return errOAuth2State
		}
		if e := c.Query("error"); e != "" {
			log.Info().Str("provider", p.Name()).Str("error", e).Msg("oauth2_denied")
			return errOAuth2Failed
		}
		code := c.Query("code")
		if code == "" {
			return service.Invalid("code is required")
		}

		ctx := c.UserContext()
		info, err := p.Exchange(ctx, code)
		if err != nil {
			log.Warn().Err(err).Str("provider", p.Name()).Msg("oauth2_exchange_failed")
			return errOAuth2Failed
		}

		u, err := auth.FindOrCreateOAuth2User(ctx, info.Username(p.Name()), info.ProfileImgURL)
		if err != nil {
			return err
		}

		if !u.JoinCompleted() {
			tmp, err := tokens.GenerateTemporaryToken(u.ID)
			if err != nil {
				return err
			}
			return c.Redirect(withQuery(cfg.RegistrationURL, "token", tmp), fiber.StatusFound)
		}

		pair, err := sessions.Issue(ctx, u.ID, u.Role)
		if err != nil {
			return err
		}
		cookies.SetTokens(c, pair.AccessToken, pair.RefreshToken)
		return c.Redirect(cfg.SuccessURL, fiber.StatusFound)
	}
}

func withQuery(raw, key, value string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw + "?" + key + "=" + url.QueryEscape(value)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
