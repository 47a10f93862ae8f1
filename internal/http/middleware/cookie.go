package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"textok/internal/config"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Cookies writes the auth cookies with the attributes browsers need to send
// them cross-site.
type Cookies struct {
	domain string
	secure bool
}

// NewCookies builds a cookie writer from configuration.
func NewCookies(cfg config.CookieConfig) *Cookies {
	return &Cookies{domain: cfg.Domain, secure: cfg.Secure}
}

// Set writes a session cookie. A blank value expires the cookie instead.
func (k *Cookies) Set(c *fiber.Ctx, name, value string) {
	ck := &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   k.domain,
		HTTPOnly: true,
		Secure:   k.secure,
		SameSite: fiber.CookieSameSiteNoneMode,
	}
	if strings.TrimSpace(value) == "" {
		ck.Value = ""
		ck.Expires = time.Unix(0, 0)
	}
	c.Cookie(ck)
}

// Delete expires the named cookie.
func (k *Cookies) Delete(c *fiber.Ctx, name string) {
	k.Set(c, name, "")
}

// SetTokens writes both auth cookies.
func (k *Cookies) SetTokens(c *fiber.Ctx, access, refresh string) {
	k.Set(c, AccessTokenCookie, access)
	k.Set(c, RefreshTokenCookie, refresh)
}

// Clear expires both auth cookies.
func (k *Cookies) Clear(c *fiber.Ctx) {
	k.Delete(c, AccessTokenCookie)
	k.Delete(c, RefreshTokenCookie)
}
