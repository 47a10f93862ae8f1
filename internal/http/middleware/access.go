package middleware

import (
	"github.com/gofiber/fiber/v2"

	"textok/internal/http/rsdata"
	"textok/internal/service"
)

// AccessPolicy decides which requests may proceed without a principal.
type AccessPolicy struct {
	always    []pathPattern
	anyMethod []pathPattern
	publicGet []pathPattern
}

// NewAccessPolicy builds a policy from three pattern lists: paths open to
// everyone, paths open for any method, and paths open for GET only.
func NewAccessPolicy(always, anyMethod, publicGet []string) *AccessPolicy {
	return &AccessPolicy{
		always:    compilePatterns(always...),
		anyMethod: compilePatterns(anyMethod...),
		publicGet: compilePatterns(publicGet...),
	}
}

// DefaultAccessPolicy is the policy the API runs with.
func DefaultAccessPolicy() *AccessPolicy {
	return NewAccessPolicy(
		[]string{
			"/",
			"/swagger/**",
			"/health",
			"/healthz",
			"/metrics",
			"/oauth2/authorization/*",
			"/login/oauth2/code/*",
		},
		[]string{
			"/api/v1/auth/signup",
			"/api/v1/auth/login",
			"/api/v1/auth/check-username",
			"/api/v1/auth/password-reset",
			"/api/v1/auth/complete-oauth2-join",
			"/api/v1/auth/send-code",
			"/api/v1/auth/verify-code",
			"/api/v1/auth/get-email",
			"/api/v1/auth/me",
		},
		[]string{
			"/api/v1/users",
			`/api/v1/users/{id:\d+}`,
			"/api/v1/users/check-nickname",
			"/api/v1/users/search",
			"/api/v1/comments/counts",
			"/api/v1/comments/{targetType}/{targetId}",
			`/api/v1/comments/{targetType}/{targetId:\d+}/count`,
		},
	)
}

// Permits reports whether an anonymous caller may make the request.
func (p *AccessPolicy) Permits(method, path string) bool {
	if matchAny(p.always, path) || matchAny(p.anyMethod, path) {
		return true
	}
	return (method == fiber.MethodGet || method == fiber.MethodHead) && matchAny(p.publicGet, path)
}

// RequireAuth rejects anonymous requests the policy does not permit.
// It must run after the JWT filter.
func RequireAuth(policy *AccessPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions || PrincipalFrom(c) != nil || policy.Permits(c.Method(), c.Path()) {
			return c.Next()
		}
		return rsdata.Error(c, service.ErrAuthenticationRequired)
	}
}
