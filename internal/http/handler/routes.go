package handler

import (
	"database/sql"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"textok/docs"
	"textok/internal/config"
	"textok/internal/http/middleware"
	"textok/internal/service"
)

// Deps is everything the routes need.
type Deps struct {
	DB    *sql.DB
	Redis redis.Cmdable

	Auth         service.AuthService
	Users        service.UserService
	Comments     service.CommentService
	Sessions     service.SessionService
	Verification service.VerificationService

	Tokens  TemporaryTokenIssuer
	Cookies *middleware.Cookies

	// OAuth2 is nil when no provider is configured.
	OAuth2       OAuth2Provider
	OAuth2Config config.OAuth2Config
	SecureCookie bool

	// PublicHost is the host:port advertised in the OpenAPI document.
	PublicHost string

	Metrics prometheus.Gatherer
	Log     zerolog.Logger
}

// configureSwagger fixes the advertised host before the server starts.
// Schemes stay empty so the UI calls back with the scheme it was loaded over.
func configureSwagger(host string) {
	docs.SwaggerInfo.Host = strings.TrimSpace(host)
	docs.SwaggerInfo.Schemes = []string{}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/swagger/index.html", fiber.StatusFound)
	})

	configureSwagger(d.PublicHost)
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", HealthCheck(d.DB, d.Redis))
	app.Get("/healthz", LivenessProbe())
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}

	if d.OAuth2 != nil {
		app.Get("/oauth2/authorization/:provider", OAuth2Authorize(d.OAuth2, d.SecureCookie))
		app.Get("/login/oauth2/code/:provider", OAuth2Callback(
			d.OAuth2, d.Auth, d.Sessions, d.Tokens, d.Cookies, d.OAuth2Config, d.SecureCookie, d.Log,
		))
	}

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/signup", Signup(d.Auth))
	auth.Post("/complete-oauth2-join", CompleteOAuth2Join(d.Auth, d.Sessions, d.Cookies))
	auth.Post("/login", Login(d.Auth, d.Sessions, d.Cookies))
	auth.Delete("/logout", Logout(d.Auth, d.Cookies))
	auth.Get("/check-username", CheckUsername(d.Auth))
	auth.Get("/get-email", GetEmail(d.Auth))
	auth.Post("/password-reset", PasswordReset(d.Auth))
	auth.Post("/send-code", SendCode(d.Verification))
	auth.Post("/verify-code", VerifyCode(d.Verification))
	auth.Get("/me", Me(d.Auth))
	auth.Delete("/withdraw", Withdraw(d.Auth, d.Cookies))

	users := api.Group("/users")
	users.Get("/", ListUsers(d.Users))
	users.Get("/me", GetMyProfile(d.Users))
	users.Get("/me/comment-activities", MyCommentActivities(d.Comments))
	users.Put("/update", UpdateProfile(d.Users))
	users.Get("/check-nickname", CheckNickname(d.Users))
	users.Get("/search", SearchUsers(d.Users))
	users.Get("/:id<int>", GetUser(d.Users))

	comments := api.Group("/comments")
	comments.Get("/counts", CountComments(d.Comments))
	comments.Post("/", CreateComment(d.Comments))
	comments.Put("/:id<int>", UpdateComment(d.Comments))
	comments.Delete("/:id<int>", DeleteComment(d.Comments))
	comments.Get("/:targetType/:targetId", ListComments(d.Comments))
	comments.Get("/:targetType/:targetId/count", CountTargetComments(d.Comments))
	comments.Delete("/:targetType/:targetId", DeleteTargetComments(d.Comments))
}
