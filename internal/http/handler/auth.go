package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"textok/internal/http/middleware"
	"textok/internal/http/rsdata"
	"textok/internal/model"
	"textok/internal/service"
)

// Signup godoc
// @Summary Register a local account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body service.JoinRequest true "Join request"
// @Success 201 {object} rsdata.RsData{data=model.UserDto}
// @Failure 400 {object} rsdata.RsData
// @Router /api/v1/auth/signup [post]
func Signup(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.JoinRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		u, err := auth.Join(c.UserContext(), req)
		if err != nil {
			return err
		}
		return rsdata.Send(c, "201-1", fmt.Sprintf("Welcome, %s!", u.Username), model.NewUserDto(u))
	}
}

// CompleteOAuth2Join godoc
// @Summary Finish an OAuth2 registration and log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body service.CompleteOAuth2JoinRequest true "Profile of the new account"
// @Success 201 {object} rsdata.RsData{data=model.UserDto}
// @Failure 400 {object} rsdata.RsData
// @Router /api/v1/auth/complete-oauth2-join [post]
func CompleteOAuth2Join(auth service.AuthService, sessions service.SessionService, cookies *middleware.Cookies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.CompleteOAuth2JoinRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		u, err := auth.CompleteOAuth2Join(c.UserContext(), req)
		if err != nil {
			return err
		}
		pair, err := sessions.Issue(c.UserContext(), u.ID, u.Role)
		if err != nil {
			return err
		}
		cookies.SetTokens(c, pair.AccessToken, pair.RefreshToken)
		return rsdata.Send(c, "201-1", fmt.Sprintf("Welcome, %s!", u.Username), model.NewUserDto(u))
	}
}

// Login godoc
// @Summary Log in with username and password
// @Description Sets the accessToken and refreshToken cookies and also returns both tokens.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body service.LoginRequest true "Credentials"
// @Success 200 {object} rsdata.RsData{data=service.LoginResult}
// @Failure 401 {object} rsdata.RsData
// @Router /api/v1/auth/login [post]
func Login(auth service.AuthService, sessions service.SessionService, cookies *middleware.Cookies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.LoginRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		u, err := auth.Login(c.UserContext(), req)
		if err != nil {
			return err
		}
		pair, err := sessions.Issue(c.UserContext(), u.ID, u.Role)
		if err != nil {
			return err
		}
		cookies.SetTokens(c, pair.AccessToken, pair.RefreshToken)
		return ok(c, "Logged in.", service.LoginResult{
			Item:         model.NewUserDto(u),
			RefreshToken: pair.RefreshToken,
			AccessToken:  pair.AccessToken,
		})
	}
}

// Logout godoc
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} rsdata.RsData
// @Failure 401 {object} rsdata.RsData
// @Router /api/v1/auth/logout [delete]
func Logout(auth service.AuthService, cookies *middleware.Cookies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal(c)
		if err != nil {
			return err
		}
		if err := auth.Logout(c.UserContext(), p.UserID); err != nil {
			return err
		}
		cookies.Clear(c)
		return ok(c, "Logged out.", nil)
	}
}

// CheckUsername godoc
// @Summary Check whether a username is free
// @Tags Auth
// @Produce json
// @Param username query string true "Username"
// @Success 200 {object} rsdata.RsData{data=map[string]bool}
// @Router /api/v1/auth/check-username [get]
func CheckUsername(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := requiredQuery(c, "username")
		if err != nil {
			return err
		}
		available, err := auth.IsAvailableUsername(c.UserContext(), username)
		if err != nil {
			return err
		}
		msg := "Username is available."
		if !available {
			msg = "Username is already in use."
		}
		return ok(c, msg, fiber.Map{"isAvailable": available})
	}
}

// GetEmail godoc
// @Summary Look up the email of a username
// @Tags Auth
// @Produce json
// @Param username query string true "Username"
// @Success 200 {object} rsdata.RsData{data=map[string]string}
// @Failure 401 {object} rsdata.RsData
// @Router /api/v1/auth/get-email [get]
func GetEmail(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := requiredQuery(c, "username")
		if err != nil {
			return err
		}
		email, err := auth.GetEmailByUsername(c.UserContext(), username)
		if err != nil {
			return err
		}
		return ok(c, "Email found.", fiber.Map{"email": email})
	}
}

// PasswordReset godoc
// @Summary Reset a password after email verification
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body service.PasswordResetRequest true "Reset request"
// @Success 200 {object} rsdata.RsData
// @Failure 400 {object} rsdata.RsData
// @Router /api/v1/auth/password-reset [post]
func PasswordReset(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.PasswordResetRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := auth.PasswordReset(c.UserContext(), req); err != nil {
			return err
		}
		return ok(c, "Password has been reset.", nil)
	}
}

// SendCode godoc
// @Summary Email a verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body service.SendCodeRequest true "Recipient"
// @Success 200 {object} rsdata.RsData
// @Router /api/v1/auth/send-code [post]
func SendCode(verification service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.SendCodeRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := verification.SendCode(c.UserContext(), req.Email); err != nil {
			return err
		}
		return ok(c, "Verification code sent.", nil)
	}
}

// VerifyCode godoc
// @Summary Verify an emailed code
// @Description Returns the verification token required by signup and password reset.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body service.VerifyCodeRequest true "Email and code"
// @Success 200 {object} rsdata.RsData{data=map[string]string}
// @Failure 400 {object} rsdata.RsData
// @Router /api/v1/auth/verify-code [post]
func VerifyCode(verification service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.VerifyCodeRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		token, err := verification.VerifyCode(c.UserContext(), req.Email, req.Code)
		if err != nil {
			return err
		}
		return ok(c, "Email verified.", fiber.Map{"verificationToken": token})
	}
}

// Me godoc
// @Summary Current user
// @Description data is null for anonymous callers.
// @Tags Auth
// @Produce json
// @Success 200 {object} rsdata.RsData{data=model.UserDto}
// @Router /api/v1/auth/me [get]
func Me(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dto, err := auth.Me(c.UserContext(), middleware.PrincipalFrom(c))
		if err != nil {
			return err
		}
		if dto == nil {
			return ok(c, "Not logged in.", nil)
		}
		return ok(c, "Current user.", dto)
	}
}

// Withdraw godoc
// @Summary Delete the current account
// @Tags Auth
// @Produce json
// @Success 200 {object} rsdata.RsData
// @Failure 401 {object} rsdata.RsData
// @Router /api/v1/auth/withdraw [delete]
func Withdraw(auth service.AuthService, cookies *middleware.Cookies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal(c)
		if err != nil {
			return err
		}
		if err := auth.Withdraw(c.UserContext(), p.UserID); err != nil {
			return err
		}
		cookies.Clear(c)
		return ok(c, "Account deleted.", nil)
	}
}
