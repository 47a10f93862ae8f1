package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"textok/internal/model"
	"textok/internal/repository"
	"textok/internal/security/token"
)

// AuthService covers registration, login and account removal.
type AuthService interface {
	Join(ctx context.Context, req JoinRequest) (*model.User, error)

	// FindOrCreateOAuth2User returns the user behind an OAuth2 login,
	// creating a nickname-less account on first sight.
	FindOrCreateOAuth2User(ctx context.Context, username, profileImgURL string) (*model.User, error)

	CompleteOAuth2Join(ctx context.Context, req CompleteOAuth2JoinRequest) (*model.User, error)
	Login(ctx context.Context, req LoginRequest) (*model.User, error)
	Logout(ctx context.Context, userID int64) error
	PasswordReset(ctx context.Context, req PasswordResetRequest) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	IsAvailableUsername(ctx context.Context, username string) (bool, error)
	GetEmailByUsername(ctx context.Context, username string) (string, error)

	// Withdraw deletes the account, its comments, its session and its
	// profile image.
	Withdraw(ctx context.Context, userID int64) error

	// Me returns nil for an anonymous caller.
	Me(ctx context.Context, p *model.Principal) (*model.UserDto, error)
}

type authService struct {
	users        repository.UserRepository
	sessions     SessionService
	verification VerificationService
	tokens       *token.Provider
	images       ProfileImageService
	hashCost     int
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repository.UserRepository, sessions SessionService, verification VerificationService, tokens *token.Provider, images ProfileImageService) AuthService {
	return &authService{
		users:        users,
		sessions:     sessions,
		verification: verification,
		tokens:       tokens,
		images:       images,
		hashCost:     bcrypt.DefaultCost,
	}
}

// exists turns a lookup into a presence check.
func exists(u *model.User, err error) (bool, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return u != nil, nil
}

// duplicateUserError turns a unique violation lost to a concurrent write into
// the error the uniqueness pre-check would have returned.
func duplicateUserError(err error, nicknameErr *Error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return ErrUsernameTaken
	case errors.Is(err, repository.ErrDuplicateNickname):
		return nicknameErr
	}
	return err
}

func (s *authService) requireVerified(ctx context.Context, email, tok string) error {
	ok, err := s.verification.IsValidToken(ctx, email, tok)
	if err != nil {
		return err
	}
	if !ok {
		return ErrVerificationRequired
	}
	return nil
}

func (s *authService) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (s *authService) Join(ctx context.Context, req JoinRequest) (*model.User, error) {
	if err := s.requireVerified(ctx, req.Email, req.VerificationToken); err != nil {
		return nil, err
	}
	if taken, err := exists(s.users.FindByUsername(ctx, req.Username)); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := exists(s.users.FindByNickname(ctx, req.Nickname)); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrNicknameTaken
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	if err := s.verification.DeleteToken(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("consume verification token: %w", err)
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, &model.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Nickname:     req.Nickname,
		DateOfBirth:  dob,
		Gender:       req.Gender,
		Role:         model.RoleUser,
	})
	if err != nil {
		return nil, duplicateUserError(err, ErrNicknameTaken)
	}
	return u, nil
}

func (s *authService) FindOrCreateOAuth2User(ctx context.Context, username, profileImgURL string) (*model.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	u, err = s.users.Create(ctx, &model.User{
		Username:      username,
		ProfileImgURL: profileImgURL,
		Role:          model.RoleUser,
	})
	if errors.Is(err, repository.ErrDuplicateUsername) {
		// A concurrent callback for the same account created it first.
		return s.users.FindByUsername(ctx, username)
	}
	return u, err
}

func (s *authService) CompleteOAuth2Join(ctx context.Context, req CompleteOAuth2JoinRequest) (*model.User, error) {
	userID, err := s.tokens.ParseTemporary(req.TemporaryToken)
	if err != nil {
		return nil, ErrTemporaryTokenExpired
	}
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.JoinCompleted() {
		return nil, ErrJoinAlreadyCompleted
	}
	if taken, err := exists(s.users.FindByNickname(ctx, req.Nickname)); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrNicknameTaken
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	u.Nickname = req.Nickname
	u.DateOfBirth = dob
	u.Gender = req.Gender
	if err := s.users.Update(ctx, u); err != nil {
		return nil, duplicateUserError(err, ErrNicknameTaken)
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*model.User, error) {
	u, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnknownUsername
		}
		return nil, err
	}
	// OAuth2 accounts have no password and can never match.
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrWrongPassword
	}
	return u, nil
}

func (s *authService) Logout(ctx context.Context, userID int64) error {
	return s.sessions.Revoke(ctx, userID)
}

func (s *authService) PasswordReset(ctx context.Context, req PasswordResetRequest) error {
	if err := s.requireVerified(ctx, req.Email, req.VerificationToken); err != nil {
		return err
	}
	u, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnknownUsername
		}
		return err
	}
	if err := s.verification.DeleteToken(ctx, req.Email); err != nil {
		return fmt.Errorf("consume verification token: %w", err)
	}

	hash, err := s.hash(req.NewPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.users.Update(ctx, u)
}

func (s *authService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *authService) IsAvailableUsername(ctx context.Context, username string) (bool, error) {
	taken, err := exists(s.users.FindByUsername(ctx, username))
	return !taken, err
}

func (s *authService) GetEmailByUsername(ctx context.Context, username string) (string, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUnknownUsername
		}
		return "", err
	}
	return u.Email, nil
}

func (s *authService) Withdraw(ctx context.Context, userID int64) error {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.sessions.Revoke(ctx, userID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if err := s.images.Delete(ctx, u.ProfileImgURL); err != nil {
		return NewError("500-1", "failed to delete profile image")
	}
	return s.users.DeleteCompletely(ctx, userID)
}

func (s *authService) Me(ctx context.Context, p *model.Principal) (*model.UserDto, error) {
	if p == nil {
		return nil, nil
	}
	u, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	dto := model.NewUserDto(u)
	return &dto, nil
}
