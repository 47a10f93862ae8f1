package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"textok/internal/mail"
	"textok/internal/repository"
)

const (
	CodeTTL              = 5 * time.Minute
	VerificationTokenTTL = 30 * time.Minute
	// MaxCodeAttempts wrong guesses invalidate the pending code.
	MaxCodeAttempts = 5
)

// VerificationService proves ownership of an email address with a mailed
// six digit code, then hands out a token that join and password reset consume.
type VerificationService interface {
	SendCode(ctx context.Context, email string) error
	// VerifyCode consumes the pending code and returns a verification token.
	VerifyCode(ctx context.Context, email, code string) (string, error)
	IsValidToken(ctx context.Context, email, token string) (bool, error)
	DeleteToken(ctx context.Context, email string) error
}

type verificationService struct {
	store   repository.VerificationStore
	sender  mail.Sender
	newCode func() (string, error)
}

// NewVerificationService constructs a VerificationService.
func NewVerificationService(store repository.VerificationStore, sender mail.Sender) VerificationService {
	return &verificationService{store: store, sender: sender, newCode: randomCode}
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *verificationService) SendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	if err := s.store.SaveCode(ctx, email, code, CodeTTL); err != nil {
		return fmt.Errorf("save code: %w", err)
	}
	body := fmt.Sprintf("Your textok verification code is %s.\nIt expires in %d minutes.", code, int(CodeTTL.Minutes()))
	return s.sender.Send(ctx, email, "[textok] Email verification code", body)
}

func (s *verificationService) VerifyCode(ctx context.Context, email, code string) (string, error) {
	email = normalizeEmail(email)
	stored, err := s.store.FindCode(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCode
		}
		return "", err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		n, err := s.store.IncrCodeAttempts(ctx, email, CodeTTL)
		if err != nil {
			return "", fmt.Errorf("count code attempt: %w", err)
		}
		if n >= MaxCodeAttempts {
			if err := s.store.DeleteCode(ctx, email); err != nil {
				return "", fmt.Errorf("delete code: %w", err)
			}
		}
		return "", ErrInvalidCode
	}
	if err := s.store.DeleteCode(ctx, email); err != nil {
		return "", fmt.Errorf("delete code: %w", err)
	}

	tok := uuid.NewString()
	if err := s.store.SaveToken(ctx, email, tok, VerificationTokenTTL); err != nil {
		return "", fmt.Errorf("save verification token: %w", err)
	}
	return tok, nil
}

func (s *verificationService) IsValidToken(ctx context.Context, email, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	stored, err := s.store.FindToken(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(token)) == 1, nil
}

func (s *verificationService) DeleteToken(ctx context.Context, email string) error {
	return s.store.DeleteToken(ctx, normalizeEmail(email))
}
