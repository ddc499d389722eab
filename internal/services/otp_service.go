package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/constants"
	"github.com/yukikurage/freelance-marketplace-api/internal/mail"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
	"github.com/yukikurage/freelance-marketplace-api/internal/utils"
)

// OTPPurpose scopes a one-time code to the flow it was issued for.
type OTPPurpose string

const (
	OTPPurposeLogin OTPPurpose = "login"
	OTPPurposeReset OTPPurpose = "reset"
)

func (p OTPPurpose) Valid() bool {
	return p == OTPPurposeLogin || p == OTPPurposeReset
}

// OTPService issues and verifies one-time codes delivered by mail
type OTPService struct {
	store  repository.OTPStore
	mailer mail.Sender
	ttl    time.Duration
}

// NewOTPService creates a new OTPService
func NewOTPService(store repository.OTPStore, mailer mail.Sender, ttl time.Duration) *OTPService {
	if ttl <= 0 {
		ttl = constants.DefaultOTPTTL
	}
	return &OTPService{
		store:  store,
		mailer: mailer,
		ttl:    ttl,
	}
}

// Issue generates a code, stores it and mails it to the address
func (s *OTPService) Issue(ctx context.Context, purpose OTPPurpose, email string) error {
	if s.mailer == nil {
		return ErrMailNotConfigured
	}

	code, err := utils.GenerateOTPCode(constants.OTPLength)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	if err := s.store.Save(ctx, string(purpose), email, code, s.ttl); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}

	subject, body := otpMessage(purpose, code, s.ttl)
	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		return fmt.Errorf("failed to send code: %w", err)
	}
	return nil
}

// Verify consumes a matching code. Too many wrong guesses burn the code.
func (s *OTPService) Verify(ctx context.Context, purpose OTPPurpose, email, code string) error {
	stored, err := s.store.Get(ctx, string(purpose), email)
	if err != nil {
		if errors.Is(err, repository.ErrOTPNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("failed to read code: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		attempts, err := s.store.IncrementAttempts(ctx, string(purpose), email)
		if err != nil && !errors.Is(err, repository.ErrOTPNotFound) {
			return fmt.Errorf("failed to record attempt: %w", err)
		}
		if attempts >= constants.OTPMaxAttempts {
			if err := s.store.Delete(ctx, string(purpose), email); err != nil {
				return fmt.Errorf("failed to discard code: %w", err)
			}
		}
		return ErrInvalidOTP
	}

	if err := s.store.Delete(ctx, string(purpose), email); err != nil {
		return fmt.Errorf("failed to consume code: %w", err)
	}
	return nil
}

func otpMessage(purpose OTPPurpose, code string, ttl time.Duration) (string, string) {
	minutes := int(ttl.Minutes())
	if purpose == OTPPurposeReset {
		return "Your password reset code",
			fmt.Sprintf("Use %s to reset your password. The code expires in %d minutes.\n\nIf you did not ask for a reset, ignore this mail.", code, minutes)
	}
	return "Your login code",
		fmt.Sprintf("Use %s to sign in. The code expires in %d minutes.", code, minutes)
}
