package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/constants"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
	"github.com/yukikurage/freelance-marketplace-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles authentication related business logic.
type AuthService struct {
	personRepo     repository.PersonRepository
	otpService     *OTPService
	jwtSecret      string
	jwtExpireHours int
	now            func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(personRepo repository.PersonRepository, otpService *OTPService, jwtSecret string, jwtExpireHours int) *AuthService {
	return &AuthService{
		personRepo:     personRepo,
		otpService:     otpService,
		jwtSecret:      jwtSecret,
		jwtExpireHours: jwtExpireHours,
		now:            time.Now,
	}
}

// SignupInput represents the required information to create a new account.
type SignupInput struct {
	Email    string
	Password string
	Name     string
	Role     models.Role
}

// Signup creates a new client or freelancer account.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.Person, error) {
	email := repository.NormalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, Validation("a valid email is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, Validation(fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	}
	if input.Role != models.RoleClient && input.Role != models.RoleFreelancer {
		return nil, Validation("role must be client or freelancer")
	}

	if _, err := s.personRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	person := &models.Person{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: &hash,
		Role:         input.Role,
		Status:       models.PersonActive,
	}
	if err := s.personRepo.Create(ctx, person); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return person, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated person.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.Person, error) {
	person, err := s.personRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if person.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*person.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.completeLogin(ctx, person)
}

// RequestOTP mails a one-time code when the address belongs to an active
// account. Unknown addresses succeed silently.
func (s *AuthService) RequestOTP(ctx context.Context, email string, purpose OTPPurpose) error {
	if !purpose.Valid() {
		return Validation("purpose must be login or reset")
	}

	person, err := s.personRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	if !person.IsActive() {
		return nil
	}

	return s.otpService.Issue(ctx, purpose, person.Email)
}

// LoginWithOTP signs a person in with a login code.
func (s *AuthService) LoginWithOTP(ctx context.Context, email, code string) (*models.Person, error) {
	email = repository.NormalizeEmail(email)
	if err := s.otpService.Verify(ctx, OTPPurposeLogin, email, code); err != nil {
		return nil, err
	}

	person, err := s.personRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return s.completeLogin(ctx, person)
}

// ResetPassword replaces the password after verifying a reset code.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < constants.MinPasswordLength {
		return Validation(fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	}

	email = repository.NormalizeEmail(email)
	if err := s.otpService.Verify(ctx, OTPPurposeReset, email, code); err != nil {
		return err
	}

	person, err := s.personRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.personRepo.UpdateFields(ctx, person.ID, map[string]any{"password_hash": hash}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// GoogleProfile is the subset of Google's userinfo used to sign in.
type GoogleProfile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// LoginWithGoogle finds or creates the person behind a Google account.
// An existing password account is linked when Google has verified the address.
func (s *AuthService) LoginWithGoogle(ctx context.Context, profile GoogleProfile, role models.Role) (*models.Person, error) {
	if profile.Subject == "" || profile.Email == "" {
		return nil, Validation("google profile is missing an id or email")
	}

	person, err := s.personRepo.FindByGoogleID(ctx, profile.Subject)
	if err == nil {
		return s.completeLogin(ctx, person)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	person, err = s.personRepo.FindByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		if !profile.EmailVerified {
			return nil, ErrInvalidCredentials
		}
		if err := s.personRepo.UpdateFields(ctx, person.ID, map[string]any{"google_id": profile.Subject}); err != nil {
			return nil, fmt.Errorf("failed to link google account: %w", err)
		}
		person.GoogleID = &profile.Subject
		return s.completeLogin(ctx, person)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if role == "" {
		role = models.RoleClient
	}
	if role != models.RoleClient && role != models.RoleFreelancer {
		return nil, Validation("role must be client or freelancer")
	}

	subject := profile.Subject
	person = &models.Person{
		Email:    profile.Email,
		Name:     strings.TrimSpace(profile.Name),
		GoogleID: &subject,
		Role:     role,
		Status:   models.PersonActive,
	}
	if err := s.personRepo.Create(ctx, person); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return s.completeLogin(ctx, person)
}

// IssueToken returns a signed bearer token for the person.
func (s *AuthService) IssueToken(person *models.Person) (string, time.Time, error) {
	token, expiresAt, err := utils.GenerateToken(s.jwtSecret, person.ID, string(person.Role), person.Email, s.jwtExpireHours)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, expiresAt, nil
}

// ParseToken validates a bearer token and returns the identity it claims.
func (s *AuthService) ParseToken(token string) (Caller, error) {
	claims, err := utils.ParseToken(s.jwtSecret, token)
	if err != nil {
		return Caller{}, newError(ErrUnauthenticated, "invalid or expired token")
	}
	return Caller{ID: claims.UserID, Role: models.Role(claims.Role), Email: claims.Email}, nil
}

// GetUser retrieves a person by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.Person, error) {
	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return person, nil
}

func (s *AuthService) completeLogin(ctx context.Context, person *models.Person) (*models.Person, error) {
	if !person.IsActive() {
		return nil, ErrAccountInactive
	}

	now := s.now()
	if err := s.personRepo.UpdateFields(ctx, person.ID, map[string]any{"last_login_at": now}); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	person.LastLoginAt = &now
	return person, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
