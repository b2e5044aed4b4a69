package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	iauth "github.com/uniforum/uniforum/internal/auth"
	"github.com/uniforum/uniforum/internal/models"
	"github.com/uniforum/uniforum/pkg/crypto"
	"github.com/uniforum/uniforum/pkg/logger"
	"github.com/uniforum/uniforum/pkg/mail"
)

const (
	defaultOTPExpiry = 10 * time.Minute
	defaultOTPDigits = 6
)

var (
	// ErrUserNotFound indicates no account exists for the given email.
	ErrUserNotFound = errors.New("account service: user not found")
	// ErrEmailRegistered signals a duplicate registration attempt.
	ErrEmailRegistered = errors.New("account service: email already registered")
	// ErrEmailNotInstitutional rejects emails outside the campus pattern.
	ErrEmailNotInstitutional = errors.New("account service: email does not match the institutional pattern")
	// ErrNoPendingOTP means verification was attempted with no code on file.
	ErrNoPendingOTP = errors.New("account service: no pending otp")
	// ErrOTPMismatch means the submitted code does not match the stored one.
	ErrOTPMismatch = errors.New("account service: otp mismatch")
	// ErrOTPExpired means the code was correct but past its expiry.
	ErrOTPExpired = errors.New("account service: otp expired")
	// ErrAlreadyVerified rejects OTP regeneration for verified accounts.
	ErrAlreadyVerified = errors.New("account service: email already verified")
	// ErrBadCredentials covers both unknown email and wrong password.
	ErrBadCredentials = errors.New("account service: invalid credentials")
	// ErrNotVerified blocks login until the email is confirmed.
	ErrNotVerified = errors.New("account service: email not verified")
	// ErrOTPDelivery wraps a mailer failure during resend.
	ErrOTPDelivery = errors.New("account service: otp delivery failed")
)

// AccountConfig carries the tunables for registration and OTP issuance.
type AccountConfig struct {
	EmailDomain string
	OTPExpiry   time.Duration
	OTPDigits   int
	Clock       func() time.Time
}

// AccountService owns registration, OTP verification, and login.
type AccountService struct {
	db           *gorm.DB
	jwt          *iauth.JWTService
	mailer       mail.Mailer
	emailPattern *regexp.Regexp
	otpExpiry    time.Duration
	otpDigits    int
	now          func() time.Time
}

// NewAccountService constructs the account service with its collaborators.
func NewAccountService(db *gorm.DB, jwt *iauth.JWTService, mailer mail.Mailer, cfg AccountConfig) (*AccountService, error) {
	if db == nil {
		return nil, errors.New("account service: db is required")
	}
	if jwt == nil {
		return nil, errors.New("account service: jwt service is required")
	}

	domain := strings.TrimSpace(cfg.EmailDomain)
	if domain == "" {
		return nil, errors.New("account service: email domain is required")
	}

	// name.lastnameYYYY@<domain>, the last name being optional.
	pattern, err := regexp.Compile(fmt.Sprintf(`^[a-zA-Z]+(\.[a-zA-Z]+)?[0-9]{4}@%s$`, regexp.QuoteMeta(domain)))
	if err != nil {
		return nil, fmt.Errorf("account service: compile email pattern: %w", err)
	}

	expiry := cfg.OTPExpiry
	if expiry <= 0 {
		expiry = defaultOTPExpiry
	}

	digits := cfg.OTPDigits
	if digits <= 0 {
		digits = defaultOTPDigits
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &AccountService{
		db:           db,
		jwt:          jwt,
		mailer:       mailer,
		emailPattern: pattern,
		otpExpiry:    expiry,
		otpDigits:    digits,
		now:          now,
	}, nil
}

// RegisterInput captures the fields required to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates an unverified account and issues its first OTP. The
// plaintext code is returned to the caller; delivery through the mailer
// is attempted best-effort to match the original flow.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	ctx = ensuredContext(ctx)

	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" {
		return nil, "", errors.New("account service: name is required")
	}
	if !s.emailPattern.MatchString(email) {
		return nil, "", ErrEmailNotInstitutional
	}

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		return nil, "", ErrEmailRegistered
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, "", fmt.Errorf("account service: lookup email: %w", err)
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("account service: hash password: %w", err)
	}

	code, err := crypto.GenerateNumericCode(s.otpDigits)
	if err != nil {
		return nil, "", fmt.Errorf("account service: generate otp: %w", err)
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: hash,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("account service: create user: %w", err)
		}
		return s.storeOTP(tx, user.ID, code)
	})
	if err != nil {
		return nil, "", err
	}

	s.sendOTPMail(ctx, email, code, true)

	return &user, code, nil
}

// VerifyEmail consumes a pending OTP. On success the account is marked
// verified, the code is cleared, and a session token is issued.
func (s *AccountService) VerifyEmail(ctx context.Context, email, code string) (*models.User, string, error) {
	ctx = ensuredContext(ctx)
	email = normalizeEmail(email)

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("account service: find user: %w", err)
	}

	var otp models.EmailOTP
	if err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&otp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNoPendingOTP
		}
		return nil, "", fmt.Errorf("account service: find otp: %w", err)
	}

	if otp.CodeHash != crypto.HashToken(strings.TrimSpace(code)) {
		return nil, "", ErrOTPMismatch
	}
	if otp.ExpiresAt.Before(s.now()) {
		return nil, "", ErrOTPExpired
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			UpdateColumn("is_verified", true).Error; err != nil {
			return fmt.Errorf("account service: mark verified: %w", err)
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.EmailOTP{}).Error; err != nil {
			return fmt.Errorf("account service: clear otp: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	user.IsVerified = true
	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("account service: issue token: %w", err)
	}

	return &user, token, nil
}

// Login authenticates an email/password pair. Unknown email and wrong
// password produce the same error so accounts cannot be enumerated.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	ctx = ensuredContext(ctx)
	email = normalizeEmail(email)

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", fmt.Errorf("account service: find user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		return nil, "", ErrBadCredentials
	}

	if !user.IsVerified {
		return nil, "", ErrNotVerified
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("account service: issue token: %w", err)
	}

	return &user, token, nil
}

// ResendOTP regenerates the verification code for an unverified account.
// Unlike Register, a delivery failure here is surfaced to the caller.
func (s *AccountService) ResendOTP(ctx context.Context, email string) (string, error) {
	ctx = ensuredContext(ctx)
	email = normalizeEmail(email)

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("account service: find user: %w", err)
	}

	if user.IsVerified {
		return "", ErrAlreadyVerified
	}

	code, err := crypto.GenerateNumericCode(s.otpDigits)
	if err != nil {
		return "", fmt.Errorf("account service: generate otp: %w", err)
	}

	if err := s.sendOTPMail(ctx, email, code, false); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOTPDelivery, err)
	}

	if err := s.storeOTP(s.db.WithContext(ctx), user.ID, code); err != nil {
		return "", err
	}

	return code, nil
}

// storeOTP replaces any pending code for the user with a fresh one.
func (s *AccountService) storeOTP(tx *gorm.DB, userID, code string) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.EmailOTP{}).Error; err != nil {
		return fmt.Errorf("account service: cleanup existing otp: %w", err)
	}

	otp := models.EmailOTP{
		UserID:    userID,
		CodeHash:  crypto.HashToken(code),
		ExpiresAt: s.now().Add(s.otpExpiry),
	}
	if err := tx.Create(&otp).Error; err != nil {
		return fmt.Errorf("account service: store otp: %w", err)
	}
	return nil
}

// sendOTPMail dispatches the verification code. When bestEffort is set a
// failure is logged and swallowed; otherwise it is returned.
func (s *AccountService) sendOTPMail(ctx context.Context, email, code string, bestEffort bool) error {
	if s.mailer == nil {
		return nil
	}

	msg := mail.Message{
		To:      []string{email},
		Subject: "Your verification code",
		Body: fmt.Sprintf("Your verification code is %s.\n\nIt expires in %d minutes. If you did not sign up, you can ignore this message.\n",
			code, int(s.otpExpiry.Minutes())),
	}

	err := s.mailer.Send(ctx, msg)
	if err == nil || errors.Is(err, mail.ErrSMTPDisabled) {
		return nil
	}

	if bestEffort {
		logger.WithModule("account").Warn("otp email delivery failed", zap.String("email", email), zap.Error(err))
		return nil
	}
	return err
}

func ensuredContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
