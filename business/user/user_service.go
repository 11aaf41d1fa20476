package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"multiMart/domain"
	"multiMart/pkg/apperror"
	"multiMart/pkg/logger"
	"multiMart/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pobyzaarif/goshortcute"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateEmailVerification(ctx context.Context, id uuid.UUID, isVerified bool) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, message string) error
}

type TokenIssuer interface {
	GenerateJWT(userID uuid.UUID, role string) (string, error)
}

type Config struct {
	EmailVerificationKey string
	DeploymentURL        string
	// SkipVerification lets unverified accounts log in (development only).
	SkipVerification bool
}

type UserService struct {
	userRepo  UserRepository
	validate  *validator.Validate
	notifRepo NotificationRepository
	tokens    TokenIssuer
	cfg       Config
	now       func() time.Time
}

const (
	verificationCodeTTL      = 15
	SubjectRegisterAccount   = "Activate Your Account!"
	EmailBodyRegisterAccount = `Hello %v, activate your account by opening the link below</br></br>%v</br>note: the link is valid for %v minutes`
)

func NewUserService(
	userRepo UserRepository,
	validate *validator.Validate,
	notifRepo NotificationRepository,
	tokens TokenIssuer,
	cfg Config,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		validate:  validate,
		notifRepo: notifRepo,
		tokens:    tokens,
		cfg:       cfg,
		now:       time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type UpdateInput struct {
	Name     *string
	Password *string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if err := s.validate.Var(email, "required,email"); err != nil {
		return domain.User{}, apperror.Validation("invalid email format")
	}
	if err := s.validate.Var(in.Password, "required,min=6"); err != nil {
		return domain.User{}, apperror.Validation("password must be at least 6 characters")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.User{}, apperror.Validation("name is required")
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return domain.User{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		logger.Error("Failed to check email", "error", err)
		return domain.User{}, err
	}

	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         domain.RoleUser,
		IsVerified:   false,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		if !errors.Is(err, domain.ErrEmailTaken) {
			logger.Error("Failed to create new user", "error", err)
		}
		return domain.User{}, err
	}

	s.sendVerificationEmail(ctx, newUser)

	return newUser, nil
}

func (s *UserService) sendVerificationEmail(ctx context.Context, u domain.User) {
	code, err := s.verificationCode(u.Email)
	if err != nil {
		logger.Error("Failed to build verification code", "error", err)
		return
	}

	activationLink := strings.TrimRight(s.cfg.DeploymentURL, "/") + "/api/v1/users/email-verification/" + code
	body := fmt.Sprintf(EmailBodyRegisterAccount, u.Name, activationLink, verificationCodeTTL)

	if err := s.notifRepo.SendEmail(ctx, u.Name, u.Email, SubjectRegisterAccount, body); err != nil {
		logger.Warn("Failed to send verification email", "error", err, "user_id", u.ID.String())
	}
}

// verificationCode encrypts "email|expiry" and base64 encodes the result.
func (s *UserService) verificationCode(email string) (string, error) {
	expAt := s.now().Add(verificationCodeTTL * time.Minute).Unix()
	plain := fmt.Sprintf("%v|%v", email, expAt)

	encrypted, err := goshortcute.AESCBCEncrypt([]byte(plain), []byte(s.cfg.EmailVerificationKey))
	if err != nil {
		return "", err
	}

	return goshortcute.StringtoBase64Encode(encrypted), nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.User{}, apperror.ErrInvalidCredentials
		}
		logger.Error("Failed to find user by email", "error", err)
		return "", domain.User{}, err
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		return "", domain.User{}, apperror.ErrInvalidCredentials
	}

	if !user.IsVerified && !s.cfg.SkipVerification {
		return "", domain.User{}, domain.ErrEmailNotVerified
	}

	token, err := s.tokens.GenerateJWT(user.ID, string(user.Role))
	if err != nil {
		logger.Error("Failed to generate token", "error", err)
		return "", domain.User{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user, nil
}

func (s *UserService) VerifyEmail(ctx context.Context, code string) error {
	decoded := goshortcute.StringtoBase64Decode(code)
	plain, err := goshortcute.AESCBCDecrypt([]byte(decoded), []byte(s.cfg.EmailVerificationKey))
	if err != nil {
		logger.Warn("Verifying email error", "error", err)
		return domain.ErrInvalidVerifyCode
	}

	parts := strings.Split(plain, "|")
	if len(parts) != 2 {
		return domain.ErrInvalidVerifyCode
	}

	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return domain.ErrInvalidVerifyCode
	}
	if s.now().After(time.Unix(ts, 0)) {
		return domain.ErrInvalidVerifyCode
	}

	user, err := s.userRepo.FindByEmail(ctx, parts[0])
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidVerifyCode
		}
		return err
	}

	if user.IsVerified {
		logger.Warn("Email already verified", "user_id", user.ID.String())
		return domain.ErrInvalidVerifyCode
	}

	if err := s.userRepo.UpdateEmailVerification(ctx, user.ID, true); err != nil {
		logger.Error("Verify email err", "error", err)
		return err
	}

	return nil
}

func (s *UserService) FindByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// Update changes the caller's name and/or password.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (domain.User, error) {
	if in.Name == nil && in.Password == nil {
		return domain.User{}, apperror.Validation("no fields to update")
	}

	existing, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.User{}, apperror.Validation("name cannot be empty")
		}
		existing.Name = name
	}

	if in.Password != nil {
		if err := s.validate.Var(*in.Password, "required,min=6"); err != nil {
			return domain.User{}, apperror.Validation("password must be at least 6 characters")
		}
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			logger.Error("Failed to hash password", "error", err)
			return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		existing.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, &existing); err != nil {
		logger.Error("Failed to update user", "error", err)
		return domain.User{}, err
	}

	return existing, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			logger.Error("Failed to delete user", "error", err)
		}
		return err
	}

	logger.Info("User deleted", "user_id", id.String())
	return nil
}
