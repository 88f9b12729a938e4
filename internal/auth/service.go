package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/adts-project/adts/internal/shared"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	FindEmployeeByIDNumber(ctx context.Context, idNumber string) (EmployeeRef, error)
	EmployeeExists(ctx context.Context, empID int64) (bool, error)
	FindUserByEmpID(ctx context.Context, empID int64) (User, error)
	FindUserByEmail(ctx context.Context, email string) (User, error)
	UpsertUser(ctx context.Context, empID int64, email, passwordHash string, role int) (bool, error)
	UpdatePasswordByEmpID(ctx context.Context, empID int64, passwordHash string) error
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
	UpdateEmail(ctx context.Context, empID int64, email string) error
	InsertOTP(ctx context.Context, empID int64, code string, expiresAt time.Time) error
	ConsumeOTP(ctx context.Context, empID int64, code string) error
}

// Mailer delivers recovery codes. The production implementation enqueues a
// background task; tests substitute a recorder.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// Config groups the token and OTP settings.
type Config struct {
	JWTSecret string
	JWTTTL    time.Duration
	OTPTTL    time.Duration
}

// Service wraps authentication business rules.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
	mailer Mailer
	cfg    Config
}

// NewService constructs a new Service.
func NewService(logger *slog.Logger, repo RepositoryPort, mailer Mailer, cfg Config) *Service {
	if cfg.JWTTTL == 0 {
		cfg.JWTTTL = time.Hour
	}
	if cfg.OTPTTL == 0 {
		cfg.OTPTTL = 5 * time.Minute
	}
	return &Service{logger: logger, repo: repo, mailer: mailer, cfg: cfg}
}

// LoginResult carries everything the login response needs.
type LoginResult struct {
	Token        string
	User         User
	EmpID        int64
	FirstLetter  string
	CurrentDptID int64
}

// Login validates ID number and password credentials. An employee with no
// account row may log in once with their ID number as password; that path
// returns ErrFirstLogin alongside the employee identity so the caller can
// redirect to account setup.
func (s *Service) Login(ctx context.Context, idNumber, password string) (LoginResult, error) {
	idNumber = strings.TrimSpace(idNumber)
	password = strings.TrimSpace(password)

	employee, err := s.repo.FindEmployeeByIDNumber(ctx, idNumber)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return LoginResult{}, shared.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	result := LoginResult{
		EmpID:        employee.EmpID,
		FirstLetter:  firstLetter(employee.FirstName),
		CurrentDptID: employee.CurrentDptID,
	}

	user, err := s.repo.FindUserByEmpID(ctx, employee.EmpID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// First login: the ID number doubles as the default password.
			if password != idNumber {
				return LoginResult{}, shared.ErrInvalidCredentials
			}
			return result, ErrFirstLogin
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, shared.ErrInvalidCredentials
	}

	token, err := GenerateToken(s.cfg.JWTSecret, s.cfg.JWTTTL, user)
	if err != nil {
		return LoginResult{}, err
	}
	result.Token = token
	result.User = user
	return result, nil
}

// RequestOTP verifies the email/ID number pair, stores a fresh recovery code,
// and mails it. Returns the employee identity for the follow-up verify call.
func (s *Service) RequestOTP(ctx context.Context, email, idNumber string) (EmployeeRef, error) {
	employee, err := s.repo.FindEmployeeByIDNumber(ctx, strings.TrimSpace(idNumber))
	if err != nil {
		return EmployeeRef{}, err
	}

	user, err := s.repo.FindUserByEmpID(ctx, employee.EmpID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return EmployeeRef{}, ErrEmailMismatch
		}
		return EmployeeRef{}, err
	}
	if !strings.EqualFold(user.Email, strings.TrimSpace(email)) {
		return EmployeeRef{}, ErrEmailMismatch
	}

	if err := s.issueOTP(ctx, employee.EmpID, user.Email); err != nil {
		return EmployeeRef{}, err
	}
	return employee, nil
}

// ResendOTP stores and mails a fresh code for an employee that already
// started recovery.
func (s *Service) ResendOTP(ctx context.Context, empID int64) error {
	user, err := s.repo.FindUserByEmpID(ctx, empID)
	if err != nil {
		return err
	}
	return s.issueOTP(ctx, empID, user.Email)
}

// VerifyOTP consumes a recovery code and issues a token on success.
func (s *Service) VerifyOTP(ctx context.Context, empID int64, code string) (LoginResult, error) {
	if err := s.repo.ConsumeOTP(ctx, empID, strings.TrimSpace(code)); err != nil {
		return LoginResult{}, err
	}

	user, err := s.repo.FindUserByEmpID(ctx, empID)
	if err != nil {
		return LoginResult{}, err
	}

	token, err := GenerateToken(s.cfg.JWTSecret, s.cfg.JWTTTL, user)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, User: user, EmpID: empID}, nil
}

// UpdateAccount creates or replaces the account row for an employee,
// completing first-login setup. Reports whether a new row was created.
func (s *Service) UpdateAccount(ctx context.Context, empID int64, email, password string) (bool, error) {
	exists, err := s.repo.EmployeeExists(ctx, empID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrEmployeeNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	return s.repo.UpsertUser(ctx, empID, email, string(hash), DefaultRole)
}

// ResetPassword replaces the password for the account matching the email.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	if _, err := s.repo.FindUserByEmail(ctx, email); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordByEmail(ctx, email, string(hash))
}

// ChangePassword replaces the password after verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, empID int64, oldPassword, newPassword string) error {
	user, err := s.repo.FindUserByEmpID(ctx, empID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return shared.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordByEmpID(ctx, empID, string(hash))
}

// UpdateEmail replaces the account email.
func (s *Service) UpdateEmail(ctx context.Context, empID int64, newEmail string) error {
	return s.repo.UpdateEmail(ctx, empID, newEmail)
}

func (s *Service) issueOTP(ctx context.Context, empID int64, email string) error {
	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	if err := s.repo.InsertOTP(ctx, empID, code, time.Now().Add(s.cfg.OTPTTL)); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		s.logger.Error("send otp email", slog.Int64("emp_id", empID), slog.Any("error", err))
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

// generateOTP produces a random six digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func firstLetter(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return string(unicode.ToUpper([]rune(name)[0]))
}
