package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/adts-project/adts/internal/shared"
	_ "github.com/adts-project/adts/internal/testing/guard"
)

type storedOTP struct {
	empID     int64
	code      string
	expiresAt time.Time
}

type memoryRepo struct {
	employees map[string]EmployeeRef
	users     map[int64]User
	otps      []storedOTP
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		employees: map[string]EmployeeRef{},
		users:     map[int64]User{},
		nextID:    1,
	}
}

func (m *memoryRepo) FindEmployeeByIDNumber(_ context.Context, idNumber string) (EmployeeRef, error) {
	ref, ok := m.employees[idNumber]
	if !ok {
		return EmployeeRef{}, ErrEmployeeNotFound
	}
	return ref, nil
}

func (m *memoryRepo) EmployeeExists(_ context.Context, empID int64) (bool, error) {
	for _, ref := range m.employees {
		if ref.EmpID == empID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) FindUserByEmpID(_ context.Context, empID int64) (User, error) {
	u, ok := m.users[empID]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (m *memoryRepo) FindUserByEmail(_ context.Context, email string) (User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrEmailNotFound
}

func (m *memoryRepo) UpsertUser(_ context.Context, empID int64, email, passwordHash string, role int) (bool, error) {
	if u, ok := m.users[empID]; ok {
		u.Email = email
		u.PasswordHash = passwordHash
		u.Role = role
		m.users[empID] = u
		return false, nil
	}
	m.users[empID] = User{ID: m.nextID, EmpID: empID, Email: email, PasswordHash: passwordHash, Role: role}
	m.nextID++
	return true, nil
}

func (m *memoryRepo) UpdatePasswordByEmpID(_ context.Context, empID int64, passwordHash string) error {
	u, ok := m.users[empID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	m.users[empID] = u
	return nil
}

func (m *memoryRepo) UpdatePasswordByEmail(_ context.Context, email, passwordHash string) error {
	for id, u := range m.users {
		if u.Email == email {
			u.PasswordHash = passwordHash
			m.users[id] = u
			return nil
		}
	}
	return ErrEmailNotFound
}

func (m *memoryRepo) UpdateEmail(_ context.Context, empID int64, email string) error {
	u, ok := m.users[empID]
	if !ok {
		return ErrUserNotFound
	}
	u.Email = email
	m.users[empID] = u
	return nil
}

func (m *memoryRepo) InsertOTP(_ context.Context, empID int64, code string, expiresAt time.Time) error {
	m.otps = append(m.otps, storedOTP{empID: empID, code: code, expiresAt: expiresAt})
	return nil
}

func (m *memoryRepo) ConsumeOTP(_ context.Context, empID int64, code string) error {
	matched := false
	for _, o := range m.otps {
		if o.empID == empID && o.code == code && o.expiresAt.After(time.Now()) {
			matched = true
			break
		}
	}
	if !matched {
		return ErrOTPInvalid
	}
	kept := m.otps[:0]
	for _, o := range m.otps {
		if o.empID != empID {
			kept = append(kept, o)
		}
	}
	m.otps = kept
	return nil
}

type recordingMailer struct {
	sent []struct{ email, code string }
}

func (r *recordingMailer) SendOTP(_ context.Context, email, code string) error {
	r.sent = append(r.sent, struct{ email, code string }{email, code})
	return nil
}

const testSecret = "test-secret"

func newTestService(repo *memoryRepo) (*Service, *recordingMailer) {
	mailer := &recordingMailer{}
	svc := NewService(slog.Default(), repo, mailer, Config{JWTSecret: testSecret})
	return svc, mailer
}

func seedEmployee(repo *memoryRepo) {
	repo.employees["2021-0042"] = EmployeeRef{EmpID: 7, FirstName: "maria", CurrentDptID: 3}
}

func seedUser(t *testing.T, repo *memoryRepo, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users[7] = User{ID: 1, EmpID: 7, Email: "maria@example.com", PasswordHash: string(hash), Role: DefaultRole}
}

func TestLoginFirstTimeWithDefaultPassword(t *testing.T) {
	repo := newMemoryRepo()
	seedEmployee(repo)
	svc, _ := newTestService(repo)

	result, err := svc.Login(context.Background(), "2021-0042", "2021-0042")
	require.ErrorIs(t, err, ErrFirstLogin)
	require.Equal(t, int64(7), result.EmpID)
	require.Equal(t, "M", result.FirstLetter)
	require.Equal(t, int64(3), result.CurrentDptID)
	require.Empty(t, result.Token, "no token before account setup")
}

func TestLoginFirstTimeWrongPassword(t *testing.T) {
	repo := newMemoryRepo()
	seedEmployee(repo)
	svc, _ := newTestService(repo)

	_, err := svc.Login(context.Background(), "2021-0042", "something-else")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginUnknownIDNumber(t *testing.T) {
	repo := newMemoryRepo()
	svc, _ := newTestService(repo)

	_, err := svc.Login(context.Background(), "0000-0000", "whatever")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginIssuesValidToken(t *testing.T) {
	repo := newMemoryRepo()
	seedEmployee(repo)
	seedUser(t, repo, "s3cret-pass")
	svc, _ := newTestService(repo)

	result, err := svc.Login(context.Background(), "2021-0042", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	claims, err := ValidateToken(testSecret, result.Token)
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.EmpID)
	require.Equal(t, "maria@example.com", claims.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMemoryRepo()
	seedEmployee(repo)
	seedUser(t, repo, "s3cret-pass")
	svc, _ := newTestService(repo)

	_, err := svc.Login(context.Background(), "2021-0042", "wrong")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRequestOTPSendsCode(t *testing.T) {
	repo := newMemoryRepo()
	seedEmployee(repo)
	seedUser(t, repo, "s3cret-pass")
	svc, mailer := newTestService(repo)

	employee, err := svc.RequestOTP(context.Background(), "maria@example.com", "2021-0042")
	require.NoError(t, err)
	require.Equal(t, int64(7), employee.EmpID)

	require.Len(t, mailer.sent, 1)
	require.Equal(t, "maria@example.com", mailer.sent[0].email)
	require.Len(t, mailer.sent[0].code, 6)
	require.Len(t, repo.otps, 1)
	require.Equal(t, mailer.sent[0].code, repo.otps[0].code)
}

func TestRequestOTPEmailMismatch(t *testing.T) {
	repo := newMemoryRepo()
	seedEmployee(repo)
	seedUser(t, repo, "s3cret-pass")
	svc, mailer := newTestService(repo)

	_, err := svc.RequestOTP(context.Background(), "other@example.com", "2021-0042")
	require.ErrorIs(t, err, ErrEmailMismatch)
	require.Empty(t, mailer.sent)
}

func TestVerifyOTPConsumesCode(t *testing.T) {
	repo := newMemoryRepo()
	seedEmployee(repo)
	seedUser(t, repo, "s3cret-pass")
	svc, mailer := newTestService(repo)

	_, err := svc.RequestOTP(context.Background(), "maria@example.com", "2021-0042")
	require.NoError(t, err)
	code := mailer.sent[0].code

	result, err := svc.VerifyOTP(context.Background(), 7, code)
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	// A consumed code cannot be replayed.
	_, err = svc.VerifyOTP(context.Background(), 7, code)
	require.ErrorIs(t, err, ErrOTPInvalid)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	repo := newMemoryRepo()
	seedEmployee(repo)
	seedUser(t, repo, "s3cret-pass")
	svc, _ := newTestService(repo)

	_, err := svc.VerifyOTP(context.Background(), 7, "000000")
	require.ErrorIs(t, err, ErrOTPInvalid)
}

func TestUpdateAccountCreatesThenUpdates(t *testing.T) {
	repo := newMemoryRepo()
	seedEmployee(repo)
	svc, _ := newTestService(repo)

	created, err := svc.UpdateAccount(context.Background(), 7, "maria@example.com", "brand-new")
	require.NoError(t, err)
	require.True(t, created)

	created, err = svc.UpdateAccount(context.Background(), 7, "maria@example.com", "changed-again")
	require.NoError(t, err)
	require.False(t, created)

	_, err = svc.Login(context.Background(), "2021-0042", "changed-again")
	require.NoError(t, err)
}

func TestUpdateAccountUnknownEmployee(t *testing.T) {
	repo := newMemoryRepo()
	svc, _ := newTestService(repo)

	_, err := svc.UpdateAccount(context.Background(), 99, "x@example.com", "pw")
	require.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestChangePasswordRequiresOldPassword(t *testing.T) {
	repo := newMemoryRepo()
	seedEmployee(repo)
	seedUser(t, repo, "old-pass")
	svc, _ := newTestService(repo)

	err := svc.ChangePassword(context.Background(), 7, "wrong-old", "new-pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), 7, "old-pass", "new-pass")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "2021-0042", "new-pass")
	require.NoError(t, err)
}

func TestResetPasswordByEmail(t *testing.T) {
	repo := newMemoryRepo()
	seedEmployee(repo)
	seedUser(t, repo, "old-pass")
	svc, _ := newTestService(repo)

	err := svc.ResetPassword(context.Background(), "missing@example.com", "new-pass")
	require.ErrorIs(t, err, ErrEmailNotFound)

	err = svc.ResetPassword(context.Background(), "maria@example.com", "new-pass")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "2021-0042", "new-pass")
	require.NoError(t, err)
}
