package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/akmatoff/auth-api/internal/auth"
	"github.com/akmatoff/auth-api/internal/domain"
	"github.com/akmatoff/auth-api/internal/usecase"
)

// ---- fakes ----

type fakeUserRepo struct {
	create      func(ctx context.Context, user *domain.User) (*domain.User, error)
	findByEmail func(ctx context.Context, email string) (*domain.User, error)
	findByID    func(ctx context.Context, id string) (*domain.User, error)
	findAll     func(ctx context.Context) ([]domain.User, error)
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.create(ctx, user)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.findAll(ctx)
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) { return 0, nil }

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	if s.send == nil {
		return nil
	}
	return s.send(ctx, to, subject, body)
}

// ---- helpers ----

const testJWTKey = "test-jwt-secret-at-least-32-chars!!"

func newUsecase(repo *fakeUserRepo, sender *fakeEmailSender) *usecase.AuthUsecase {
	hasher := auth.NewHasher(2)
	tokens := auth.NewTokenService([]byte(testJWTKey))
	return usecase.NewAuthUsecase(repo, hasher, tokens, sender, slog.Default())
}

var signupInput = usecase.SignupInput{
	Email:    "test@example.com",
	Password: "correct horse battery",
	Name:     "Test User",
}

// ---- Signup ----

func TestSignup_HashesPasswordBeforeStoring(t *testing.T) {
	var stored *domain.User

	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
		create: func(_ context.Context, user *domain.User) (*domain.User, error) {
			user.ID = "user-1"
			stored = user
			return user, nil
		},
	}

	result, err := newUsecase(repo, &fakeEmailSender{}).Signup(context.Background(), signupInput)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.PasswordHash == signupInput.Password {
		t.Fatal("plaintext password was stored")
	}
	if !strings.HasPrefix(stored.PasswordHash, "$argon2id$") {
		t.Errorf("stored hash %q is not argon2id encoded", stored.PasswordHash)
	}
	if result.Token == "" {
		t.Error("expected a token in the signup result")
	}
	if result.UserID != "user-1" {
		t.Errorf("user id = %q, want user-1", result.UserID)
	}
}

func TestSignup_EmailTaken_ReturnsErrEmailTaken(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: signupInput.Email}, nil
		},
	}

	_, err := newUsecase(repo, &fakeEmailSender{}).Signup(context.Background(), signupInput)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("want ErrEmailTaken, got %v", err)
	}
}

func TestSignup_LookupFailure_Propagates(t *testing.T) {
	repoErr := errors.New("db down")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, repoErr
		},
	}

	_, err := newUsecase(repo, &fakeEmailSender{}).Signup(context.Background(), signupInput)
	if !errors.Is(err, repoErr) {
		t.Errorf("want wrapped repoErr, got %v", err)
	}
}

func TestSignup_EmailFailure_DoesNotFailSignup(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
		create: func(_ context.Context, user *domain.User) (*domain.User, error) {
			user.ID = "user-1"
			return user, nil
		},
	}
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, _ string) error {
			return errors.New("smtp unavailable")
		},
	}

	if _, err := newUsecase(repo, sender).Signup(context.Background(), signupInput); err != nil {
		t.Errorf("signup failed on email error: %v", err)
	}
}

// ---- Login ----

func TestLogin_CorrectPassword_ReturnsVerifiableToken(t *testing.T) {
	_, user := signedUpUser(t)
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return user, nil
		},
	}
	uc := newUsecase(repo, &fakeEmailSender{})

	result, err := uc.Login(context.Background(), user.Email, signupInput.Password)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := auth.NewTokenService([]byte(testJWTKey)).Verify(result.Token)
	if err != nil {
		t.Fatalf("returned token does not verify: %v", err)
	}
	if claims.Subject != user.ID {
		t.Errorf("sub = %q, want %q", claims.Subject, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("email = %q, want %q", claims.Email, user.Email)
	}
}

func TestLogin_WrongPassword_ReturnsErrInvalidCredentials(t *testing.T) {
	_, user := signedUpUser(t)
	var mutated bool
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return user, nil
		},
		create: func(_ context.Context, _ *domain.User) (*domain.User, error) {
			mutated = true
			return nil, nil
		},
	}

	_, err := newUsecase(repo, &fakeEmailSender{}).Login(context.Background(), user.Email, "wrong password!")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
	if mutated {
		t.Error("login mutated the store")
	}
}

func TestLogin_UnknownEmail_PropagatesNotFound(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}

	_, err := newUsecase(repo, &fakeEmailSender{}).Login(context.Background(), "nobody@example.com", "pw")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want wrapped ErrUserNotFound, got %v", err)
	}
}

// ---- FindByID / FindAll ----

func TestFindByID_ReturnsStoredName(t *testing.T) {
	repo := &fakeUserRepo{
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			if id != "user-1" {
				return nil, domain.ErrUserNotFound
			}
			return &domain.User{ID: "user-1", Name: "Test User"}, nil
		},
	}
	uc := newUsecase(repo, &fakeEmailSender{})

	name, err := uc.FindByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Test User" {
		t.Errorf("name = %q, want %q", name, "Test User")
	}

	if _, err := uc.FindByID(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}

func TestFindAll_ReturnsUsers(t *testing.T) {
	repo := &fakeUserRepo{
		findAll: func(_ context.Context) ([]domain.User, error) {
			return []domain.User{{ID: "a"}, {ID: "b"}}, nil
		},
	}

	users, err := newUsecase(repo, &fakeEmailSender{}).FindAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("len(users) = %d, want 2", len(users))
	}
}

// signedUpUser runs a real signup against a capturing repo and returns the
// stored user, so login tests verify against a genuine argon2id hash.
func signedUpUser(t *testing.T) (*usecase.AuthUsecase, *domain.User) {
	t.Helper()

	var stored *domain.User
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
		create: func(_ context.Context, user *domain.User) (*domain.User, error) {
			user.ID = "user-1"
			stored = user
			return user, nil
		},
	}
	uc := newUsecase(repo, &fakeEmailSender{})
	if _, err := uc.Signup(context.Background(), signupInput); err != nil {
		t.Fatalf("signup: %v", err)
	}
	return uc, stored
}
