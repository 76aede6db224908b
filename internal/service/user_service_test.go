package service

import (
	"context"
	"errors"
	"testing"

	dom "github.com/rafdmrs/Faelist-todo-App/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	nextID int64
	byMail map[string]dom.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byMail: make(map[string]dom.User)}
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	u, ok := r.byMail[email]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *fakeUserRepo) Create(_ context.Context, u dom.User) (dom.User, error) {
	if _, ok := r.byMail[u.Email]; ok {
		return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	}
	r.nextID++
	u.ID = r.nextID
	r.byMail[u.Email] = u
	return u, nil
}

func TestRegisterStoresNormalizedEmail(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	u, err := svc.Register(context.Background(), "Ada", "  Ada@Example.COM ", "correct horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.Name != "Ada" {
		t.Fatalf("name = %q", u.Name)
	}
	if u.PasswordHash == "correct horse" || u.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct horse")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	if _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	// Same address with different casing still collides.
	_, err := svc.Register(context.Background(), "Other Ada", "ADA@example.com", "battery staple")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	if _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("valid credentials, case-insensitive email", func(t *testing.T) {
		u, err := svc.Authenticate(context.Background(), "Ada@Example.com", "correct horse")
		if err != nil {
			t.Fatalf("authenticate: %v", err)
		}
		if u.Email != "ada@example.com" {
			t.Fatalf("got user %+v", u)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "ada@example.com", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email looks like wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "nobody@example.com", "correct horse")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("blank input", func(t *testing.T) {
		if _, err := svc.Authenticate(context.Background(), "", ""); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}
