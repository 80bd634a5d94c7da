package auth

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/bedolaga/bedolaga-console/internal/shared"
	_ "github.com/bedolaga/bedolaga-console/testing"
)

type fakeRepo struct {
	byEmail map[string]*Admin
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (*Admin, error) {
	admin, ok := f.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return admin, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id int64) (*Admin, error) {
	for _, admin := range f.byEmail {
		if admin.ID == id {
			return admin, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRepo) Create(_ context.Context, admin *Admin) (int64, error) {
	f.byEmail[admin.Email] = admin
	return int64(len(f.byEmail)), nil
}

func (f *fakeRepo) Count(context.Context) (int64, error) {
	return int64(len(f.byEmail)), nil
}

func newFakeRepo(t *testing.T) *fakeRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &fakeRepo{byEmail: map[string]*Admin{
		"root@example.com": {ID: 1, Email: "root@example.com", PasswordHash: string(hash), IsActive: true},
		"gone@example.com": {ID: 2, Email: "gone@example.com", PasswordHash: string(hash), IsActive: false},
	}}
}

func TestAuthenticate(t *testing.T) {
	service := NewService(newFakeRepo(t))

	admin, err := service.Authenticate(context.Background(), "root@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if admin.ID != 1 {
		t.Fatalf("admin.ID = %d, want 1", admin.ID)
	}
}

func TestAuthenticateRejections(t *testing.T) {
	service := NewService(newFakeRepo(t))
	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "root@example.com", "incorrect"},
		{"unknown email", "nobody@example.com", "correct horse"},
		{"inactive account", "gone@example.com", "correct horse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Authenticate(context.Background(), tc.email, tc.password); err != shared.ErrInvalidCredentials {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAdminByIDHidesInactive(t *testing.T) {
	service := NewService(newFakeRepo(t))
	if _, err := service.AdminByID(context.Background(), 2); err != shared.ErrNotFound {
		t.Fatalf("inactive admin should be hidden, got %v", err)
	}
}
