package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"paneteria_admin/internal/auth"
	"paneteria_admin/internal/models"
	"paneteria_admin/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = uint(len(r.users) + 1)
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, errors.New("not found")
	}
	return user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.users[user.Username] = user
	return nil
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	repo := &fakeUserRepo{users: map[string]*models.User{}}
	svc := services.NewAuthService(repo, "test-secret", time.Hour)

	admin := &models.User{Username: "admin", Role: string(models.Admin), IsActive: true}
	require.NoError(t, svc.CreateUser(ctx, admin, "s3cret"))
	assert.NotEqual(t, "s3cret", admin.PasswordHash, "password must be stored hashed")

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid_credentials", username: "admin", password: "s3cret"},
		{name: "wrong_password", username: "admin", password: "wrong", wantErr: services.ErrInvalidCredentials},
		{name: "unknown_user", username: "ghost", password: "s3cret", wantErr: services.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, user, err := svc.Login(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, user)
			assert.Equal(t, "admin", user.Username)

			claims, err := auth.ParseToken([]byte("test-secret"), token)
			require.NoError(t, err)
			assert.Equal(t, admin.ID, claims.UserID)
			assert.Equal(t, string(models.Admin), claims.Role)
		})
	}
}

func TestAuthService_LoginInactiveUser(t *testing.T) {
	ctx := context.Background()
	repo := &fakeUserRepo{users: map[string]*models.User{}}
	svc := services.NewAuthService(repo, "test-secret", time.Hour)

	former := &models.User{Username: "former", Role: string(models.Admin), IsActive: false}
	require.NoError(t, svc.CreateUser(ctx, former, "s3cret"))

	_, _, err := svc.Login(ctx, "former", "s3cret")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	token, _, err := auth.GenerateToken([]byte("right"), 1, "admin", string(models.Admin), time.Hour)
	require.NoError(t, err)

	_, err = auth.ParseToken([]byte("wrong"), token)
	assert.Error(t, err)
}
