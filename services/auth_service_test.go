package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robtee24/tee24-winterleague-sub000/models"
	"github.com/robtee24/tee24-winterleague-sub000/repositories"
)

func TestRegister_Validation(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, "test-secret", "")

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{
			name:    "missing name",
			input:   RegisterInput{Email: "sam@example.com", Password: "longenough"},
			wantErr: ErrNameRequired,
		},
		{
			name:    "bad email",
			input:   RegisterInput{FirstName: "Sam", LastName: "Snead", Email: "not-an-email", Password: "longenough"},
			wantErr: ErrEmailInvalid,
		},
		{
			name:    "short password",
			input:   RegisterInput{FirstName: "Sam", LastName: "Snead", Email: "sam@example.com", Password: "short"},
			wantErr: ErrPasswordTooShort,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	var stored *models.User
	users := &fakeUserRepo{
		createFunc: func(_ context.Context, u *models.User) error {
			u.ID = 12
			stored = u
			return nil
		},
		getByEmailFunc: func(_ context.Context, email string) (*models.User, error) {
			if stored != nil && stored.Email == email {
				return stored, nil
			}
			return nil, repositories.ErrUserNotFound
		},
	}
	svc := NewAuthService(users, "test-secret", "")

	user, token, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Sam",
		LastName:  "Snead",
		Email:     "Sam@Example.com",
		Password:  "longenough",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RolePlayer, user.Role)
	assert.Equal(t, "sam@example.com", user.Email, "email is normalized")
	assert.NotEqual(t, "longenough", user.PasswordHash)

	_, token, err = svc.Login(context.Background(), models.Credentials{Email: "sam@example.com", Password: "longenough"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(context.Background(), models.Credentials{Email: "sam@example.com", Password: "wrongpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), models.Credentials{Email: "nobody@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_EmailTaken(t *testing.T) {
	users := &fakeUserRepo{
		createFunc: func(context.Context, *models.User) error {
			return repositories.ErrUserEmailConflict
		},
	}
	svc := NewAuthService(users, "test-secret", "")

	_, _, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Sam", LastName: "Snead", Email: "sam@example.com", Password: "longenough",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_AdminBootstrap(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, "test-secret", "Commish@Example.com")

	admin, _, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Pat", LastName: "Vardon", Email: "commish@example.com", Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role, "the bootstrap email registers as admin")

	player, _, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Sam", LastName: "Snead", Email: "sam@example.com", Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RolePlayer, player.Role)
}

func TestUpdateUserRole(t *testing.T) {
	newService := func() (AuthService, *[]string) {
		var roleWrites []string
		users := &fakeUserRepo{
			getByIDFunc: func(_ context.Context, id int) (*models.User, error) {
				if id == 12 {
					return &models.User{ID: 12, Email: "sam@example.com", Role: models.RolePlayer}, nil
				}
				return nil, repositories.ErrUserNotFound
			},
			updateRoleFunc: func(_ context.Context, id int, role string) error {
				roleWrites = append(roleWrites, role)
				return nil
			},
		}
		return NewAuthService(users, "test-secret", ""), &roleWrites
	}

	t.Run("promotes a player", func(t *testing.T) {
		svc, writes := newService()
		user, err := svc.UpdateUserRole(context.Background(), 1, 12, models.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, user.Role)
		assert.Equal(t, []string{models.RoleAdmin}, *writes)
	})

	t.Run("same role is a no-op", func(t *testing.T) {
		svc, writes := newService()
		user, err := svc.UpdateUserRole(context.Background(), 1, 12, models.RolePlayer)
		require.NoError(t, err)
		assert.Equal(t, models.RolePlayer, user.Role)
		assert.Empty(t, *writes)
	})

	t.Run("unknown role", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.UpdateUserRole(context.Background(), 1, 12, "superuser")
		assert.ErrorIs(t, err, ErrRoleInvalid)
	})

	t.Run("own role is off limits", func(t *testing.T) {
		svc, writes := newService()
		_, err := svc.UpdateUserRole(context.Background(), 12, 12, models.RoleAdmin)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
		assert.Empty(t, *writes)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.UpdateUserRole(context.Background(), 1, 99, models.RoleAdmin)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
