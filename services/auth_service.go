package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/robtee24/tee24-winterleague-sub000/models"
	"github.com/robtee24/tee24-winterleague-sub000/repositories"
	"github.com/robtee24/tee24-winterleague-sub000/utils"
)

const (
	minPasswordLength = 8
	tokenLifetime     = 72 * time.Hour
)

type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type AuthService interface {
	// Register creates a player account and signs it in. The configured
	// bootstrap admin email registers as an admin instead.
	Register(ctx context.Context, input RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, creds models.Credentials) (*models.User, string, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	// UpdateUserRole promotes or demotes another account. Admins cannot
	// change their own role, so a league always keeps at least one admin.
	UpdateUserRole(ctx context.Context, actorID, userID int, role string) (*models.User, error)
}

type authService struct {
	users      repositories.UserRepository
	jwtSecret  []byte
	adminEmail string
}

// NewAuthService takes the bootstrap admin email; an empty value means
// every registration starts as a player.
func NewAuthService(users repositories.UserRepository, jwtSecret, adminEmail string) AuthService {
	return &authService{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if firstName == "" || lastName == "" {
		return nil, "", ErrNameRequired
	}
	if !utils.IsValidEmail(email) {
		return nil, "", ErrEmailInvalid
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	role := models.RolePlayer
	if s.adminEmail != "" && email == s.adminEmail {
		role = models.RoleAdmin
	}

	user := &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !utils.CheckPasswordHash(creds.Password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateUserRole(ctx context.Context, actorID, userID int, role string) (*models.User, error) {
	switch role {
	case models.RoleAdmin, models.RolePlayer:
	default:
		return nil, ErrRoleInvalid
	}
	if actorID == userID {
		return nil, ErrForbiddenOperation
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Role = role
	return user, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
