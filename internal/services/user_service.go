package services

import (
	"errors"
	"strings"

	apperrors "mykhata/internal/errors"
	"mykhata/internal/models"
	"mykhata/internal/password"
	"mykhata/internal/store"
	"mykhata/internal/validator"
)

// userService handles signup and login against a credential store.
type userService struct {
	creds store.CredentialStore
}

// NewUserService creates a new UserServicer.
func NewUserService(creds store.CredentialStore) UserServicer {
	return &userService{creds: creds}
}

// CreateUser registers a new user
func (s *userService) CreateUser(input SignupInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.ParentUsername = strings.TrimSpace(input.ParentUsername)

	if !validator.ValidUsername(input.Username) {
		return nil, apperrors.ErrInvalidUsername
	}
	if !validator.ValidPassword(input.Password) {
		return nil, apperrors.ErrInvalidPassword
	}

	if _, err := s.creds.FindByUsername(input.Username); err == nil {
		return nil, apperrors.ErrDuplicateUsername
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, asAppError(err)
	}

	role := models.RoleOwner
	if input.ParentUsername != "" {
		parent, err := s.creds.FindByUsername(input.ParentUsername)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return nil, apperrors.ErrParentNotFound
			}
			return nil, asAppError(err)
		}
		if parent.Role != models.RoleOwner {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a sub-user cannot own other users")
		}
		role = models.RoleMember
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := models.User{
		Username:       input.Username,
		PasswordHash:   hash,
		Name:           strings.TrimSpace(input.Name),
		Mobile:         strings.TrimSpace(input.Mobile),
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		Role:           role,
		ParentUsername: input.ParentUsername,
	}
	if err := s.creds.Create(user); err != nil {
		return nil, asAppError(err)
	}

	created, err := s.creds.FindByUsername(user.Username)
	if err != nil {
		return nil, asAppError(err)
	}
	return created, nil
}

// FindUser returns the user whose username and password both match. Unknown
// users and wrong passwords are indistinguishable to the caller.
func (s *userService) FindUser(username, plain string) (*models.User, error) {
	user, err := s.creds.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, asAppError(err)
	}

	if !password.Verify(user.PasswordHash, plain) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// GetUser retrieves a user by username
func (s *userService) GetUser(username string) (*models.User, error) {
	user, err := s.creds.FindByUsername(username)
	if err != nil {
		return nil, asAppError(err)
	}
	return user, nil
}
