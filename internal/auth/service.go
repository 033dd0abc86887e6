// Package auth implements the session lifecycle flows: credential
// login against the remote user collection, registration, profile
// updates and the advisory email uniqueness check shared by all of
// them.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/server-craftsman/manage-post/internal/models"
	"github.com/server-craftsman/manage-post/internal/remote"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorizedRole   = errors.New("only admin and customer users can log in")
	ErrDuplicateEmail     = errors.New("email already exists")
)

type Service struct {
	store *remote.Client
}

func NewService(store *remote.Client) *Service {
	return &Service{store: store}
}

// Login fetches the whole user collection (the store offers no
// filtered lookup), takes the first record whose email matches exactly
// and whose stored hash verifies against the claimed password. The
// role gate runs after the credential match; a matched record with an
// unknown role never becomes a session.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		u := users[i]
		if u.Email != email {
			continue
		}
		if VerifyPassword(u.Password, password) != nil {
			continue
		}

		if !models.ValidRole(u.Role) {
			return nil, ErrUnauthorizedRole
		}
		return &u, nil
	}

	return nil, ErrInvalidCredentials
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Avatar   string // data-URI or URL, already encoded by the caller
	Role     string
}

// Register creates a new user record with a client-generated ID and
// treats the store's echoed record as the new session user. The
// duplicate-email check runs before the create request is sent; it is
// advisory only, a concurrent create can still slip past it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {

	taken, err := s.emailTaken(ctx, in.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateEmail
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = models.RoleCustomer
	}

	now := time.Now()
	user := models.User{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Email:      in.Email,
		Password:   hash,
		Role:       role,
		Avatar:     in.Avatar,
		CreateDate: now,
		UpdateDate: now,
	}

	return s.store.CreateUser(ctx, user)
}

// ProfileChanges is a partial change set; nil fields are left as they
// are on the remote record.
type ProfileChanges struct {
	Name     *string
	Email    *string
	Avatar   *string
	Password *string // plaintext, hashed before transmission
	Role     *string // admin-managed flows only
}

// UpdateProfile applies a partial change set onto the current remote
// record and writes it back as a whole-record replace, always bumping
// UpdateDate. Reconciling the caller's session is the handler's job,
// and only when the updated ID is the session's own.
func (s *Service) UpdateProfile(ctx context.Context, id string, changes ProfileChanges) (*models.User, error) {

	current, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if changes.Email != nil && *changes.Email != current.Email {
		taken, err := s.emailTaken(ctx, *changes.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateEmail
		}
		current.Email = *changes.Email
	}

	if changes.Name != nil {
		current.Name = *changes.Name
	}
	if changes.Avatar != nil {
		current.Avatar = *changes.Avatar
	}
	if changes.Password != nil {
		hash, err := HashPassword(*changes.Password)
		if err != nil {
			return nil, err
		}
		current.Password = hash
	}
	if changes.Role != nil {
		if !models.ValidRole(*changes.Role) {
			return nil, ErrUnauthorizedRole
		}
		current.Role = *changes.Role
	}

	current.UpdateDate = time.Now()

	return s.store.ReplaceUser(ctx, *current)
}

// CheckEmailExists is the advisory uniqueness pre-flight: it fetches
// all users and compares case-sensitively. A "false" result is a hint,
// not a guarantee; the store enforces nothing.
func (s *Service) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	return s.emailTaken(ctx, email, "")
}

func (s *Service) emailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// CheckOldEmail verifies a claimed current email against the session
// snapshot before an email change is allowed.
func CheckOldEmail(u models.User, claimed string) bool {
	return u.Email == claimed
}

// CheckOldPassword verifies a claimed current password against the
// session snapshot's stored hash.
func CheckOldPassword(u models.User, claimed string) bool {
	return VerifyPassword(u.Password, claimed) == nil
}

// ListUsers exposes the full user collection for the admin views.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// CreateUser is the admin-side record creation; same flow as Register
// but the role comes from the admin form.
func (s *Service) CreateUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !models.ValidRole(in.Role) {
		return nil, ErrUnauthorizedRole
	}
	return s.Register(ctx, in)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.store.DeleteUser(ctx, id)
}
