package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendora/internal/integrity"
	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
	"github.com/angelmondragon/vendora/pkg/logger"
	"github.com/angelmondragon/vendora/pkg/security"
)

const minPasswordLength = 8

// ServiceParams groups dependencies for the users service.
type ServiceParams struct {
	Store  *integrity.Store
	Repo   *Repository
	Hasher *security.Hasher
	Logger *logger.Logger
}

// Service exposes account operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	GetByEmail(ctx context.Context, email string) (*UserDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*UserDTO, error)
	ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	SetDefault(ctx context.Context, id uuid.UUID, kind enums.EntityKind, targetID uuid.UUID) (*UserDTO, error)
	ClearDefault(ctx context.Context, id uuid.UUID, kind enums.EntityKind) (*UserDTO, error)
}

type service struct {
	store  *integrity.Store
	repo   *Repository
	hasher *security.Hasher
	logg   *logger.Logger
}

// NewService builds a users service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("integrity store required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{store: params.Store, repo: params.Repo, hasher: params.Hasher, logg: logg}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.Violation(pkgerrors.CodeValidation, enums.EntityKindUser.String(), "password", nil,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := input.toModel(hash)
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user registered")
	return FromModel(user), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*UserDTO, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	user, err := integrity.UpdateAs(ctx, s.store, id, func(u *models.User) error {
		if !u.IsActive {
			return pkgerrors.New(pkgerrors.CodeValidation, "user is deactivated")
		}
		input.apply(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

// ChangePassword verifies the current password before storing a hash of next.
func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	if len(next) < minPasswordLength {
		return pkgerrors.Violation(pkgerrors.CodeValidation, enums.EntityKindUser.String(), "password", nil,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	_, err = integrity.UpdateAs(ctx, s.store, id, func(u *models.User) error {
		ok, err := security.VerifyPassword(current, u.PasswordHash)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "current password is incorrect")
		}
		u.PasswordHash = hash
		return nil
	})
	return err
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, enums.EntityKindUser, id); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithUserID(ctx, id.String()), "user deactivated")
	return nil
}

func (s *service) SetDefault(ctx context.Context, id uuid.UUID, kind enums.EntityKind, targetID uuid.UUID) (*UserDTO, error) {
	user, err := s.store.SetDefault(ctx, id, kind, targetID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) ClearDefault(ctx context.Context, id uuid.UUID, kind enums.EntityKind) (*UserDTO, error) {
	user, err := s.store.ClearDefault(ctx, id, kind)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}
