package user

import (
	"context"
	"strings"

	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/actionlog"
	"github.com/google/uuid"
)

const minPasswordLength = 8

type Service struct {
	repo    Repository
	hasher  PasswordHasher
	actions actionlog.Recorder
}

func NewService(repo Repository, hasher PasswordHasher, actions actionlog.Recorder) *Service {
	return &Service{repo: repo, hasher: hasher, actions: actions}
}

func (s *Service) List(ctx context.Context, session *access.SessionUser, base access.Filter) ([]User, error) {
	scope, err := access.ApplyRoleFilter(session, base)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope)
}

func (s *Service) Get(ctx context.Context, session *access.SessionUser, id string) (*User, error) {
	scope, err := access.ApplyRoleFilter(session, nil)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, scope)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, normalizeUsername(username))
}

func (s *Service) Create(ctx context.Context, input CreateInput, actor access.Actor) (*User, error) {
	username := normalizeUsername(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	role, err := access.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        input.Email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Role:         role,
		RamaID:       input.RamaID,
		FamilyID:     input.FamilyID,
		IsActive:     isActive,
		IsGranted:    input.IsGranted,
	}

	table := "users"
	err = s.actions.Track(ctx, actionlog.ActionUserCreate, actor, actionlog.Extra{
		TargetTable: &table,
		TargetID:    &user.ID,
		FamilyID:    user.FamilyID,
	}, func(ctx context.Context) (actionlog.Metadata, error) {
		if err := s.repo.Create(ctx, &user); err != nil {
			return nil, err
		}
		return actionlog.Metadata{"username": user.Username, "role": string(user.Role)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) Update(ctx context.Context, session *access.SessionUser, id string, input UpdateInput) (*User, error) {
	user, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		role, err := access.ParseRole(*input.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if input.Email != nil {
		user.Email = input.Email
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.RamaID != nil {
		user.RamaID = emptyToNil(*input.RamaID)
	}
	if input.FamilyID != nil {
		user.FamilyID = emptyToNil(*input.FamilyID)
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.IsGranted != nil {
		user.IsGranted = *input.IsGranted
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, session *access.SessionUser, id string) error {
	if session != nil && session.ID == id {
		return ErrCannotDeleteSelf
	}
	if _, err := s.Get(ctx, session, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func emptyToNil(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
