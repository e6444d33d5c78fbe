package person

import (
	"context"
	"strings"

	"family-dues-go/internal/domain/access"
	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, session *access.SessionUser, base access.Filter) ([]Person, error) {
	scope, err := access.ApplyRoleFilter(session, base)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope)
}

func (s *Service) Get(ctx context.Context, session *access.SessionUser, id string) (*Person, error) {
	scope, err := access.ApplyRoleFilter(session, nil)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, scope)
}

func (s *Service) Create(ctx context.Context, input Input) (*Person, error) {
	person := Person{ID: uuid.NewString()}
	if err := apply(&person, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

func (s *Service) Update(ctx context.Context, session *access.SessionUser, id string, input Input) (*Person, error) {
	person, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := apply(person, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}

func (s *Service) Delete(ctx context.Context, session *access.SessionUser, id string) error {
	if _, err := s.Get(ctx, session, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func apply(person *Person, input Input) error {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return ErrNameRequired
	}

	person.FirstName = firstName
	person.LastName = lastName
	person.FamilyID = input.FamilyID
	person.RamaID = input.RamaID
	person.DNI = input.DNI
	person.Email = input.Email
	person.Phone = input.Phone
	return nil
}
