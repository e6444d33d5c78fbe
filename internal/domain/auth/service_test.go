package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"family-dues-go/internal/apperr"
	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/user"
	"family-dues-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	byUsername map[string]user.User
	err        error
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	found, ok := f.byUsername[username]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &found, nil
}

func (f *fakeUsers) Get(_ context.Context, _ *access.SessionUser, id string) (*user.User, error) {
	for _, u := range f.byUsername {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

type fakeTokens struct {
	issued []access.SessionUser
}

func (f *fakeTokens) Issue(session access.SessionUser) (string, time.Time, error) {
	f.issued = append(f.issued, session)
	return "token-" + session.ID, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), nil
}

type plainPasswords struct{}

func (plainPasswords) Compare(hash, password string) bool {
	return hash == "hash:"+password
}

func newService() (*Service, *fakeUsers, *fakeTokens) {
	family := "fam-1"
	users := &fakeUsers{byUsername: map[string]user.User{
		"ana":   {ID: "u-1", Username: "ana", PasswordHash: "hash:secreto123", Role: access.RoleFamily, FamilyID: &family, IsActive: true},
		"pedro": {ID: "u-2", Username: "pedro", PasswordHash: "hash:secreto123", Role: access.RoleBeneficiario},
	}}
	tokens := &fakeTokens{}
	return NewService(users, tokens, plainPasswords{}, logger.Discard()), users, tokens
}

func TestLoginIssuesTokenForSession(t *testing.T) {
	service, _, tokens := newService()

	result, err := service.Login(context.Background(), Credentials{Username: "ana", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "token-u-1", result.Token)
	assert.Equal(t, "u-1", result.User.ID)

	require.Len(t, tokens.issued, 1)
	assert.Equal(t, access.RoleFamily, tokens.issued[0].Role)
	assert.Equal(t, "fam-1", *tokens.issued[0].FamilyID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	service, _, tokens := newService()
	ctx := context.Background()

	_, err := service.Login(ctx, Credentials{Username: "ana", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = service.Login(ctx, Credentials{Username: "nobody", Password: "secreto123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = service.Login(ctx, Credentials{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	assert.Empty(t, tokens.issued)
}

func TestLoginRejectsInactiveUsers(t *testing.T) {
	service, _, _ := newService()

	_, err := service.Login(context.Background(), Credentials{Username: "pedro", Password: "secreto123"})
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestLoginPropagatesStoreErrors(t *testing.T) {
	service, users, _ := newService()
	users.err = errors.New("db down")

	_, err := service.Login(context.Background(), Credentials{Username: "ana", Password: "secreto123"})
	assert.EqualError(t, err, "db down")
}

func TestMe(t *testing.T) {
	service, _, _ := newService()

	found, err := service.Me(context.Background(), &access.SessionUser{ID: "u-1", Role: access.RoleFamily})
	require.NoError(t, err)
	assert.Equal(t, "ana", found.Username)

	_, err = service.Me(context.Background(), nil)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
