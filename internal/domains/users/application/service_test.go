package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-pos-api-server/internal/domains/users/adapters/memory"
	"github.com/Apurer/go-pos-api-server/internal/domains/users/domain"
	"github.com/Apurer/go-pos-api-server/internal/domains/users/ports"
)

func newUserService(t *testing.T) *Service {
	t.Helper()
	return NewService(memory.NewRepository(), memory.NewSessionStore())
}

func mustUser(t *testing.T, username, password string, role domain.Role) *domain.User {
	t.Helper()
	user, err := domain.NewUser(0, username, password, role)
	require.NoError(t, err)
	return user
}

func TestCreateUser_HashesPassword(t *testing.T) {
	svc := newUserService(t)

	saved, err := svc.CreateUser(context.Background(), mustUser(t, "dana", "hunter22", domain.RoleCashier))
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	require.NotEqual(t, "hunter22", saved.PasswordHash)
	require.True(t, saved.CheckPassword("hunter22"))
	require.False(t, saved.CheckPassword("wrong"))
}

func TestCreateUser_Validation(t *testing.T) {
	_, err := domain.NewUser(0, "", "hunter22", domain.RoleCashier)
	require.ErrorIs(t, err, domain.ErrEmptyUsername)

	_, err = domain.NewUser(0, "dana", "abc", domain.RoleCashier)
	require.ErrorIs(t, err, domain.ErrWeakPassword)

	_, err = domain.NewUser(0, "dana", "hunter22", domain.Role("manager"))
	require.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestLogin_IssuesToken(t *testing.T) {
	svc := newUserService(t)
	_, err := svc.CreateUser(context.Background(), mustUser(t, "dana", "hunter22", domain.RoleCashier))
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "dana", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "dana", user.Username)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	svc := newUserService(t)
	_, err := svc.CreateUser(context.Background(), mustUser(t, "dana", "hunter22", domain.RoleCashier))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "dana", "wrong")
	require.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Login(context.Background(), "ghost", "hunter22")
	require.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Login(context.Background(), "", "")
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestLogin_RejectsDeactivatedAccount(t *testing.T) {
	svc := newUserService(t)
	user := mustUser(t, "dana", "hunter22", domain.RoleCashier)
	user.Deactivate()
	_, err := svc.CreateUser(context.Background(), user)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "dana", "hunter22")
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	svc := newUserService(t)
	_, err := svc.CreateUser(context.Background(), mustUser(t, "dana", "hunter22", domain.RoleCashier))
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "dana", "hunter22")
	require.NoError(t, err)

	svc.Logout(context.Background(), token)

	_, err = svc.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestUpdate_KeepsIdentity(t *testing.T) {
	svc := newUserService(t)
	saved, err := svc.CreateUser(context.Background(), mustUser(t, "dana", "hunter22", domain.RoleCashier))
	require.NoError(t, err)

	updated := mustUser(t, "dana", "newsecret", domain.RoleAdmin)
	require.NoError(t, updated.UpdateProfile("Dana Reeve", "dana@example.com"))

	result, err := svc.Update(context.Background(), "dana", updated)
	require.NoError(t, err)
	require.Equal(t, saved.ID, result.ID)
	require.Equal(t, domain.RoleAdmin, result.Role)
	require.Equal(t, "Dana Reeve", result.FullName)
}

func TestDelete_RemovesAccount(t *testing.T) {
	svc := newUserService(t)
	_, err := svc.CreateUser(context.Background(), mustUser(t, "dana", "hunter22", domain.RoleCashier))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "dana"))
	_, err = svc.GetByUsername(context.Background(), "dana")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
