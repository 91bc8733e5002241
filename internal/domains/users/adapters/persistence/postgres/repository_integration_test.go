//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-pos-api-server/internal/domains/users/domain"
	"github.com/Apurer/go-pos-api-server/internal/domains/users/ports"
	"github.com/Apurer/go-pos-api-server/internal/platform/migrations"
)

func setupUsersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestUserRepository_SaveAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser(0, "dana", "hunter22", domain.RoleCashier)
	require.NoError(t, err)
	require.NoError(t, user.UpdateProfile("Dana Reeve", "dana@example.com"))

	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	fetched, err := repo.GetByUsername(ctx, "dana")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCashier, fetched.Role)
	assert.True(t, fetched.CheckPassword("hunter22"))

	byID, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "dana", byID.Username)
}

func TestUserRepository_UpsertByUsername(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser(0, "dana", "hunter22", domain.RoleCashier)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)

	require.NoError(t, saved.SetRole(domain.RoleAdmin))
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
}

func TestUserRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser(0, "dana", "hunter22", domain.RoleCashier)
	require.NoError(t, err)
	_, err = repo.Save(ctx, user)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "dana"))
	_, err = repo.GetByUsername(ctx, "dana")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "dana"), ports.ErrNotFound)
}

func TestSessionStore_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	store := NewSessionStore(db, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "token-1", "dana"))

	username, err := store.Resolve(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, "dana", username)

	require.NoError(t, store.Delete(ctx, "token-1"))
	username, err = store.Resolve(ctx, "token-1")
	require.NoError(t, err)
	assert.Empty(t, username)
}

func TestSessionStore_ExpiredTokenNotResolved(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	store := NewSessionStore(db, time.Nanosecond)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "token-2", "dana"))
	time.Sleep(10 * time.Millisecond)

	username, err := store.Resolve(ctx, "token-2")
	require.NoError(t, err)
	assert.Empty(t, username)

	require.NoError(t, store.PurgeExpired(ctx))
}
