package repository

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "rollcall/internal/db"
	"rollcall/internal/domain"
)

func setupProfileRepo(t *testing.T) *ProfileRepo {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewProfileRepo(writeDB, testOrg)
}

func TestProfileRepo_PutAndGet(t *testing.T) {
	repo := setupProfileRepo(t)
	ctx := context.Background()

	p, err := repo.Put(ctx, &domain.IdentityProfile{
		IdentityID: "u1", Email: "u1@example.com", Role: domain.RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, testOrg, p.OrgID)
	assert.Equal(t, domain.RoleStudent, p.Role)

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", got.Email)
}

func TestProfileRepo_Put_DefaultsUnresolved(t *testing.T) {
	repo := setupProfileRepo(t)

	p, err := repo.Put(context.Background(), &domain.IdentityProfile{
		IdentityID: "u2", Email: "u2@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUnresolved, p.Role)
}

func TestProfileRepo_Put_Upsert(t *testing.T) {
	repo := setupProfileRepo(t)
	ctx := context.Background()

	_, err := repo.Put(ctx, &domain.IdentityProfile{IdentityID: "u3", Email: "old@example.com"})
	require.NoError(t, err)

	p, err := repo.Put(ctx, &domain.IdentityProfile{
		IdentityID: "u3", Email: "new@example.com", Role: domain.RoleFaculty,
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", p.Email)
	assert.Equal(t, domain.RoleFaculty, p.Role)

	// Still exactly one profile per identity.
	got, err := repo.Get(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFaculty, got.Role)
}

func TestProfileRepo_Put_ConcreteRoleIsWriteOnce(t *testing.T) {
	repo := setupProfileRepo(t)
	ctx := context.Background()

	_, err := repo.Put(ctx, &domain.IdentityProfile{
		IdentityID: "u4", Email: "u4@example.com", Role: domain.RoleStudent,
	})
	require.NoError(t, err)

	// A direct write with a different role is refused by the store
	// itself, so two racing first-time registrations cannot both win.
	_, err = repo.Put(ctx, &domain.IdentityProfile{
		IdentityID: "u4", Email: "u4@example.com", Role: domain.RoleCorporate,
	})
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)

	got, err := repo.Get(ctx, "u4")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, got.Role)
	assert.Equal(t, "u4@example.com", got.Email)
}

func TestProfileRepo_Put_SameRoleRefreshesEmail(t *testing.T) {
	repo := setupProfileRepo(t)
	ctx := context.Background()

	_, err := repo.Put(ctx, &domain.IdentityProfile{
		IdentityID: "u5", Email: "old@example.com", Role: domain.RoleFaculty,
	})
	require.NoError(t, err)

	p, err := repo.Put(ctx, &domain.IdentityProfile{
		IdentityID: "u5", Email: "new@example.com", Role: domain.RoleFaculty,
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", p.Email)
	assert.Equal(t, domain.RoleFaculty, p.Role)
}

func TestProfileRepo_Put_UnresolvedNeverDowngrades(t *testing.T) {
	repo := setupProfileRepo(t)
	ctx := context.Background()

	_, err := repo.Put(ctx, &domain.IdentityProfile{
		IdentityID: "u6", Email: "u6@example.com", Role: domain.RoleStudent,
	})
	require.NoError(t, err)

	_, err = repo.Put(ctx, &domain.IdentityProfile{
		IdentityID: "u6", Email: "u6@example.com", Role: domain.RoleUnresolved,
	})
	require.Error(t, err)

	got, err := repo.Get(ctx, "u6")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, got.Role)
}

func TestProfileRepo_Get_NotFound(t *testing.T) {
	repo := setupProfileRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestProfileRepo_OrgIsolation(t *testing.T) {
	writeDB, _ := internaldb.OpenTestSQLite(t)
	orgA := NewProfileRepo(writeDB, "org-a")
	orgB := NewProfileRepo(writeDB, "org-b")
	ctx := context.Background()

	_, err := orgA.Put(ctx, &domain.IdentityProfile{IdentityID: "shared", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = orgB.Get(ctx, "shared")
	require.Error(t, err, "profiles are namespaced per organization")
}
