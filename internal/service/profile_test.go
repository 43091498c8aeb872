package service

import (
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/domain"
)

func TestProfile_Register(t *testing.T) {
	f := setup(t)

	p, err := f.profiles.Register(ctx, "u1", "u1@x.com", "student")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, p.Role)
	assert.Equal(t, "u1@x.com", p.Email)

	got, err := f.profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, got.Role)
}

func TestProfile_Register_RejectsNonConcreteRole(t *testing.T) {
	f := setup(t)

	for _, role := range []string{"", "unresolved", "admin"} {
		_, err := f.profiles.Register(ctx, "u1", "u1@x.com", role)
		require.Error(t, err, "role %q", role)
		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
	}
}

func TestProfile_Register_RoleIsWriteOnce(t *testing.T) {
	f := setup(t)

	_, err := f.profiles.Register(ctx, "u1", "u1@x.com", "student")
	require.NoError(t, err)

	_, err = f.profiles.Register(ctx, "u1", "u1@x.com", "faculty")
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)

	// The stored role survives the rejected attempt.
	got, err := f.profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, got.Role)
}

func TestProfile_Register_SameRoleRefreshesEmail(t *testing.T) {
	f := setup(t)

	_, err := f.profiles.Register(ctx, "u1", "old@x.com", "corporate")
	require.NoError(t, err)

	p, err := f.profiles.Register(ctx, "u1", "new@x.com", "corporate")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCorporate, p.Role)
	assert.Equal(t, "new@x.com", p.Email)
}

func TestProfile_Register_ResolvesUnresolvedProfile(t *testing.T) {
	f := setup(t)

	created, err := f.profiles.Ensure(ctx, "u1", "u1@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUnresolved, created.Role)

	p, err := f.profiles.Register(ctx, "u1", "u1@x.com", "faculty")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFaculty, p.Role)
}

func TestProfile_Ensure_ExistingProfileUnchanged(t *testing.T) {
	f := setup(t)

	_, err := f.profiles.Register(ctx, "u1", "u1@x.com", "student")
	require.NoError(t, err)

	p, err := f.profiles.Ensure(ctx, "u1", "other@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, p.Role)
	assert.Equal(t, "u1@x.com", p.Email, "ensure never overwrites an existing profile")
}

func TestProfile_Get_NotFound(t *testing.T) {
	f := setup(t)

	_, err := f.profiles.Get(ctx, "nobody")
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
