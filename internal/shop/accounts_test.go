package shop

import (
	"context"
	"testing"

	"github.com/gomallhq/gomall/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterDerivesUsernameFromEmail(t *testing.T) {
	db := newTestDB(t)
	seedRole(t, db, "User")
	svc := NewAccountService(db)

	user, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Dana",
		Email:     "dana.r@example.com",
		Password:  "s3cret",
		RoleName:  "User",
	})
	require.NoError(t, err)
	assert.Equal(t, "dana.r", user.Username)
	assert.True(t, user.Enabled)
	// Stored hash, never the plaintext.
	assert.NotEqual(t, "s3cret", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret")))
}

func TestRegisterRoleNameNormalized(t *testing.T) {
	db := newTestDB(t)
	role := seedRole(t, db, " Seller ")
	svc := NewAccountService(db)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "shopkeeper@example.com",
		Password: "pw",
		RoleName: "seller",
	})
	require.NoError(t, err)
	assert.Equal(t, role.ID, user.RoleID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	seedRole(t, db, "User")
	svc := NewAccountService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "pw", RoleName: "User"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "pw2", RoleName: "User"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.EqualValues(t, 1, countRows(t, db, &domain.User{}))
}

func TestRegisterUnknownRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "nobody@example.com",
		Password: "pw",
		RoleName: "overlord",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	seedRole(t, db, "User")
	svc := NewAccountService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "pw"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{Email: "ok@example.com", Password: ""})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	seedRole(t, db, "User")
	svc := NewAccountService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "login@example.com", Password: "right", RoleName: "User"})
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "login@example.com", "right")
	require.NoError(t, err)
	require.NotNil(t, user.Role)
	assert.Equal(t, "login", user.Username)

	_, err = svc.Authenticate(ctx, "login@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "ghost@example.com", "right")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRecordsLastLogin(t *testing.T) {
	db := newTestDB(t)
	seedRole(t, db, "User")
	svc := NewAccountService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "stamp@example.com", Password: "pw", RoleName: "User"})
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "stamp@example.com", "pw")
	require.NoError(t, err)

	var got domain.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.False(t, got.LastLogin.IsZero())
}

func TestAuthenticateSurvivesLastLoginWriteFailure(t *testing.T) {
	db := newTestDB(t)
	seedRole(t, db, "User")
	svc := NewAccountService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "flaky@example.com", Password: "pw", RoleName: "User"})
	require.NoError(t, err)

	// Break only the timestamp write; the credential check must still pass.
	require.NoError(t, db.Exec("ALTER TABLE users DROP COLUMN last_login").Error)

	user, err := svc.Authenticate(ctx, "flaky@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "flaky", user.Username)
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	db := newTestDB(t)
	seedRole(t, db, "User")
	svc := NewAccountService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "frozen@example.com", Password: "pw", RoleName: "User"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", user.ID).Update("enabled", false).Error)

	_, err = svc.Authenticate(ctx, "frozen@example.com", "pw")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateProfileChangesPasswordOnlyWhenGiven(t *testing.T) {
	db := newTestDB(t)
	seedRole(t, db, "User")
	svc := NewAccountService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "edit@example.com", Password: "original", RoleName: "User"})
	require.NoError(t, err)
	ident := IdentityOf(user)

	_, err = svc.UpdateProfile(ctx, ident, ProfileInput{FirstName: "Eve", Email: "edit@example.com"})
	require.NoError(t, err)

	// Old password still works.
	_, err = svc.Authenticate(ctx, "edit@example.com", "original")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, ident, ProfileInput{Password: "rotated"})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "edit@example.com", "rotated")
	assert.NoError(t, err)
}

func TestIdentityRoleGateNormalization(t *testing.T) {
	ident := Identity{UserID: 1, Role: "  AdMiN  "}
	assert.True(t, ident.IsAdmin())
	assert.True(t, ident.HasRole("admin"))
	assert.False(t, ident.IsSeller())

	assert.False(t, Identity{Role: "administrator"}.IsAdmin())
	assert.False(t, Identity{}.IsAdmin())
}
