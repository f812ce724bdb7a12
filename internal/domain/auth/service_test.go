package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gudang/internal/core/apperror"
	"gudang/internal/core/appctx"
	"gudang/internal/domain/auth"
	"gudang/internal/infrastructure/storage/memory"
)

func newTestService() *auth.Service {
	return auth.NewService(
		memory.NewUserRepo(),
		auth.NewJWTService(auth.DefaultJWTConfig("test-secret")),
		auth.DefaultServiceConfig(),
	)
}

func adminCtx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   "admin-id",
		Name:     "Administrator",
		Username: "admin",
		Role:     auth.RoleAdmin,
	})
}

func cashierCtx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   "cashier-id",
		Name:     "Siti",
		Username: "siti",
		Role:     auth.RoleCashier,
	})
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	created, err := svc.CreateUser(ctx, auth.CreateUserRequest{
		Name:     "Budi",
		Username: "budi",
		Password: "rahasia1",
		Role:     auth.RoleCashier,
	})
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), auth.Credentials{
		Username: "budi",
		Password: "rahasia1",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateUser(adminCtx(), auth.CreateUserRequest{
		Name:     "Budi",
		Username: "budi",
		Password: "rahasia1",
		Role:     auth.RoleCashier,
	})
	require.NoError(t, err)

	_, _, errWrongPass := svc.Login(context.Background(), auth.Credentials{
		Username: "budi",
		Password: "salah",
	})
	_, _, errNoUser := svc.Login(context.Background(), auth.Credentials{
		Username: "tidakada",
		Password: "rahasia1",
	})

	require.Error(t, errWrongPass)
	require.Error(t, errNoUser)
	assert.True(t, apperror.IsCode(errWrongPass, apperror.CodeUnauthorized))
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
}

func TestTokenRoundTrip(t *testing.T) {
	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))
	user := auth.NewUser("Budi", "budi", "hash", auth.RoleCashier)

	tokenString, expiresAt, err := jwtSvc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	uc, err := jwtSvc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)
	assert.Equal(t, "budi", uc.Username)
	assert.Equal(t, auth.RoleCashier, uc.Role)
	assert.False(t, uc.IsAdmin())
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	user := auth.NewUser("Budi", "budi", "hash", auth.RoleCashier)

	tokenString, _, err := auth.NewJWTService(auth.DefaultJWTConfig("secret-a")).GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = auth.NewJWTService(auth.DefaultJWTConfig("secret-b")).ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateUser(cashierCtx(), auth.CreateUserRequest{
		Name:     "Budi",
		Username: "budi",
		Password: "rahasia1",
		Role:     auth.RoleCashier,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))

	_, err = svc.CreateUser(context.Background(), auth.CreateUserRequest{
		Name:     "Budi",
		Username: "budi",
		Password: "rahasia1",
		Role:     auth.RoleCashier,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
}

func TestCreateUserValidation(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	_, err := svc.CreateUser(ctx, auth.CreateUserRequest{
		Name:     "Budi",
		Username: "budi",
		Password: "123",
		Role:     auth.RoleCashier,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "short password")

	_, err = svc.CreateUser(ctx, auth.CreateUserRequest{
		Name:     "Budi",
		Username: "budi",
		Password: "rahasia1",
		Role:     "supervisor",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "unknown role")
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	req := auth.CreateUserRequest{
		Name:     "Budi",
		Username: "budi",
		Password: "rahasia1",
		Role:     auth.RoleCashier,
	}
	_, err := svc.CreateUser(ctx, req)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, req)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))
}

func TestUpdateUserChangesPassword(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	user, err := svc.CreateUser(ctx, auth.CreateUserRequest{
		Name:     "Budi",
		Username: "budi",
		Password: "rahasia1",
		Role:     auth.RoleCashier,
	})
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, user.ID, auth.UpdateUserRequest{
		Name:     "Budi Santoso",
		Username: "budi",
		Password: "rahasiabaru",
		Role:     auth.RoleAdmin,
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), auth.Credentials{Username: "budi", Password: "rahasia1"})
	assert.Error(t, err, "old password must stop working")

	_, logged, err := svc.Login(context.Background(), auth.Credentials{Username: "budi", Password: "rahasiabaru"})
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", logged.Name)
	assert.Equal(t, auth.RoleAdmin, logged.Role)
}

func TestUpdateUserKeepsPasswordWhenEmpty(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	user, err := svc.CreateUser(ctx, auth.CreateUserRequest{
		Name:     "Budi",
		Username: "budi",
		Password: "rahasia1",
		Role:     auth.RoleCashier,
	})
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, user.ID, auth.UpdateUserRequest{
		Name:     "Budi S.",
		Username: "budi",
		Role:     auth.RoleCashier,
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), auth.Credentials{Username: "budi", Password: "rahasia1"})
	assert.NoError(t, err)
}

func TestDeleteUserCannotDeleteSelf(t *testing.T) {
	svc := newTestService()
	ctx := adminCtx()

	user, err := svc.CreateUser(ctx, auth.CreateUserRequest{
		Name:     "Budi",
		Username: "budi",
		Password: "rahasia1",
		Role:     auth.RoleAdmin,
	})
	require.NoError(t, err)

	selfCtx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: user.ID.String(),
		Role:   auth.RoleAdmin,
	})
	err = svc.DeleteUser(selfCtx, user.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	// A different admin can.
	require.NoError(t, svc.DeleteUser(ctx, user.ID))
}

func TestEnsureDefaultAdmin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaultAdmin(ctx, "admin", "admin123"))

	_, user, err := svc.Login(ctx, auth.Credentials{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, user.Role)

	// Idempotent: a second call must not create another account or
	// reset the password.
	require.NoError(t, svc.EnsureDefaultAdmin(ctx, "admin", "other"))
	users, err := svc.ListUsers(adminCtx())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
