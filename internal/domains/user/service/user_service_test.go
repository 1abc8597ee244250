package service

import (
	"context"
	"testing"
	"time"

	"inkdrop-backend/internal/domains/user/model"
	"inkdrop-backend/internal/domains/user/repository"
	"inkdrop-backend/internal/shared"
	"inkdrop-backend/internal/shared/errs"
	"inkdrop-backend/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService() (ServiceInterface, *jwt.Manager) {
	tokens := jwt.NewManager("secret", time.Hour)
	return NewUserService(repository.NewMemoryRepository(), tokens, bcrypt.MinCost), tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, tokens := newService()
	ctx := context.Background()

	dto, err := svc.Register(ctx, model.RegisterRequest{Username: "reader", Email: " Reader@InkDrop.test ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "reader@inkdrop.test", dto.Email)
	assert.Equal(t, shared.RoleUser, dto.Role)

	resp, err := svc.Login(ctx, model.LoginRequest{Email: "reader@inkdrop.test", Password: "password123"})
	require.NoError(t, err)

	claims, err := tokens.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, dto.ID.String(), claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	req := model.RegisterRequest{Username: "reader", Email: "r@inkdrop.test", Password: "password123"}

	_, err := svc.Register(ctx, req)
	require.NoError(t, err)
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, model.ErrEmailAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{Username: "reader", Email: "r@inkdrop.test", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "r@inkdrop.test", Password: "wrong-password"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "nobody@inkdrop.test", Password: "password123"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestCreateWithRole(t *testing.T) {
	svc, _ := newService()

	dto, err := svc.CreateWithRole(context.Background(), model.RegisterRequest{Username: "root", Email: "admin@inkdrop.test", Password: "password123"}, shared.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, shared.RoleAdmin, dto.Role)

	_, err = svc.CreateWithRole(context.Background(), model.RegisterRequest{Username: "x", Email: "x@inkdrop.test", Password: "password123"}, "owner")
	assert.Error(t, err)
}

func TestUpdateEmail(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	me, err := svc.Register(ctx, model.RegisterRequest{Username: "reader", Email: "r@inkdrop.test", Password: "password123"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, model.RegisterRequest{Username: "other", Email: "taken@inkdrop.test", Password: "password123"})
	require.NoError(t, err)

	dto, err := svc.UpdateEmail(ctx, me.ID, model.UpdateEmailRequest{Email: " New@InkDrop.test "})
	require.NoError(t, err)
	assert.Equal(t, "new@inkdrop.test", dto.Email)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "new@inkdrop.test", Password: "password123"})
	assert.NoError(t, err)

	_, err = svc.UpdateEmail(ctx, me.ID, model.UpdateEmailRequest{Email: "taken@inkdrop.test"})
	assert.ErrorIs(t, err, model.ErrEmailAlreadyExists)

	_, err = svc.UpdateEmail(ctx, me.ID, model.UpdateEmailRequest{Email: "not-an-email"})
	appErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, "email", appErr.Field)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	me, err := svc.Register(ctx, model.RegisterRequest{Username: "reader", Email: "r@inkdrop.test", Password: "password123"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, me.ID, model.ChangePasswordRequest{CurrentPassword: "wrong-password", NewPassword: "password456"})
	assert.ErrorIs(t, err, model.ErrWrongPassword)

	err = svc.ChangePassword(ctx, me.ID, model.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "password123"})
	assert.ErrorIs(t, err, model.ErrSamePassword)

	err = svc.ChangePassword(ctx, me.ID, model.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "short"})
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	require.NoError(t, svc.ChangePassword(ctx, me.ID, model.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "password456"}))

	_, err = svc.Login(ctx, model.LoginRequest{Email: "r@inkdrop.test", Password: "password123"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	_, err = svc.Login(ctx, model.LoginRequest{Email: "r@inkdrop.test", Password: "password456"})
	assert.NoError(t, err)
}

func TestDeleteAccount(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := NewUserService(repo, jwt.NewManager("secret", time.Hour), bcrypt.MinCost)
	ctx := context.Background()

	me, err := svc.Register(ctx, model.RegisterRequest{Username: "reader", Email: "r@inkdrop.test", Password: "password123"})
	require.NoError(t, err)

	repo.DeleteErr = model.ErrAccountHasBooks
	assert.ErrorIs(t, svc.DeleteAccount(ctx, me.ID), model.ErrAccountHasBooks)
	_, err = svc.GetByID(ctx, me.ID)
	require.NoError(t, err)

	repo.DeleteErr = nil
	require.NoError(t, svc.DeleteAccount(ctx, me.ID))
	_, err = svc.GetByID(ctx, me.ID)
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "r@inkdrop.test", Password: "password123"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, me.ID), model.ErrUserNotFound)
}
