package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-facturacion/internal/application/auth"
	"github.com/jhoicas/inventario-facturacion/internal/application/dto"
	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-facturacion/pkg/jwt"
)

const secret = "test-secret"

func newAuth() *auth.AuthUseCase {
	return auth.NewAuthUseCase(memory.NewUserRepository(memory.NewStore()), auth.JWTConfig{Secret: secret, ExpMinutes: 10, Issuer: "test"}, nil)
}

func TestRegisterYLogin(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()

	u, err := uc.RegisterUser(ctx, dto.CreateUserRequest{Email: " Ana@Happy.co ", Password: "secreta1", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "ana@happy.co", u.Email)
	assert.Equal(t, "ana@happy.co", u.Name)
	assert.Equal(t, "active", u.Status)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@happy.co", Password: "secreta1"})
	require.NoError(t, err)
	claims, err := jwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "ana@happy.co", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestRegister_RolPorDefectoYDuplicado(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()

	u, err := uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "v@happy.co", Password: "secreta1"})
	require.NoError(t, err)
	assert.Equal(t, "vendedor", u.Role)

	_, err = uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "V@HAPPY.CO", Password: "secreta1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegister_Validaciones(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	casos := []dto.CreateUserRequest{
		{Email: "no-es-correo", Password: "secreta1"},
		{Email: "a@b.co", Password: "123"},
		{Email: "a@b.co", Password: "secreta1", Role: "bodeguero"},
	}
	for _, in := range casos {
		_, err := uc.RegisterUser(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestLogin_Errores(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()
	_, err := uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "a@b.co", Password: "secreta1"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "x@b.co", Password: "secreta1"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()
	u, err := uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "a@b.co", Password: "secreta1"})
	require.NoError(t, err)

	upd, err := uc.UpdateRole(ctx, u.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", upd.Role)

	list, err := uc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "admin", list[0].Role)

	_, err = uc.UpdateRole(ctx, u.ID, "root")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.UpdateRole(ctx, "nada", "admin")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
