package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
)

func TestAuthService_Signup(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)

	created, err := svc.Signup(context.Background(), domain.User{
		Email:    "kellen@x.se",
		Password: "password1",
		Name:     "Kellen",
		Role:     domain.RoleAdmin, // must be ignored
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleMember, created.Role)
	assert.NotEqual(t, "password1", created.Password)
}

func TestAuthService_Login(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)

	_, err := svc.Signup(context.Background(), domain.User{
		Email:    "kellen@x.se",
		Password: "password1",
		Name:     "Kellen",
	})
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), "kellen@x.se", "password1")
	require.NoError(t, err)
	assert.Equal(t, "kellen@x.se", user.Email)

	_, err = svc.Login(context.Background(), "kellen@x.se", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.Login(context.Background(), "nobody@x.se", "password1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
