package core

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShuvashreeBharati/FYP-22067184/internal/auth"
	"github.com/ShuvashreeBharati/FYP-22067184/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	s, err := store.NewSQLiteStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestAuthService(t *testing.T) (*AuthService, *auth.Issuer, *store.SQLiteStore) {
	t.Helper()
	dbStore := newTestStore(t)
	issuer := auth.NewIssuer("test-secret", time.Hour)
	return NewAuthService(dbStore, issuer), issuer, dbStore
}

func TestRegisterIssuesMatchingToken(t *testing.T) {
	svc, issuer, _ := newTestAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Ann", "a@x.com", "Secret1!")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotEmpty(t, token)
	assert.Equal(t, "a@x.com", user.Email)

	userID, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name, userName, email, password string
	}{
		{"empty name", "", "a@x.com", "pw"},
		{"empty email", "Ann", "", "pw"},
		{"empty password", "Ann", "a@x.com", ""},
		{"malformed email", "Ann", "not-an-email", "pw"},
		{"display-name email", "Ann", "Ann <a@x.com>", "pw"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tc.userName, tc.email, tc.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Ann", "a@x.com", "Secret1!")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "Imposter", "a@x.com", "Other1!")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginSuccess(t *testing.T) {
	svc, issuer, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "Ann", "a@x.com", "Secret1!")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "a@x.com", "Secret1!")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	userID, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Ann", "a@x.com", "Secret1!")
	require.NoError(t, err)

	_, _, errUnknown := svc.Login(ctx, "nobody@x.com", "Secret1!")
	_, _, errWrongPw := svc.Login(ctx, "a@x.com", "wrong")

	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "Ann", "a@x.com", "Secret1!")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "wrong", "NewSecret1!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "Secret1!", "NewSecret1!"))

	_, _, err = svc.Login(ctx, "a@x.com", "Secret1!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "a@x.com", "NewSecret1!")
	assert.NoError(t, err)
}
