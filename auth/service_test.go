package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVerifier struct {
	identity GoogleIdentity
	err      error
}

func (f fakeVerifier) Verify(context.Context, string) (GoogleIdentity, error) {
	return f.identity, f.err
}

var fixedNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...Option) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory(zap.NewNop())
	cfg := Config{
		Secret:             []byte("test-secret"),
		TokenTTL:           time.Hour,
		SuperAdminUsername: "owner",
		SuperAdminEmail:    "owner@example.com",
	}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(mem, cfg, opts...), mem
}

func TestRegisterSuperAdminIsApproved(t *testing.T) {
	svc, _ := newTestService(t)
	admin, err := svc.Register(context.Background(), RegisterInput{Username: "owner", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, admin.Approved)
	assert.Equal(t, models.RoleSuperAdmin, admin.Role)
	assert.NotEqual(t, "secret1", admin.PasswordHash)
}

func TestRegisterRejectsDuplicateAndShortPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "cashier", Password: "123"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Username: "cashier", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Username: "cashier", Password: "secret2"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLoginRequiresApproval(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Username: "cashier", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "cashier", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "cashier", "secret1")
	assert.ErrorIs(t, err, ErrPendingApproval)

	_, err = svc.Approve(ctx, "cashier")
	require.NoError(t, err)

	token, admin, err := svc.Login(ctx, "cashier", "secret1")
	require.NoError(t, err)
	assert.True(t, admin.Approved)

	claims, err := svc.ParseToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "cashier", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	_, _, err := svc.Login(context.Background(), "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	svc, _ := newTestService(t)
	token, err := svc.IssueToken(models.Admin{Username: "cashier", Role: models.RoleAdmin})
	require.NoError(t, err)

	later := fixedNow.Add(2 * time.Hour)
	expired := NewService(store.NewMemory(zap.NewNop()), Config{Secret: []byte("test-secret"), TokenTTL: time.Hour},
		WithClock(func() time.Time { return later }))
	_, err = expired.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewService(store.NewMemory(zap.NewNop()), Config{Secret: []byte("other")},
		WithClock(func() time.Time { return fixedNow }))
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectDeletesByEmail(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Username: "cashier", Email: "cashier@example.com", Password: "secret1"})
	require.NoError(t, err)

	pending, err := svc.PendingAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, svc.Reject(ctx, "cashier@example.com"))
	_, err = mem.AdminByUsername(ctx, "cashier")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, svc.Reject(ctx, "ghost"), store.ErrNotFound)
}

func TestGoogleLoginRegistersPendingAdmin(t *testing.T) {
	verifier := fakeVerifier{identity: GoogleIdentity{UID: "u1", Email: "cook@example.com", Name: "Cook"}}
	svc, mem := newTestService(t, WithVerifier(verifier))
	ctx := context.Background()

	_, admin, err := svc.GoogleLogin(ctx, "id-token")
	assert.ErrorIs(t, err, ErrPendingApproval)
	assert.False(t, admin.Approved)

	stored, err := mem.AdminByEmail(ctx, "cook@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Cook", stored.Name)

	_, err = svc.Approve(ctx, "cook@example.com")
	require.NoError(t, err)

	token, admin, err := svc.GoogleLogin(ctx, "id-token")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, admin.Approved)
}

func TestGoogleLoginSuperAdminEmail(t *testing.T) {
	verifier := fakeVerifier{identity: GoogleIdentity{Email: "Owner@Example.com", Name: "Owner"}}
	svc, _ := newTestService(t, WithVerifier(verifier))

	token, admin, err := svc.GoogleLogin(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, admin.Role)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, claims.Role)
}

func TestGoogleLoginFailures(t *testing.T) {
	svc, _ := newTestService(t)
	_, _, err := svc.GoogleLogin(context.Background(), "id-token")
	assert.ErrorIs(t, err, ErrGoogleUnavailable)

	svc, _ = newTestService(t, WithVerifier(fakeVerifier{err: errors.New("revoked")}))
	_, _, err = svc.GoogleLogin(context.Background(), "id-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc, _ = newTestService(t, WithVerifier(fakeVerifier{identity: GoogleIdentity{UID: "x"}}))
	_, _, err = svc.GoogleLogin(context.Background(), "id-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
