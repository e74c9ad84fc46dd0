package auth

import (
	"context"
	"testing"
	"time"

	"cinebook/internal/shared/config"
	"cinebook/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail    map[string]*users.User
	byUsername map[string]*users.User
	byID       map[string]*users.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:    make(map[string]*users.User),
		byUsername: make(map[string]*users.User),
		byID:       make(map[string]*users.User),
	}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *users.User) error {
	user.ID = uuid.New()
	f.byEmail[user.Email] = user
	f.byUsername[user.Username] = user
	f.byID[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*users.User, error) {
	if u, ok := f.byUsername[username]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, ok := f.byUsername[username]
	return ok, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Name:     "Alice Moreau",
		Email:    "alice@example.com",
		Username: "alice",
		Password: "s3cret-pass",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig())
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "USER", resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	login, err := svc.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmailAndUsername(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	dup := registerRequest()
	dup.Username = "alice2"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailTaken)

	dup = registerRequest()
	dup.Email = "alice2@example.com"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterIgnoresInvalidRole(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig())

	req := registerRequest()
	req.Role = "SUPERUSER"
	resp, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "USER", resp.User.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	// Wrong password and unknown email produce the same error
	_, err = svc.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig())
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "access", claims.Type)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig())
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	// Access tokens must not mint new pairs
	_, err = svc.RefreshToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	pair, err := svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
}
