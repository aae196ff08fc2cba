package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"codearena/internal/common"
	"codearena/internal/common/security"
	"codearena/internal/domain/model"
	"codearena/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func (f *fakeUserRepo) Create(ctx context.Context, base model.UserBase) (*model.User, error) {
	if _, exists := f.users[base.Username]; exists {
		return nil, common.ErrConflict
	}
	u := &model.User{Username: base.Username, DisplayName: base.DisplayName}
	f.users[base.Username] = u
	return u, nil
}

func (f *fakeUserRepo) Get(ctx context.Context, username string) (*model.User, error) {
	return f.users[username], nil
}

func (f *fakeUserRepo) List(ctx context.Context, filter model.UserFilterOptions) ([]model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Count(ctx context.Context, filter model.UserFilterOptions) (int64, error) {
	return 0, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, base model.UserBase) (*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, username string) (int64, error) {
	return 0, nil
}

type fakeAuthRepo struct {
	hasher  security.Hasher
	details map[string]*model.AuthenticationDetail
}

func (f *fakeAuthRepo) Get(ctx context.Context, username string, method model.AuthenticationMethod) (*model.AuthenticationDetail, error) {
	return f.details[username], nil
}

func (f *fakeAuthRepo) Add(ctx context.Context, base model.AuthenticationDetailBase) (*model.AuthenticationDetail, error) {
	hashed, err := f.hasher.Hash(base.Value)
	if err != nil {
		return nil, err
	}
	d := &model.AuthenticationDetail{Username: base.Username, Method: base.Method, Value: hashed}
	f.details[base.Username] = d
	return d, nil
}

func (f *fakeAuthRepo) Update(ctx context.Context, base model.AuthenticationDetailBase) (*model.AuthenticationDetail, error) {
	return nil, nil
}

func (f *fakeAuthRepo) Delete(ctx context.Context, username string, method model.AuthenticationMethod) error {
	return nil
}

func newTestAuthService() (*AuthService, *fakeUserRepo, *fakeAuthRepo) {
	config.AppConfig = &config.Config{JWTKey: []byte("test-secret"), JWTExp: time.Hour}
	security.InitJWT()
	hasher := security.NewBcryptHasher()
	users := &fakeUserRepo{users: map[string]*model.User{}}
	auth := &fakeAuthRepo{hasher: hasher, details: map[string]*model.AuthenticationDetail{}}
	return NewAuthService(users, auth, hasher), users, auth
}

func TestRegister(t *testing.T) {
	svc, users, auth := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Username:    "alice_dev",
		DisplayName: "Alice",
		Password:    "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice_dev", resp.User.Username)
	assert.NotEmpty(t, resp.Token)

	require.Contains(t, users.users, "alice_dev")
	require.Contains(t, auth.details, "alice_dev")
	assert.NotEqual(t, "hunter22", auth.details["alice_dev"].Value)

	_, err = svc.Register(ctx, RegisterRequest{Username: "alice_dev", DisplayName: "Alice", Password: "x"})
	assert.True(t, errors.Is(err, common.ErrConflict))

	_, err = svc.Register(ctx, RegisterRequest{Username: "bob_coder", DisplayName: "Bob"})
	assert.True(t, errors.Is(err, common.ErrBadRequest))
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Username:    "alice_dev",
		DisplayName: "Alice",
		Password:    "hunter22",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Username: "alice_dev", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	// Unknown user and wrong password get the same generic rejection.
	_, err = svc.Login(ctx, LoginRequest{Username: "alice_dev", Password: "wrong"})
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
	_, err = svc.Login(ctx, LoginRequest{Username: "nobody_here", Password: "hunter22"})
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	_, err = svc.Login(ctx, LoginRequest{Username: "", Password: ""})
	assert.True(t, errors.Is(err, common.ErrBadRequest))
}
