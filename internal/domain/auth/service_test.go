package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
)

type fakeUserRepo struct {
	users  map[string]*User
	logins int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *User) error {
	if _, ok := r.users[user.Username]; ok {
		return apperror.NewDuplicate("user", "username", user.Username)
	}
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", username)
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID id.ID) (*User, error) {
	for _, u := range r.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", userID)
}

func (r *fakeUserRepo) RecordLogin(_ context.Context, _ id.ID) error {
	r.logins++
	return nil
}

func newTestService(repo *fakeUserRepo) (*Service, *JWTService) {
	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, jwtSvc), jwtSvc
}

func TestRegister_CreatesActiveUserWithHashedPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestService(repo)

	user, err := svc.Register(context.Background(), "operator1", "s3cret-pass", false)
	require.NoError(t, err)

	stored := repo.users["operator1"]
	require.NotNil(t, stored)
	assert.True(t, stored.IsActive)
	assert.False(t, stored.IsAdmin)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
	assert.Equal(t, stored.ID, user.ID)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "s3cret-pass", false)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = svc.Register(ctx, "operator1", "short", false)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "operator1", "s3cret-pass", false)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "operator1", "another-pass", false)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc, jwtSvc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "operator1", "s3cret-pass", true)
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, Credentials{Username: "operator1", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, "operator1", user.Username)
	assert.Equal(t, 1, repo.logins)

	claims, err := jwtSvc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "operator1", claims.Username)
	assert.True(t, claims.IsAdmin)

	_, _, err = svc.Login(ctx, Credentials{Username: "operator1", Password: "wrong-pass"})
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))

	_, _, err = svc.Login(ctx, Credentials{Username: "nobody", Password: "s3cret-pass"})
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
}

func TestLogin_DisabledAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "operator1", "s3cret-pass", false)
	require.NoError(t, err)
	repo.users["operator1"].IsActive = false

	_, _, err = svc.Login(ctx, Credentials{Username: "operator1", Password: "s3cret-pass"})
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
}
