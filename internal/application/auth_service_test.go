package application

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta-app/moneta-server/internal/domain/entity"
	"github.com/moneta-app/moneta-server/internal/domain/repository"
	"github.com/moneta-app/moneta-server/pkg/helpers"
)

type fakeUserRepo struct {
	users []entity.User
	seq   int
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrEmailTaken
		}
	}
	r.seq++
	u.ID = time.Now().Format("20060102") + "-" + string(rune('a'+r.seq))
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.users = append(r.users, *u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newAuthService() (*AuthService, *helpers.JWTManager) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	jwtm := helpers.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(&fakeUserRepo{}, jwtm, logger), jwtm
}

func TestSignup_IssuesTokenForNewUser(t *testing.T) {
	svc, jwtm := newAuthService()

	sess, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "secretpass")
	require.NoError(t, err)
	require.NotNil(t, sess.User)
	assert.NotEmpty(t, sess.User.ID)
	assert.NotEmpty(t, sess.Token)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	// The token resolves to exactly the signed-up identity.
	uid, err := jwtm.Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, uid)
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "secretpass")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "Mallory", "alice@example.com", "otherpass")
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestLogin_ValidCredentials(t *testing.T) {
	svc, jwtm := newAuthService()

	created, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "secretpass")
	require.NoError(t, err)

	sess, err := svc.Login(context.Background(), "alice@example.com", "secretpass")
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, sess.User.ID)

	uid, err := jwtm.Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, uid)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "secretpass")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newAuthService()

	// Unknown email and wrong password are indistinguishable to the caller.
	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProfile_ReturnsStoredUser(t *testing.T) {
	svc, _ := newAuthService()

	created, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "secretpass")
	require.NoError(t, err)

	u, err := svc.Profile(context.Background(), created.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice", u.Name)
}

func TestProfile_UnknownUser(t *testing.T) {
	svc, _ := newAuthService()
	_, err := svc.Profile(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
