package auth

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory UserStore. Create enforces uniqueness the way
// the database constraint does, so the registration race fallback path is
// exercised without Postgres.
type fakeStore struct {
	mu    sync.Mutex
	users []User
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) GetByUsername(_ context.Context, username string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *fakeStore) UsernameExists(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) Create(_ context.Context, user User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return User{}, ErrDuplicateUsername
		}
		if existing.Email == user.Email {
			return User{}, ErrDuplicateEmail
		}
	}

	user.ID = "user-" + strconv.Itoa(len(s.users)+1)
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	s.users = append(s.users, user)
	return user, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func newTestService() (*Service, *fakeStore, *Codec) {
	store := newFakeStore()
	codec := NewCodec("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewService(store, codec), store, codec
}

func register(t *testing.T, service *Service) (User, Tokens) {
	t.Helper()

	user, tokens, err := service.Register(context.Background(), RegisterInput{
		Username:  "alice",
		Email:     "a@x.com",
		Password:  "secret123",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)
	return user, tokens
}

func TestRegisterThenLogin(t *testing.T) {
	service, _, codec := newTestService()

	registered, regTokens := register(t, service)
	require.NotEmpty(t, registered.ID)

	user, tokens, err := service.Login(context.Background(), "alice", "secret123")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	regClaims, err := codec.Verify(regTokens.AccessToken, TokenKindAccess)
	require.NoError(t, err)
	loginClaims, err := codec.Verify(tokens.AccessToken, TokenKindAccess)
	require.NoError(t, err)
	require.Equal(t, registered.ID, regClaims.Subject)
	require.Equal(t, regClaims.Subject, loginClaims.Subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service, _, _ := newTestService()
	register(t, service)

	// Wrong password and unknown username surface identically.
	_, _, err := service.Login(context.Background(), "alice", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = service.Login(context.Background(), "nobody", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = service.Login(context.Background(), "", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginNormalizesUsername(t *testing.T) {
	service, _, _ := newTestService()
	register(t, service)

	_, _, err := service.Login(context.Background(), "  ALICE  ", "secret123")
	require.NoError(t, err)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	service, store, _ := newTestService()
	register(t, service)
	require.Equal(t, 1, store.count())

	_, tokens, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "other@x.com",
		Password: "secret123",
	})
	require.ErrorIs(t, err, ErrDuplicateUsername)
	require.Empty(t, tokens.AccessToken)
	require.Equal(t, 1, store.count())

	_, tokens, err = service.Register(context.Background(), RegisterInput{
		Username: "bob",
		Email:    "a@x.com",
		Password: "secret123",
	})
	require.ErrorIs(t, err, ErrDuplicateEmail)
	require.Empty(t, tokens.AccessToken)
	require.Equal(t, 1, store.count())
}

func TestRefresh(t *testing.T) {
	service, _, codec := newTestService()
	registered, tokens := register(t, service)

	access, expiresIn, err := service.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, int64((15 * time.Minute).Seconds()), expiresIn)

	claims, err := codec.Verify(access, TokenKindAccess)
	require.NoError(t, err)
	require.Equal(t, registered.ID, claims.Subject)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	service, _, _ := newTestService()
	_, tokens := register(t, service)

	_, _, err := service.Refresh(context.Background(), tokens.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRejectsTamperedToken(t *testing.T) {
	service, _, _ := newTestService()
	_, tokens := register(t, service)

	tampered := []byte(tokens.RefreshToken)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	_, _, err := service.Refresh(context.Background(), string(tampered))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	service, _, _ := newTestService()
	_, tokens := register(t, service)

	require.NoError(t, service.Logout(tokens.RefreshToken))
	// Stateless design: the token stays usable after logout.
	_, _, err := service.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)

	require.ErrorIs(t, service.Logout("  "), ErrInvalidToken)
}
