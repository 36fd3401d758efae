package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateEmail     = errors.New("email already registered")
)

// dummyHash is compared against when the username does not exist so a login
// miss costs roughly the same as a hash mismatch.
var dummyHash = func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("charger-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("generate dummy bcrypt hash: %v", err))
	}
	return hash
}()

// UserStore is the credential store the service talks to. The sql-backed
// Repository satisfies it; tests substitute an in-memory fake.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user User) (User, error)
}

// ErrUserNotFound is returned by UserStore implementations on lookup miss.
var ErrUserNotFound = errors.New("user not found")

type Service struct {
	store UserStore
	codec *Codec
}

func NewService(store UserStore, codec *Codec) *Service {
	return &Service{store: store, codec: codec}
}

// Login verifies the credentials and issues a fresh token pair. Unknown
// username and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (User, Tokens, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	password = strings.TrimSpace(password)

	if username == "" || password == "" {
		return User{}, Tokens{}, ErrInvalidCredentials
	}

	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return User{}, Tokens{}, ErrInvalidCredentials
		}
		return User{}, Tokens{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, Tokens{}, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user.ID)
	if err != nil {
		return User{}, Tokens{}, err
	}

	return user, tokens, nil
}

// Register creates a user and issues a token pair identical in shape to
// Login. Username and email uniqueness is pre-checked here, but the database
// unique constraint is the authoritative guard: two concurrent registrations
// can both pass the pre-check, and the loser surfaces the same duplicate
// error mapped from the constraint violation.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, Tokens, error) {
	username := strings.TrimSpace(strings.ToLower(input.Username))
	email := strings.TrimSpace(strings.ToLower(input.Email))

	taken, err := s.store.UsernameExists(ctx, username)
	if err != nil {
		return User{}, Tokens{}, err
	}
	if taken {
		return User{}, Tokens{}, ErrDuplicateUsername
	}

	taken, err = s.store.EmailExists(ctx, email)
	if err != nil {
		return User{}, Tokens{}, err
	}
	if taken {
		return User{}, Tokens{}, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, Tokens{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.Create(ctx, User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
	})
	if err != nil {
		return User{}, Tokens{}, err
	}

	tokens, err := s.issueTokens(user.ID)
	if err != nil {
		return User{}, Tokens{}, err
	}

	return user, tokens, nil
}

// Refresh verifies the refresh token and issues a new access token for the
// same subject. The refresh token is not rotated; it stays valid until its
// own expiry.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, int64, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", 0, ErrInvalidToken
	}

	claims, err := s.codec.Verify(refreshToken, TokenKindRefresh)
	if err != nil {
		return "", 0, err
	}

	access, err := s.codec.Issue(claims.Subject, TokenKindAccess)
	if err != nil {
		return "", 0, err
	}

	return access, int64(s.codec.TTL(TokenKindAccess).Seconds()), nil
}

// Logout is a stateless no-op: tokens are self-contained and there is no
// server-side denylist, so the client discarding its pair is the whole
// contract. Kept as a service method so the limitation lives in one place.
func (s *Service) Logout(refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return ErrInvalidToken
	}
	return nil
}

func (s *Service) issueTokens(userID string) (Tokens, error) {
	access, err := s.codec.Issue(userID, TokenKindAccess)
	if err != nil {
		return Tokens{}, err
	}

	refresh, err := s.codec.Issue(userID, TokenKindRefresh)
	if err != nil {
		return Tokens{}, err
	}

	return Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.codec.TTL(TokenKindAccess).Seconds()),
	}, nil
}
