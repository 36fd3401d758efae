package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCodec(now time.Time) (*Codec, *time.Time) {
	clock := now
	codec := NewCodec("test-secret", 15*time.Minute, 7*24*time.Hour)
	codec.WithClock(func() time.Time { return clock })
	return codec, &clock
}

func TestCodecIssueVerifyRoundtrip(t *testing.T) {
	codec, _ := newTestCodec(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	for _, kind := range []TokenKind{TokenKindAccess, TokenKindRefresh} {
		token, err := codec.Issue("user-123", kind)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := codec.Verify(token, kind)
		require.NoError(t, err)
		require.Equal(t, "user-123", claims.Subject)
		require.Equal(t, string(kind), claims.TokenType)
	}
}

func TestCodecRejectsKindMismatch(t *testing.T) {
	codec, _ := newTestCodec(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	access, err := codec.Issue("user-123", TokenKindAccess)
	require.NoError(t, err)
	refresh, err := codec.Issue("user-123", TokenKindRefresh)
	require.NoError(t, err)

	_, err = codec.Verify(access, TokenKindRefresh)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.Verify(refresh, TokenKindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecExpiry(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec, clock := newTestCodec(issuedAt)

	token, err := codec.Issue("user-123", TokenKindAccess)
	require.NoError(t, err)

	// Strictly before expiry: still valid.
	*clock = issuedAt.Add(15*time.Minute - time.Second)
	_, err = codec.Verify(token, TokenKindAccess)
	require.NoError(t, err)

	// The expiry instant itself counts as expired.
	*clock = issuedAt.Add(15 * time.Minute)
	_, err = codec.Verify(token, TokenKindAccess)
	require.ErrorIs(t, err, ErrExpiredToken)

	*clock = issuedAt.Add(time.Hour)
	_, err = codec.Verify(token, TokenKindAccess)
	require.ErrorIs(t, err, ErrExpiredToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecRejectsTamperedToken(t *testing.T) {
	codec, _ := newTestCodec(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	token, err := codec.Issue("user-123", TokenKindAccess)
	require.NoError(t, err)

	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	_, err = codec.Verify(string(tampered), TokenKindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecRejectsForeignSecret(t *testing.T) {
	codec, _ := newTestCodec(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	other := NewCodec("other-secret", 15*time.Minute, 7*24*time.Hour)

	token, err := other.Issue("user-123", TokenKindAccess)
	require.NoError(t, err)

	_, err = codec.Verify(token, TokenKindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecRejectsGarbage(t *testing.T) {
	codec, _ := newTestCodec(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Verify(raw, TokenKindAccess)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}
