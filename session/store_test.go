package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"localloop/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoginCurrentLogout(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Current()
	require.ErrorIs(t, err, ErrNoSession)
	require.Empty(t, s.Token())

	u := model.User{ID: "u-1", Nickname: "ana", Email: "ana@example.com"}
	require.NoError(t, s.Login("tok-123", u))

	require.Equal(t, "tok-123", s.Token())
	got, err := s.Current()
	require.NoError(t, err)
	require.Equal(t, u, *got)

	require.NoError(t, s.Logout())
	require.Empty(t, s.Token())
	_, err = s.Current()
	require.ErrorIs(t, err, ErrNoSession)

	// logging out twice is a no-op
	require.NoError(t, s.Logout())
}

func TestUpdateUser_RequiresSession(t *testing.T) {
	s := openTestStore(t)

	err := s.UpdateUser(model.User{ID: "u-1"})
	require.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, s.Login("tok", model.User{ID: "u-1", IsPremium: false}))
	require.NoError(t, s.UpdateUser(model.User{ID: "u-1", IsPremium: true}))

	got, err := s.Current()
	require.NoError(t, err)
	require.True(t, got.IsPremium)
}

func TestNotice_TakeRemoves(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.PutNotice("ana@example.com", "review"))

	n, err := s.TakeNotice("ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, n)
	require.Equal(t, "review", n.Action)

	// one-shot: the second take finds nothing
	n, err = s.TakeNotice("ana@example.com")
	require.NoError(t, err)
	require.Nil(t, n)
}

func TestNotice_ExpiresAfterTTL(t *testing.T) {
	s := openTestStore(t)

	old := Notice{
		Email:     "ana@example.com",
		Action:    "review",
		CreatedAt: time.Now().UTC().Add(-25 * time.Hour),
	}
	require.NoError(t, s.putNotice(old))

	n, err := s.TakeNotice("ana@example.com")
	require.NoError(t, err)
	require.Nil(t, n)

	// and the expired record is gone, not just hidden
	n, err = s.TakeNotice("ana@example.com")
	require.NoError(t, err)
	require.Nil(t, n)
}

func TestNotice_OtherUserUnaffected(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.PutNotice("ana@example.com", "review"))

	n, err := s.TakeNotice("bob@example.com")
	require.NoError(t, err)
	require.Nil(t, n)

	n, err = s.TakeNotice("ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, n)
}
