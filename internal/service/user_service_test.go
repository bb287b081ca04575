package service

import (
	"strings"
	"testing"

	"share-system/config"
	"share-system/internal/apperr"
	"share-system/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	svc, _ := newTestServices(t, config.SharingConfig{})

	u, err := svc.Users.Register("  alice ", "alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "secret", u.PasswordHash)

	t.Run("default folders created", func(t *testing.T) {
		folders, err := svc.Folders.ListFolders(u.ID)
		require.NoError(t, err)
		require.Len(t, folders, 2)
		for _, f := range folders {
			assert.True(t, f.IsSystem())
		}
	})

	tests := []struct {
		name                      string
		username, email, password string
		kind                      apperr.Kind
	}{
		{"empty username", " ", "x@example.com", "pw", apperr.KindInvalidInput},
		{"empty email", "x", "", "pw", apperr.KindInvalidInput},
		{"bad email", "x", "not-an-email", "pw", apperr.KindInvalidInput},
		{"empty password", "x", "x@example.com", "", apperr.KindInvalidInput},
		{"duplicate username", "alice", "other@example.com", "pw", apperr.KindConflict},
		{"duplicate email", "other", "alice@example.com", "pw", apperr.KindConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Users.Register(tt.username, tt.email, tt.password)
			assertKind(t, err, tt.kind)
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	svc, _ := newTestServices(t, config.SharingConfig{})
	u := mustRegister(t, svc, "alice")

	got, err := svc.Users.Authenticate("alice", "alice-pw")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Users.Authenticate("alice", "wrong")
	assertKind(t, err, apperr.KindUnauthorized)

	_, err = svc.Users.Authenticate("nobody", "alice-pw")
	assertKind(t, err, apperr.KindUnauthorized)

	_, err = svc.Users.Authenticate("", "")
	assertKind(t, err, apperr.KindInvalidInput)
}

func TestUserService_Update(t *testing.T) {
	svc, _ := newTestServices(t, config.SharingConfig{})
	alice := mustRegister(t, svc, "alice")
	mustRegister(t, svc, "bob")

	t.Run("keeps password when empty", func(t *testing.T) {
		require.NoError(t, svc.Users.Update(alice.ID, "alice2", "alice2@example.com", ""))
		_, err := svc.Users.Authenticate("alice2", "alice-pw")
		require.NoError(t, err)
	})

	t.Run("changes password", func(t *testing.T) {
		require.NoError(t, svc.Users.Update(alice.ID, "alice2", "alice2@example.com", "new-pw"))
		_, err := svc.Users.Authenticate("alice2", "new-pw")
		require.NoError(t, err)
		_, err = svc.Users.Authenticate("alice2", "alice-pw")
		assertKind(t, err, apperr.KindUnauthorized)
	})

	t.Run("conflict", func(t *testing.T) {
		err := svc.Users.Update(alice.ID, "bob", "alice2@example.com", "")
		assertKind(t, err, apperr.KindConflict)
	})

	t.Run("missing user", func(t *testing.T) {
		err := svc.Users.Update(999, "ghost", "ghost@example.com", "")
		assertKind(t, err, apperr.KindNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		err := svc.Users.Update(alice.ID, "", "alice2@example.com", "")
		assertKind(t, err, apperr.KindInvalidInput)
	})
}

func TestUserService_DeleteCascade(t *testing.T) {
	svc, orm := newTestServices(t, config.SharingConfig{})
	alice := mustRegister(t, svc, "alice")
	bob := mustRegister(t, svc, "bob")
	carol := mustRegister(t, svc, "carol")
	befriend(t, svc, alice, bob)
	_, err := svc.Friendships.SendRequest(carol.ID, "alice")
	require.NoError(t, err)

	// alice 分享给 bob，bob 收藏
	aliceShare, err := svc.Shares.CreateShare(alice.ID, CreateShareInput{Title: "a", Content: "https://a", SharedWith: []uint{bob.ID}})
	require.NoError(t, err)
	require.NoError(t, svc.Folders.SetMembership(aliceShare.ID, bob.ID, []string{model.FolderFavorites}))

	// bob 分享给 alice，alice 收藏
	bobShare, err := svc.Shares.CreateShare(bob.ID, CreateShareInput{Title: "b", Content: "https://b", SharedWith: []uint{alice.ID}})
	require.NoError(t, err)
	require.NoError(t, svc.Folders.SetMembership(bobShare.ID, alice.ID, []string{model.FolderImportant}))

	require.NoError(t, svc.Users.Delete(alice.ID))

	count := func(m interface{}, query string, args ...interface{}) int64 {
		var n int64
		require.NoError(t, orm.Model(m).Where(query, args...).Count(&n).Error)
		return n
	}
	assert.Zero(t, count(&model.User{}, "id = ?", alice.ID))
	assert.Zero(t, count(&model.Share{}, "user_id = ?", alice.ID))
	assert.Zero(t, count(&model.Folder{}, "user_id = ?", alice.ID))
	assert.Zero(t, count(&model.FolderMembership{}, "user_id = ? OR share_id = ?", alice.ID, aliceShare.ID))
	assert.Zero(t, count(&model.Friendship{}, "user_id = ? OR friend_id = ?", alice.ID, alice.ID))
	assert.Zero(t, count(&model.FriendRequest{}, "from_user_id = ? OR to_user_id = ?", alice.ID, alice.ID))

	// 其他用户的数据保留
	assert.Equal(t, int64(1), count(&model.Share{}, "id = ?", bobShare.ID))
	assert.Equal(t, int64(2), count(&model.Folder{}, "user_id = ?", bob.ID))

	friends, err := svc.Friendships.ListFriends(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	t.Run("username reusable", func(t *testing.T) {
		_, err := svc.Users.Register("alice", "alice@example.com", "pw")
		require.NoError(t, err)
	})

	t.Run("missing user", func(t *testing.T) {
		assertKind(t, svc.Users.Delete(9999), apperr.KindNotFound)
	})
}

func TestUserService_LongPassword(t *testing.T) {
	svc, _ := newTestServices(t, config.SharingConfig{})
	long := strings.Repeat("a", 73)

	u, err := svc.Users.Register("longpw", "longpw@example.com", long)
	require.NoError(t, err)
	_, err = svc.Users.Authenticate("longpw", long)
	require.NoError(t, err)

	longer := strings.Repeat("b", 200)
	require.NoError(t, svc.Users.Update(u.ID, "longpw", "longpw@example.com", longer))
	_, err = svc.Users.Authenticate("longpw", longer)
	require.NoError(t, err)
	_, err = svc.Users.Authenticate("longpw", long)
	assertKind(t, err, apperr.KindUnauthorized)
}
