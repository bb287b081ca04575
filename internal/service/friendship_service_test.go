package service

import (
	"testing"

	"share-system/config"
	"share-system/internal/apperr"
	"share-system/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendshipService_SendRequest(t *testing.T) {
	svc, _ := newTestServices(t, config.SharingConfig{})
	alice := mustRegister(t, svc, "alice")
	bob := mustRegister(t, svc, "bob")
	carol := mustRegister(t, svc, "carol")

	req, err := svc.Friendships.SendRequest(alice.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, req.FromUserID)
	assert.Equal(t, bob.ID, req.ToUserID)

	tests := []struct {
		name   string
		fromID uint
		to     string
		kind   apperr.Kind
	}{
		{"empty target", alice.ID, "  ", apperr.KindInvalidInput},
		{"unknown target", alice.ID, "nobody", apperr.KindNotFound},
		{"unknown sender", 999, "bob", apperr.KindNotFound},
		{"self", alice.ID, "alice", apperr.KindInvalidInput},
		{"duplicate", alice.ID, "bob", apperr.KindConflict},
		{"reverse direction pending", bob.ID, "alice", apperr.KindConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Friendships.SendRequest(tt.fromID, tt.to)
			assertKind(t, err, tt.kind)
		})
	}

	t.Run("already friends", func(t *testing.T) {
		befriend(t, svc, carol, alice)
		_, err := svc.Friendships.SendRequest(alice.ID, "carol")
		assertKind(t, err, apperr.KindConflict)
	})
}

func TestFriendshipService_ListPending(t *testing.T) {
	svc, _ := newTestServices(t, config.SharingConfig{})
	alice := mustRegister(t, svc, "alice")
	bob := mustRegister(t, svc, "bob")
	carol := mustRegister(t, svc, "carol")

	_, err := svc.Friendships.SendRequest(bob.ID, "alice")
	require.NoError(t, err)
	_, err = svc.Friendships.SendRequest(carol.ID, "alice")
	require.NoError(t, err)

	pending, err := svc.Friendships.ListPendingRequests(alice.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "bob", pending[0].FromUsername)
	assert.Equal(t, "bob@example.com", pending[0].FromEmail)
	assert.Equal(t, "carol", pending[1].FromUsername)

	// 发起方看不到自己发出的申请
	sent, err := svc.Friendships.ListPendingRequests(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestFriendshipService_Respond(t *testing.T) {
	svc, _ := newTestServices(t, config.SharingConfig{})
	alice := mustRegister(t, svc, "alice")
	bob := mustRegister(t, svc, "bob")
	carol := mustRegister(t, svc, "carol")

	t.Run("accept creates one friendship", func(t *testing.T) {
		req, err := svc.Friendships.SendRequest(alice.ID, "bob")
		require.NoError(t, err)
		require.NoError(t, svc.Friendships.Respond(req.ID, "accept"))

		aliceFriends, err := svc.Friendships.ListFriends(alice.ID)
		require.NoError(t, err)
		require.Len(t, aliceFriends, 1)
		assert.Equal(t, bob.ID, aliceFriends[0].UserID)

		bobFriends, err := svc.Friendships.ListFriends(bob.ID)
		require.NoError(t, err)
		require.Len(t, bobFriends, 1)
		assert.Equal(t, alice.ID, bobFriends[0].UserID)
		assert.Equal(t, aliceFriends[0].FriendshipID, bobFriends[0].FriendshipID)

		ok, err := svc.Friendships.AreFriends(bob.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		pending, err := svc.Friendships.ListPendingRequests(bob.ID)
		require.NoError(t, err)
		assert.Empty(t, pending)

		// 申请已删除
		assertKind(t, svc.Friendships.Respond(req.ID, "accept"), apperr.KindNotFound)
	})

	t.Run("reject deletes the request", func(t *testing.T) {
		req, err := svc.Friendships.SendRequest(carol.ID, "alice")
		require.NoError(t, err)
		require.NoError(t, svc.Friendships.Respond(req.ID, "reject"))

		ok, err := svc.Friendships.AreFriends(alice.ID, carol.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		// 拒绝后可以重新申请
		_, err = svc.Friendships.SendRequest(carol.ID, "alice")
		require.NoError(t, err)
	})

	t.Run("invalid action", func(t *testing.T) {
		assertKind(t, svc.Friendships.Respond(1, "maybe"), apperr.KindInvalidInput)
	})

	t.Run("missing request", func(t *testing.T) {
		assertKind(t, svc.Friendships.Respond(9999, "reject"), apperr.KindNotFound)
	})
}

func TestFriendshipService_ListFriendsOrdered(t *testing.T) {
	svc, _ := newTestServices(t, config.SharingConfig{})
	me := mustRegister(t, svc, "me")
	zed := mustRegister(t, svc, "zed")
	amy := mustRegister(t, svc, "amy")
	befriend(t, svc, me, zed)
	befriend(t, svc, amy, me)

	friends, err := svc.Friendships.ListFriends(me.ID)
	require.NoError(t, err)
	require.Len(t, friends, 2)
	assert.Equal(t, "amy", friends[0].Username)
	assert.Equal(t, "zed", friends[1].Username)

	ids, err := svc.Friendships.FriendIDs(me.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{zed.ID, amy.ID}, ids)
}

func TestFriendshipService_AcceptClearsReverseRequest(t *testing.T) {
	svc, orm := newTestServices(t, config.SharingConfig{})
	alice := mustRegister(t, svc, "alice")
	bob := mustRegister(t, svc, "bob")

	// 两个方向的申请同时存在（并发发送时检查可能都通过）
	forward := &model.FriendRequest{FromUserID: alice.ID, ToUserID: bob.ID, Status: model.FriendRequestStatusPending}
	reverse := &model.FriendRequest{FromUserID: bob.ID, ToUserID: alice.ID, Status: model.FriendRequestStatusPending}
	require.NoError(t, orm.Create(forward).Error)
	require.NoError(t, orm.Create(reverse).Error)

	require.NoError(t, svc.Friendships.Respond(forward.ID, ActionAccept))

	for _, u := range []uint{alice.ID, bob.ID} {
		pending, err := svc.Friendships.ListPendingRequests(u)
		require.NoError(t, err)
		assert.Empty(t, pending)
	}
	assertKind(t, svc.Friendships.Respond(reverse.ID, ActionAccept), apperr.KindNotFound)

	friends, err := svc.Friendships.ListFriends(alice.ID)
	require.NoError(t, err)
	assert.Len(t, friends, 1)
}

func TestFriendshipService_AcceptWhenAlreadyFriends(t *testing.T) {
	svc, orm := newTestServices(t, config.SharingConfig{})
	alice := mustRegister(t, svc, "alice")
	bob := mustRegister(t, svc, "bob")
	befriend(t, svc, alice, bob)

	// 好友关系已建立后残留的申请
	stale := &model.FriendRequest{FromUserID: bob.ID, ToUserID: alice.ID, Status: model.FriendRequestStatusPending}
	require.NoError(t, orm.Create(stale).Error)

	assertKind(t, svc.Friendships.Respond(stale.ID, ActionAccept), apperr.KindNotFound)

	friends, err := svc.Friendships.ListFriends(alice.ID)
	require.NoError(t, err)
	assert.Len(t, friends, 1)
}
