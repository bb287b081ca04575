package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipientSet_ContainsIsExact(t *testing.T) {
	set := RecipientSet{21, 12, 100}

	assert.False(t, set.Contains(1))
	assert.False(t, set.Contains(2))
	assert.False(t, set.Contains(10))
	assert.True(t, set.Contains(21))
	assert.True(t, set.Contains(100))
}

func TestNewRecipientSet_DedupKeepsOrder(t *testing.T) {
	assert.Equal(t, RecipientSet{3, 1, 2}, NewRecipientSet([]uint{3, 1, 3, 2, 1}))
	assert.Equal(t, RecipientSet{}, NewRecipientSet(nil))
}

func TestRecipientSet_ValueAndScan(t *testing.T) {
	v, err := RecipientSet{5, 21}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[5,21]", v)

	v, err = RecipientSet(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var s RecipientSet
	require.NoError(t, s.Scan([]byte("[7,7,8]")))
	assert.Equal(t, RecipientSet{7, 8}, s)

	require.NoError(t, s.Scan(nil))
	assert.Empty(t, s)

	require.NoError(t, s.Scan(""))
	assert.Empty(t, s)

	assert.Error(t, s.Scan(42))
	assert.Error(t, s.Scan("not json"))
}

func TestPairKey_Unordered(t *testing.T) {
	assert.Equal(t, "2:9", PairKey(9, 2))
	assert.Equal(t, PairKey(4, 7), PairKey(7, 4))
}

func TestFriendship_Other(t *testing.T) {
	f := Friendship{UserID: 3, FriendID: 8}
	assert.Equal(t, uint(8), f.Other(3))
	assert.Equal(t, uint(3), f.Other(8))
}
