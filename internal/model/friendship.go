package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// FriendRequestStatusPending 好友申请仅持久化 pending 状态，同意/拒绝时直接删除记录
const FriendRequestStatusPending = "pending"

// Friendship 好友关系（无向）
// UserID 为申请发起方，FriendID 为同意方
// PairKey = "小ID:大ID"，唯一索引保证同一对用户最多一条记录

type Friendship struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index;comment:申请方ID"`
	FriendID  uint      `gorm:"not null;index;comment:同意方ID"`
	PairKey   string    `gorm:"type:varchar(64);not null;uniqueIndex;comment:无序用户对"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (Friendship) TableName() string { return "friendship" }

// BeforeCreate 填充 PairKey
func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	f.PairKey = PairKey(f.UserID, f.FriendID)
	return nil
}

// Other 返回关系中的另一方
func (f *Friendship) Other(userID uint) uint {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}

// PairKey 生成无序用户对的键
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// FriendRequest 好友申请（有向）

type FriendRequest struct {
	ID         uint      `gorm:"primaryKey"`
	FromUserID uint      `gorm:"not null;uniqueIndex:idx_friend_request_pair;comment:发起方ID"`
	ToUserID   uint      `gorm:"not null;uniqueIndex:idx_friend_request_pair;index;comment:接收方ID"`
	Status     string    `gorm:"type:varchar(32);not null;default:'pending';comment:申请状态"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
}

func (FriendRequest) TableName() string { return "friend_request" }
