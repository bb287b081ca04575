package repository

import (
	"time"

	"share-system/internal/apperr"
	"share-system/internal/model"
	"share-system/pkg/db"
	"share-system/pkg/logger"
	"share-system/pkg/redis"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PendingRequest 待处理好友申请（附发起方信息）
type PendingRequest struct {
	ID           uint
	FromUserID   uint
	FromUsername string
	FromEmail    string
	CreatedAt    time.Time
}

// Friend 好友（关系中的另一方）
type Friend struct {
	FriendshipID uint
	UserID       uint
	Username     string
	Email        string
}

type FriendshipRepository struct {
	orm *gorm.DB
}

func NewFriendshipRepository(orm *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{orm: orm}
}

// WithTx 返回绑定到事务的仓储
func (r *FriendshipRepository) WithTx(tx *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{orm: tx}
}

func (r *FriendshipRepository) CreateRequest(req *model.FriendRequest) error {
	if req.Status == "" {
		req.Status = model.FriendRequestStatusPending
	}
	if err := r.orm.Create(req).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return apperr.Conflict("friend request already exists")
		}
		return err
	}
	return nil
}

func (r *FriendshipRepository) GetRequest(id uint) (*model.FriendRequest, error) {
	var req model.FriendRequest
	if err := r.orm.First(&req, id).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound("friend request %d not found", id)
		}
		return nil, err
	}
	return &req, nil
}

// DeleteRequest 删除申请，记录不存在时返回 NotFound
func (r *FriendshipRepository) DeleteRequest(id uint) error {
	res := r.orm.Delete(&model.FriendRequest{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("friend request %d not found", id)
	}
	return nil
}

// DeletePendingBetween 删除两个用户之间任一方向的待处理申请
func (r *FriendshipRepository) DeletePendingBetween(a, b uint) error {
	return r.orm.
		Where("((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)) AND status = ?",
			a, b, b, a, model.FriendRequestStatusPending).
		Delete(&model.FriendRequest{}).Error
}

// HasPendingBetween 两个用户之间（任一方向）是否存在待处理申请
func (r *FriendshipRepository) HasPendingBetween(a, b uint) (bool, error) {
	var count int64
	err := r.orm.Model(&model.FriendRequest{}).
		Where("((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)) AND status = ?",
			a, b, b, a, model.FriendRequestStatusPending).
		Count(&count).Error
	return count > 0, err
}

// AreFriends 直接查库判断好友关系
func (r *FriendshipRepository) AreFriends(a, b uint) (bool, error) {
	var count int64
	err := r.orm.Model(&model.Friendship{}).
		Where("pair_key = ?", model.PairKey(a, b)).
		Count(&count).Error
	return count > 0, err
}

func (r *FriendshipRepository) CreateFriendship(f *model.Friendship) error {
	if err := r.orm.Create(f).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return apperr.Conflict("users are already friends")
		}
		return err
	}
	return nil
}

// ListPending 用户收到的待处理申请，按创建时间升序
func (r *FriendshipRepository) ListPending(userID uint) ([]PendingRequest, error) {
	rows := make([]PendingRequest, 0)
	err := r.orm.Table("friend_request AS fr").
		Select("fr.id, fr.from_user_id, u.username AS from_username, u.email AS from_email, fr.created_at").
		Joins("JOIN `user` u ON u.id = fr.from_user_id").
		Where("fr.to_user_id = ? AND fr.status = ?", userID, model.FriendRequestStatusPending).
		Order("fr.created_at ASC, fr.id ASC").
		Scan(&rows).Error
	return rows, err
}

// ListFriends 用户的全部好友，按用户名排序
func (r *FriendshipRepository) ListFriends(userID uint) ([]Friend, error) {
	rows := make([]Friend, 0)
	err := r.orm.Table("friendship AS f").
		Select("f.id AS friendship_id, u.id AS user_id, u.username, u.email").
		Joins("JOIN `user` u ON u.id = CASE WHEN f.user_id = ? THEN f.friend_id ELSE f.user_id END", userID).
		Where("f.user_id = ? OR f.friend_id = ?", userID, userID).
		Order("u.username ASC").
		Scan(&rows).Error
	return rows, err
}

// FriendIDs 只获取好友ID列表
func (r *FriendshipRepository) FriendIDs(userID uint) ([]uint, error) {
	var friendships []model.Friendship
	if err := r.orm.Select("user_id", "friend_id").
		Where("user_id = ? OR friend_id = ?", userID, userID).
		Find(&friendships).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(friendships))
	for i := range friendships {
		ids = append(ids, friendships[i].Other(userID))
	}
	return ids, nil
}

// FriendIDsCached 获取好友ID列表（带缓存），Redis 不可用时回源数据库
func (r *FriendshipRepository) FriendIDsCached(userID uint) ([]uint, error) {
	if redis.Enabled() {
		ids, hit, err := redis.GetCachedFriendIDs(userID)
		if err == nil && hit {
			return ids, nil
		}
		if err != nil {
			logger.Warn("读取好友缓存失败，回源数据库", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	ids, err := r.FriendIDs(userID)
	if err != nil {
		return nil, err
	}
	if redis.Enabled() {
		if err := redis.CacheFriendIDs(userID, ids); err != nil {
			logger.Warn("写入好友缓存失败", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return ids, nil
}

// InvalidateFriendCache 好友关系变化后清理缓存
func (r *FriendshipRepository) InvalidateFriendCache(userIDs ...uint) {
	if err := redis.InvalidateFriendIDs(userIDs...); err != nil {
		logger.Warn("清理好友缓存失败", zap.Uints("user_ids", userIDs), zap.Error(err))
	}
}
