package repository

import (
	"strconv"

	"share-system/internal/apperr"
	"share-system/internal/model"
	"share-system/pkg/db"

	"gorm.io/gorm"
)

// ShareRepository 分享数据仓储
type ShareRepository struct {
	orm *gorm.DB
}

// NewShareRepository 创建ShareRepository实例
func NewShareRepository(orm *gorm.DB) *ShareRepository {
	return &ShareRepository{orm: orm}
}

// WithTx 返回绑定到事务的仓储
func (r *ShareRepository) WithTx(tx *gorm.DB) *ShareRepository {
	return &ShareRepository{orm: tx}
}

// Create 创建分享
func (r *ShareRepository) Create(share *model.Share) error {
	return r.orm.Create(share).Error
}

// GetByID 根据ID获取分享
func (r *ShareRepository) GetByID(id uint) (*model.Share, error) {
	var share model.Share
	if err := r.orm.First(&share, id).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound("share %d not found", id)
		}
		return nil, err
	}
	return &share, nil
}

// ListByOwner 用户自己的分享，最新的在前
func (r *ShareRepository) ListByOwner(ownerID uint) ([]model.Share, error) {
	shares := make([]model.Share, 0)
	err := r.orm.Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&shares).Error
	return shares, err
}

// ListReceived 用户收到的分享（不含自己的），最新的在前
// LIKE 只用于缩小候选范围，是否包含以反序列化后的集合精确判断为准
func (r *ShareRepository) ListReceived(userID uint) ([]model.ReceivedShare, error) {
	var candidates []model.ReceivedShare
	err := r.orm.Table("share AS s").
		Select("s.*, u.username AS author_name").
		Joins("JOIN `user` u ON u.id = s.user_id").
		Where("s.user_id <> ?", userID).
		Where("s.shared_with LIKE ?", "%"+strconv.FormatUint(uint64(userID), 10)+"%").
		Order("s.created_at DESC, s.id DESC").
		Scan(&candidates).Error
	if err != nil {
		return nil, err
	}

	received := make([]model.ReceivedShare, 0, len(candidates))
	for i := range candidates {
		if candidates[i].SharedWith.Contains(userID) {
			received = append(received, candidates[i])
		}
	}
	return received, nil
}

// Delete 在一个事务内删除分享及其全部文件夹归属
func (r *ShareRepository) Delete(id uint) error {
	return r.orm.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("share_id = ?", id).Delete(&model.FolderMembership{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Share{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("share %d not found", id)
		}
		return nil
	})
}
