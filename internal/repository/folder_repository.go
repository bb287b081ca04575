package repository

import (
	"share-system/internal/apperr"
	"share-system/internal/model"
	"share-system/pkg/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FolderRepository 文件夹与归属关系仓储
type FolderRepository struct {
	orm *gorm.DB
}

func NewFolderRepository(orm *gorm.DB) *FolderRepository {
	return &FolderRepository{orm: orm}
}

// WithTx 返回绑定到事务的仓储
func (r *FolderRepository) WithTx(tx *gorm.DB) *FolderRepository {
	return &FolderRepository{orm: tx}
}

// InsertDefaults 幂等创建系统文件夹，已存在时忽略
func (r *FolderRepository) InsertDefaults(userID uint) error {
	folders := model.DefaultFolders(userID)
	return r.orm.Clauses(clause.OnConflict{DoNothing: true}).Create(&folders).Error
}

func (r *FolderRepository) Create(folder *model.Folder) error {
	if err := r.orm.Create(folder).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return apperr.Conflict("folder %q already exists", folder.ID)
		}
		return err
	}
	return nil
}

func (r *FolderRepository) Get(userID uint, folderID string) (*model.Folder, error) {
	var f model.Folder
	if err := r.orm.Where("user_id = ? AND id = ?", userID, folderID).First(&f).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound("folder %q not found", folderID)
		}
		return nil, err
	}
	return &f, nil
}

// ListByUser 用户全部文件夹：系统文件夹在前，其余按名称排序
func (r *FolderRepository) ListByUser(userID uint) ([]model.Folder, error) {
	folders := make([]model.Folder, 0)
	err := r.orm.Where("user_id = ?", userID).
		Order("CASE WHEN type = '" + model.FolderTypeSystem + "' THEN 0 ELSE 1 END, name ASC, id ASC").
		Find(&folders).Error
	return folders, err
}

// CountExisting 统计给定ID中属于该用户的文件夹数量
func (r *FolderRepository) CountExisting(userID uint, folderIDs []string) (int64, error) {
	if len(folderIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.orm.Model(&model.Folder{}).
		Where("user_id = ? AND id IN ?", userID, folderIDs).
		Count(&count).Error
	return count, err
}

func (r *FolderRepository) UpdateName(userID uint, folderID, name string) error {
	return r.orm.Model(&model.Folder{}).
		Where("user_id = ? AND id = ?", userID, folderID).
		Update("name", name).Error
}

func (r *FolderRepository) UpdateExpanded(userID uint, folderID string, expanded bool) error {
	return r.orm.Model(&model.Folder{}).
		Where("user_id = ? AND id = ?", userID, folderID).
		Update("expanded", expanded).Error
}

// Delete 删除文件夹：先删归属，子文件夹挂回根，再删文件夹本身；分享不受影响
func (r *FolderRepository) Delete(userID uint, folderID string) error {
	return r.orm.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND folder_id = ?", userID, folderID).
			Delete(&model.FolderMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Folder{}).
			Where("user_id = ? AND parent_id = ?", userID, folderID).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND id = ?", userID, folderID).Delete(&model.Folder{}).Error
	})
}

// ReplaceMembership 整体替换某分享在该用户下所属的文件夹集合
func (r *FolderRepository) ReplaceMembership(shareID, userID uint, folderIDs []string) error {
	return r.orm.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("share_id = ? AND user_id = ?", shareID, userID).
			Delete(&model.FolderMembership{}).Error; err != nil {
			return err
		}
		if len(folderIDs) == 0 {
			return nil
		}
		rows := make([]model.FolderMembership, 0, len(folderIDs))
		for _, id := range folderIDs {
			rows = append(rows, model.FolderMembership{ShareID: shareID, FolderID: id, UserID: userID})
		}
		return tx.Create(&rows).Error
	})
}

// ListMembership 某文件夹下的分享ID，按加入顺序
func (r *FolderRepository) ListMembership(userID uint, folderID string) ([]uint, error) {
	ids := make([]uint, 0)
	err := r.orm.Model(&model.FolderMembership{}).
		Where("user_id = ? AND folder_id = ?", userID, folderID).
		Order("id ASC").
		Pluck("share_id", &ids).Error
	return ids, err
}

// ListShareFolders 某分享在该用户下所属的文件夹ID
func (r *FolderRepository) ListShareFolders(userID, shareID uint) ([]string, error) {
	ids := make([]string, 0)
	err := r.orm.Model(&model.FolderMembership{}).
		Where("user_id = ? AND share_id = ?", userID, shareID).
		Order("id ASC").
		Pluck("folder_id", &ids).Error
	return ids, err
}
