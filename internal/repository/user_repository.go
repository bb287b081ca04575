package repository

import (
	"share-system/internal/apperr"
	"share-system/internal/model"
	"share-system/pkg/db"

	"gorm.io/gorm"
)

type UserRepository struct {
	orm *gorm.DB
}

func NewUserRepository(orm *gorm.DB) *UserRepository {
	return &UserRepository{orm: orm}
}

// WithTx 返回绑定到事务的仓储
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{orm: tx}
}

func (r *UserRepository) Create(user *model.User) error {
	if err := r.orm.Create(user).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return apperr.Conflict("username or email already taken")
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	var u model.User
	if err := r.orm.First(&u, id).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound("user %d not found", id)
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var u model.User
	if err := r.orm.Where("username = ?", username).First(&u).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound("user %q not found", username)
		}
		return nil, err
	}
	return &u, nil
}

// Update 更新用户名/邮箱，passwordHash 为空时不修改凭证
func (r *UserRepository) Update(id uint, username, email, passwordHash string) error {
	updates := map[string]interface{}{
		"username": username,
		"email":    email,
	}
	if passwordHash != "" {
		updates["password_hash"] = passwordHash
	}

	res := r.orm.Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if db.IsDuplicateKey(res.Error) {
			return apperr.Conflict("username or email already taken")
		}
		return res.Error
	}
	return nil
}

// Delete 在一个事务内删除用户及其全部关联数据，返回原好友ID（用于清理缓存）
func (r *UserRepository) Delete(id uint) ([]uint, error) {
	var formerFriends []uint

	err := r.orm.Transaction(func(tx *gorm.DB) error {
		var u model.User
		if err := tx.Select("id").First(&u, id).Error; err != nil {
			if db.IsNotFound(err) {
				return apperr.NotFound("user %d not found", id)
			}
			return err
		}

		var friendships []model.Friendship
		if err := tx.Where("user_id = ? OR friend_id = ?", id, id).Find(&friendships).Error; err != nil {
			return err
		}
		for i := range friendships {
			formerFriends = append(formerFriends, friendships[i].Other(id))
		}

		ownShares := tx.Model(&model.Share{}).Select("id").Where("user_id = ?", id)
		steps := []func() error{
			// 自己的文件夹归属 + 别人对自己分享的归属
			func() error {
				return tx.Where("user_id = ? OR share_id IN (?)", id, ownShares).Delete(&model.FolderMembership{}).Error
			},
			func() error { return tx.Where("user_id = ?", id).Delete(&model.Share{}).Error },
			func() error { return tx.Where("user_id = ?", id).Delete(&model.Folder{}).Error },
			func() error {
				return tx.Where("user_id = ? OR friend_id = ?", id, id).Delete(&model.Friendship{}).Error
			},
			func() error {
				return tx.Where("from_user_id = ? OR to_user_id = ?", id, id).Delete(&model.FriendRequest{}).Error
			},
			func() error { return tx.Delete(&model.User{}, id).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return formerFriends, nil
}
