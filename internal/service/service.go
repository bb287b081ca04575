package service

import (
	"share-system/config"
	"share-system/internal/repository"

	"gorm.io/gorm"
)

// Services 全部业务服务
type Services struct {
	Users       *UserService
	Friendships *FriendshipService
	Shares      *ShareService
	Folders     *FolderService
}

// NewServices 基于同一个数据库连接组装仓储与服务
func NewServices(orm *gorm.DB, sharing config.SharingConfig) *Services {
	userRepo := repository.NewUserRepository(orm)
	friendRepo := repository.NewFriendshipRepository(orm)
	shareRepo := repository.NewShareRepository(orm)
	folderRepo := repository.NewFolderRepository(orm)

	friendships := NewFriendshipService(orm, friendRepo, userRepo)
	return &Services{
		Users:       NewUserService(orm, userRepo, folderRepo, friendRepo),
		Friendships: friendships,
		Shares:      NewShareService(shareRepo, userRepo, friendships, sharing.RestrictToFriends),
		Folders:     NewFolderService(orm, folderRepo, shareRepo, userRepo),
	}
}
