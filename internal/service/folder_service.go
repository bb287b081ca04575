package service

import (
	"strings"

	"share-system/internal/apperr"
	"share-system/internal/model"
	"share-system/internal/repository"
	"share-system/pkg/logger"
	"share-system/pkg/monitoring"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultFolderIcon 用户文件夹默认图标
const DefaultFolderIcon = "📁"

// FolderService 文件夹树与分享归属
type FolderService struct {
	orm    *gorm.DB
	repo   *repository.FolderRepository
	shares *repository.ShareRepository
	users  *repository.UserRepository
}

func NewFolderService(orm *gorm.DB, repo *repository.FolderRepository, shares *repository.ShareRepository, users *repository.UserRepository) *FolderService {
	return &FolderService{orm: orm, repo: repo, shares: shares, users: users}
}

// InitializeDefaultFolders 创建收藏/重要两个系统文件夹，重复调用无副作用
func (s *FolderService) InitializeDefaultFolders(userID uint) error {
	if _, err := s.users.GetByID(userID); err != nil {
		return err
	}
	return s.repo.InsertDefaults(userID)
}

// CreateFolderInput 创建文件夹的入参，ID 为空时由服务端生成
type CreateFolderInput struct {
	ID       string
	Name     string
	Icon     string
	ParentID string
}

// CreateFolder 创建用户文件夹
func (s *FolderService) CreateFolder(userID uint, in CreateFolderInput) (*model.Folder, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.ParentID = strings.TrimSpace(in.ParentID)

	err := validation.ValidateStruct(&in,
		validation.Field(&in.ID, validation.Length(0, 64), validation.NotIn(model.FolderAll).Error("is reserved")),
		validation.Field(&in.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&in.Icon, validation.Length(0, 32)),
	)
	if err != nil {
		return nil, apperr.InvalidInput("%s", err.Error())
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Icon == "" {
		in.Icon = DefaultFolderIcon
	}

	if _, err := s.users.GetByID(userID); err != nil {
		return nil, err
	}

	var parentID *string
	if in.ParentID != "" && in.ParentID != model.FolderAll {
		if _, err := s.repo.Get(userID, in.ParentID); err != nil {
			return nil, err
		}
		parentID = &in.ParentID
	}

	folder := &model.Folder{
		UserID:   userID,
		ID:       in.ID,
		Name:     in.Name,
		Icon:     in.Icon,
		Type:     model.FolderTypeUser,
		ParentID: parentID,
		Expanded: true,
	}
	if err := s.repo.Create(folder); err != nil {
		return nil, err
	}
	logger.Info("文件夹已创建", zap.Uint("user_id", userID), zap.String("folder_id", folder.ID))
	return folder, nil
}

// editable 文件夹必须存在且不是系统文件夹
func (s *FolderService) editable(userID uint, folderID string) (*model.Folder, error) {
	folder, err := s.repo.Get(userID, folderID)
	if err != nil {
		return nil, err
	}
	if folder.IsSystem() {
		return nil, apperr.Forbidden("system folder %q cannot be modified", folderID)
	}
	return folder, nil
}

// RenameFolder 重命名
func (s *FolderService) RenameFolder(folderID string, userID uint, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.InvalidInput("folder name is required")
	}
	if _, err := s.editable(userID, folderID); err != nil {
		return err
	}
	return s.repo.UpdateName(userID, folderID, name)
}

// DeleteFolder 删除文件夹，分享本身不受影响
func (s *FolderService) DeleteFolder(folderID string, userID uint) error {
	if _, err := s.editable(userID, folderID); err != nil {
		return err
	}
	if err := s.repo.Delete(userID, folderID); err != nil {
		return err
	}
	logger.Info("文件夹已删除", zap.Uint("user_id", userID), zap.String("folder_id", folderID))
	return nil
}

// SetExpanded 展开/折叠，系统文件夹也允许
func (s *FolderService) SetExpanded(folderID string, userID uint, expanded bool) error {
	if _, err := s.repo.Get(userID, folderID); err != nil {
		return err
	}
	return s.repo.UpdateExpanded(userID, folderID, expanded)
}

// SetMembership 整体替换分享在该用户下所属的文件夹
func (s *FolderService) SetMembership(shareID, userID uint, folderIDs []string) error {
	ids, err := normalizeFolderIDs(folderIDs)
	if err != nil {
		return err
	}
	err = s.orm.Transaction(func(tx *gorm.DB) error {
		return s.replaceMembership(tx, shareID, userID, ids)
	})
	if err != nil {
		return err
	}
	monitoring.MembershipUpdates.Inc()
	logger.Debug("分享归属已更新", zap.Uint("share_id", shareID), zap.Uint("user_id", userID), zap.Strings("folder_ids", ids))
	return nil
}

// ToggleMembership 将分享加入或移出单个文件夹，返回新的文件夹集合
func (s *FolderService) ToggleMembership(shareID, userID uint, folderID string) ([]string, error) {
	folderID = strings.TrimSpace(folderID)
	if folderID == "" || folderID == model.FolderAll {
		return nil, apperr.InvalidInput("invalid folder id %q", folderID)
	}

	var next []string
	err := s.orm.Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.WithTx(tx).ListShareFolders(userID, shareID)
		if err != nil {
			return err
		}
		next = toggle(current, folderID)
		return s.replaceMembership(tx, shareID, userID, next)
	})
	if err != nil {
		return nil, err
	}
	monitoring.MembershipUpdates.Inc()
	return next, nil
}

// replaceMembership 在给定事务内校验并写入
func (s *FolderService) replaceMembership(tx *gorm.DB, shareID, userID uint, ids []string) error {
	if _, err := s.users.WithTx(tx).GetByID(userID); err != nil {
		return err
	}
	if _, err := s.shares.WithTx(tx).GetByID(shareID); err != nil {
		return err
	}

	folders := s.repo.WithTx(tx)
	count, err := folders.CountExisting(userID, ids)
	if err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return apperr.NotFound("one or more folders not found")
	}
	return folders.ReplaceMembership(shareID, userID, ids)
}

// ListMembership 文件夹中的分享ID；虚拟文件夹 all 返回全部收到的分享
func (s *FolderService) ListMembership(userID uint, folderID string) ([]uint, error) {
	if folderID == model.FolderAll {
		received, err := s.shares.ListReceived(userID)
		if err != nil {
			return nil, err
		}
		ids := make([]uint, 0, len(received))
		for i := range received {
			ids = append(ids, received[i].ID)
		}
		return ids, nil
	}
	return s.repo.ListMembership(userID, folderID)
}

// ListShareFolders 分享所在的文件夹ID
func (s *FolderService) ListShareFolders(userID, shareID uint) ([]string, error) {
	return s.repo.ListShareFolders(userID, shareID)
}

// ListFolders 用户的文件夹，系统文件夹在前
func (s *FolderService) ListFolders(userID uint) ([]model.Folder, error) {
	return s.repo.ListByUser(userID)
}

// FolderContents 文件夹中当前仍可见的分享
func (s *FolderService) FolderContents(userID uint, folderID string) ([]model.ReceivedShare, error) {
	received, err := s.shares.ListReceived(userID)
	if err != nil {
		return nil, err
	}
	if folderID == model.FolderAll {
		return received, nil
	}

	if _, err := s.repo.Get(userID, folderID); err != nil {
		return nil, err
	}
	ids, err := s.repo.ListMembership(userID, folderID)
	if err != nil {
		return nil, err
	}
	member := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		member[id] = struct{}{}
	}

	out := make([]model.ReceivedShare, 0, len(ids))
	for _, share := range received {
		if _, ok := member[share.ID]; ok {
			out = append(out, share)
		}
	}
	return out, nil
}

// normalizeFolderIDs 去空白、去重并拒绝虚拟文件夹
func normalizeFolderIDs(folderIDs []string) ([]string, error) {
	seen := make(map[string]struct{}, len(folderIDs))
	ids := make([]string, 0, len(folderIDs))
	for _, raw := range folderIDs {
		id := strings.TrimSpace(raw)
		if id == "" || id == model.FolderAll {
			return nil, apperr.InvalidInput("invalid folder id %q", raw)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// toggle 与 {folderID} 求对称差
func toggle(current []string, folderID string) []string {
	next := make([]string, 0, len(current)+1)
	found := false
	for _, id := range current {
		if id == folderID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if !found {
		next = append(next, folderID)
	}
	return next
}
