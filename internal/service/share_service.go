package service

import (
	"strings"

	"share-system/internal/apperr"
	"share-system/internal/model"
	"share-system/internal/repository"
	"share-system/pkg/logger"
	"share-system/pkg/monitoring"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"
)

// ShareService 分享的创建、查询与删除
type ShareService struct {
	repo              *repository.ShareRepository
	users             *repository.UserRepository
	friends           *FriendshipService
	restrictToFriends bool
}

func NewShareService(repo *repository.ShareRepository, users *repository.UserRepository, friends *FriendshipService, restrictToFriends bool) *ShareService {
	return &ShareService{repo: repo, users: users, friends: friends, restrictToFriends: restrictToFriends}
}

// CreateShareInput 创建分享的入参
type CreateShareInput struct {
	Title       string
	Description string
	Content     string
	Type        string
	SharedWith  []uint
}

// CreateShare 创建分享；接收者ID去重后原样保存
func (s *ShareService) CreateShare(ownerID uint, in CreateShareInput) (*model.Share, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Type = strings.TrimSpace(in.Type)
	if in.Type == "" {
		in.Type = model.ShareTypeLink
	}

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.Type, validation.Length(1, 32)),
	)
	if err != nil {
		return nil, apperr.InvalidInput("%s", err.Error())
	}

	if _, err := s.users.GetByID(ownerID); err != nil {
		return nil, err
	}

	recipients := model.NewRecipientSet(in.SharedWith)
	if s.restrictToFriends {
		if err := s.checkRecipients(ownerID, recipients); err != nil {
			return nil, err
		}
	}

	share := &model.Share{
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		Type:        in.Type,
		SharedWith:  recipients,
	}
	if err := s.repo.Create(share); err != nil {
		return nil, err
	}

	monitoring.SharesCreated.WithLabelValues(share.Type).Inc()
	logger.Info("分享已创建",
		zap.Uint("share_id", share.ID),
		zap.Uint("user_id", ownerID),
		zap.String("type", share.Type),
		zap.Int("recipients", len(recipients)),
	)
	return share, nil
}

// checkRecipients 仅允许分享给好友
func (s *ShareService) checkRecipients(ownerID uint, recipients model.RecipientSet) error {
	if len(recipients) == 0 {
		return nil
	}
	friendIDs, err := s.friends.FriendIDs(ownerID)
	if err != nil {
		return err
	}
	allowed := model.RecipientSet(friendIDs)
	for _, id := range recipients {
		if !allowed.Contains(id) {
			return apperr.InvalidInput("user %d is not a friend", id)
		}
	}
	return nil
}

// ListOwned 自己发出的分享，最新的在前
func (s *ShareService) ListOwned(ownerID uint) ([]model.Share, error) {
	return s.repo.ListByOwner(ownerID)
}

// ListReceived 别人分享给我的，最新的在前
func (s *ShareService) ListReceived(userID uint) ([]model.ReceivedShare, error) {
	return s.repo.ListReceived(userID)
}

// DeleteShare 删除分享及其全部文件夹归属；requesterID 非0时只允许作者删除
func (s *ShareService) DeleteShare(shareID, requesterID uint) error {
	share, err := s.repo.GetByID(shareID)
	if err != nil {
		return err
	}
	if requesterID != 0 && share.UserID != requesterID {
		return apperr.NotFound("share %d not found", shareID)
	}
	if err := s.repo.Delete(shareID); err != nil {
		return err
	}
	logger.Info("分享已删除", zap.Uint("share_id", shareID), zap.Uint("user_id", share.UserID))
	return nil
}
