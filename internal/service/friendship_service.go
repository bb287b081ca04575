package service

import (
	"strings"

	"share-system/internal/apperr"
	"share-system/internal/model"
	"share-system/internal/repository"
	"share-system/pkg/logger"
	"share-system/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 好友申请处理动作
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// FriendshipService 好友申请与好友关系
type FriendshipService struct {
	orm   *gorm.DB
	repo  *repository.FriendshipRepository
	users *repository.UserRepository
}

func NewFriendshipService(orm *gorm.DB, repo *repository.FriendshipRepository, users *repository.UserRepository) *FriendshipService {
	return &FriendshipService{orm: orm, repo: repo, users: users}
}

// SendRequest 按用户名发起好友申请
func (s *FriendshipService) SendRequest(fromID uint, toUsername string) (*model.FriendRequest, error) {
	toUsername = strings.TrimSpace(toUsername)
	if toUsername == "" {
		return nil, apperr.InvalidInput("target username is required")
	}

	var req *model.FriendRequest
	err := s.orm.Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		friends := s.repo.WithTx(tx)

		if _, err := users.GetByID(fromID); err != nil {
			return err
		}
		target, err := users.GetByUsername(toUsername)
		if err != nil {
			return err
		}
		if target.ID == fromID {
			return apperr.InvalidInput("cannot send a friend request to yourself")
		}

		already, err := friends.AreFriends(fromID, target.ID)
		if err != nil {
			return err
		}
		if already {
			return apperr.Conflict("users are already friends")
		}
		pending, err := friends.HasPendingBetween(fromID, target.ID)
		if err != nil {
			return err
		}
		if pending {
			return apperr.Conflict("friend request already pending")
		}

		req = &model.FriendRequest{FromUserID: fromID, ToUserID: target.ID}
		return friends.CreateRequest(req)
	})
	if err != nil {
		return nil, err
	}

	monitoring.FriendRequests.WithLabelValues("sent").Inc()
	logger.Info("好友申请已发送",
		zap.Uint("request_id", req.ID),
		zap.Uint("from_user_id", req.FromUserID),
		zap.Uint("to_user_id", req.ToUserID),
	)
	return req, nil
}

// ListPendingRequests 用户收到的待处理申请
func (s *FriendshipService) ListPendingRequests(userID uint) ([]repository.PendingRequest, error) {
	return s.repo.ListPending(userID)
}

// Respond 接受或拒绝申请；申请记录在两种情况下都会被删除
func (s *FriendshipService) Respond(requestID uint, action string) error {
	action = strings.ToLower(strings.TrimSpace(action))
	if action != ActionAccept && action != ActionReject {
		return apperr.InvalidInput("invalid action %q", action)
	}

	var req *model.FriendRequest
	err := s.orm.Transaction(func(tx *gorm.DB) error {
		friends := s.repo.WithTx(tx)

		var err error
		req, err = friends.GetRequest(requestID)
		if err != nil {
			return err
		}
		// 先删申请，同一申请被并发处理时后到者得到 NotFound
		if err := friends.DeleteRequest(requestID); err != nil {
			return err
		}
		if action == ActionReject {
			return nil
		}

		// 双方互相发出的申请一并清理
		if err := friends.DeletePendingBetween(req.FromUserID, req.ToUserID); err != nil {
			return err
		}
		err = friends.CreateFriendship(&model.Friendship{UserID: req.FromUserID, FriendID: req.ToUserID})
		if apperr.KindOf(err) == apperr.KindConflict {
			return apperr.NotFound("friend request %d not found", requestID)
		}
		return err
	})
	if err != nil {
		return err
	}

	if action == ActionAccept {
		s.repo.InvalidateFriendCache(req.FromUserID, req.ToUserID)
	}
	monitoring.FriendRequests.WithLabelValues(action).Inc()
	logger.Info("好友申请已处理",
		zap.Uint("request_id", requestID),
		zap.String("action", action),
		zap.Uint("from_user_id", req.FromUserID),
		zap.Uint("to_user_id", req.ToUserID),
	)
	return nil
}

// ListFriends 好友列表，按用户名排序
func (s *FriendshipService) ListFriends(userID uint) ([]repository.Friend, error) {
	return s.repo.ListFriends(userID)
}

// FriendIDs 好友ID（优先读缓存）
func (s *FriendshipService) FriendIDs(userID uint) ([]uint, error) {
	return s.repo.FriendIDsCached(userID)
}

// AreFriends 两个用户是否为好友
func (s *FriendshipService) AreFriends(a, b uint) (bool, error) {
	ids, err := s.FriendIDs(a)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == b {
			return true, nil
		}
	}
	return false, nil
}
