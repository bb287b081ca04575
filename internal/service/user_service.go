package service

import (
	"strings"

	"share-system/internal/apperr"
	"share-system/internal/model"
	"share-system/internal/repository"
	"share-system/pkg/logger"
	"share-system/pkg/monitoring"
	"share-system/pkg/password"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	orm     *gorm.DB
	repo    *repository.UserRepository
	folders *repository.FolderRepository
	friends *repository.FriendshipRepository
}

func NewUserService(orm *gorm.DB, repo *repository.UserRepository, folders *repository.FolderRepository, friends *repository.FriendshipRepository) *UserService {
	return &UserService{orm: orm, repo: repo, folders: folders, friends: friends}
}

// accountInput 注册/修改资料的入参
type accountInput struct {
	Username string
	Email    string
	Password string
}

func (in *accountInput) validate(requirePassword bool) error {
	passwordRules := []validation.Rule{}
	if requirePassword {
		passwordRules = append(passwordRules, validation.Required)
	}
	err := validation.ValidateStruct(in,
		validation.Field(&in.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&in.Email, validation.Required, validation.Length(1, 128), is.EmailFormat),
		validation.Field(&in.Password, passwordRules...),
	)
	if err != nil {
		return apperr.InvalidInput("%s", err.Error())
	}
	return nil
}

// Register 注册，同一事务内创建默认文件夹
func (s *UserService) Register(username, email, plainPassword string) (*model.User, error) {
	in := &accountInput{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: plainPassword,
	}
	if err := in.validate(true); err != nil {
		return nil, err
	}

	// 密码哈希
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}

	err = s.orm.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(user); err != nil {
			return err
		}
		return s.folders.WithTx(tx).InsertDefaults(user.ID)
	})
	if err != nil {
		return nil, err
	}

	monitoring.UsersRegistered.Inc()
	logger.Info("用户注册成功", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Authenticate 用户名+密码登录
func (s *UserService) Authenticate(username, plainPassword string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || plainPassword == "" {
		return nil, apperr.InvalidInput("username and password are required")
	}
	u, err := s.repo.GetByUsername(username)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, err
	}
	if !password.Verify(plainPassword, u.PasswordHash) {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	return u, nil
}

// Get 按ID获取用户
func (s *UserService) Get(userID uint) (*model.User, error) {
	return s.repo.GetByID(userID)
}

// Update 修改用户名/邮箱，密码为空时保留原密码
func (s *UserService) Update(userID uint, username, email, plainPassword string) error {
	in := &accountInput{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: plainPassword,
	}
	if err := in.validate(false); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(userID); err != nil {
		return err
	}

	var hash string
	if in.Password != "" {
		h, err := password.Hash(in.Password)
		if err != nil {
			return apperr.Internal(err)
		}
		hash = h
	}
	if err := s.repo.Update(userID, in.Username, in.Email, hash); err != nil {
		return err
	}
	logger.Info("用户资料已更新", zap.Uint("user_id", userID), zap.Bool("password_changed", hash != ""))
	return nil
}

// Delete 注销账号，级联删除分享、文件夹、好友关系与申请
func (s *UserService) Delete(userID uint) error {
	formerFriends, err := s.repo.Delete(userID)
	if err != nil {
		return err
	}
	s.friends.InvalidateFriendCache(append(formerFriends, userID)...)
	logger.Info("用户已注销", zap.Uint("user_id", userID), zap.Int("former_friends", len(formerFriends)))
	return nil
}
