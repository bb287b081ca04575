package response

import (
	"net/http"
	"time"

	"share-system/internal/apperr"
	"share-system/internal/model"
	"share-system/internal/repository"
	"share-system/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TimeLayout 对外时间格式，带时区
const TimeLayout = time.RFC3339

// ErrorResponse 错误响应，message 由前端原样展示
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse 无数据的成功响应
type SuccessResponse struct {
	Success bool `json:"success"`
}

// IDResponse 创建类接口的响应
type IDResponse struct {
	ID uint `json:"id"`
}

// Success 成功响应，直接输出数据
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// OK 返回 {"success": true}
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// BadRequest 400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401错误
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFound 404错误
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500错误
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// FromError 按业务错误类别输出响应，内部错误只记录日志不暴露细节
func FromError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("请求处理失败",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		InternalError(c, "internal server error")
		return
	}
	Error(c, status, err.Error())
}

// UserInfo 用户信息（隐藏凭证）
type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// FilterUserInfo 过滤用户信息，隐藏敏感字段
func FilterUserInfo(user *model.User) *UserInfo {
	if user == nil {
		return nil
	}
	return &UserInfo{ID: user.ID, Username: user.Username, Email: user.Email}
}

// PendingRequestInfo 待处理好友申请
type PendingRequestInfo struct {
	ID           uint   `json:"id"`
	FromUserID   uint   `json:"fromUserId"`
	FromUsername string `json:"fromUsername"`
	FromEmail    string `json:"fromEmail"`
	CreatedAt    string `json:"createdAt"`
}

// FilterPendingRequests 转换待处理申请列表
func FilterPendingRequests(rows []repository.PendingRequest) []PendingRequestInfo {
	out := make([]PendingRequestInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, PendingRequestInfo{
			ID:           r.ID,
			FromUserID:   r.FromUserID,
			FromUsername: r.FromUsername,
			FromEmail:    r.FromEmail,
			CreatedAt:    r.CreatedAt.Format(TimeLayout),
		})
	}
	return out
}

// FriendInfo 好友信息
type FriendInfo struct {
	FriendshipID uint   `json:"friendshipId"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}

// FilterFriends 转换好友列表
func FilterFriends(rows []repository.Friend) []FriendInfo {
	out := make([]FriendInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, FriendInfo{
			FriendshipID: r.FriendshipID,
			ID:           r.UserID,
			Username:     r.Username,
			Email:        r.Email,
		})
	}
	return out
}

// ShareInfo 分享信息，sharedWith 为反序列化后的ID列表
type ShareInfo struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Type        string `json:"type"`
	SharedWith  []uint `json:"sharedWith"`
	CreatedAt   string `json:"createdAt"`
	AuthorName  string `json:"authorName,omitempty"`
}

// FilterShareInfo 转换单条分享
func FilterShareInfo(s *model.Share) ShareInfo {
	sharedWith := []uint(s.SharedWith)
	if sharedWith == nil {
		sharedWith = []uint{}
	}
	return ShareInfo{
		ID:          s.ID,
		UserID:      s.UserID,
		Title:       s.Title,
		Description: s.Description,
		Content:     s.Content,
		Type:        s.Type,
		SharedWith:  sharedWith,
		CreatedAt:   s.CreatedAt.Format(TimeLayout),
	}
}

// FilterShares 转换自己的分享列表
func FilterShares(shares []model.Share) []ShareInfo {
	out := make([]ShareInfo, 0, len(shares))
	for i := range shares {
		out = append(out, FilterShareInfo(&shares[i]))
	}
	return out
}

// FilterReceivedShares 转换收到的分享列表（带作者名）
func FilterReceivedShares(shares []model.ReceivedShare) []ShareInfo {
	out := make([]ShareInfo, 0, len(shares))
	for i := range shares {
		info := FilterShareInfo(&shares[i].Share)
		info.AuthorName = shares[i].AuthorName
		out = append(out, info)
	}
	return out
}

// FolderInfo 文件夹信息
type FolderInfo struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Icon      string  `json:"icon"`
	Type      string  `json:"type"`
	ParentID  *string `json:"parentId"`
	Expanded  bool    `json:"expanded"`
	UserID    uint    `json:"userId"`
	CreatedAt string  `json:"createdAt"`
}

// FilterFolders 转换文件夹列表
func FilterFolders(folders []model.Folder) []FolderInfo {
	out := make([]FolderInfo, 0, len(folders))
	for _, f := range folders {
		out = append(out, FolderInfo{
			ID:        f.ID,
			Name:      f.Name,
			Icon:      f.Icon,
			Type:      f.Type,
			ParentID:  f.ParentID,
			Expanded:  f.Expanded,
			UserID:    f.UserID,
			CreatedAt: f.CreatedAt.Format(TimeLayout),
		})
	}
	return out
}
