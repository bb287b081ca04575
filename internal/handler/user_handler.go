package handler

import (
	"share-system/internal/service"
	"share-system/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *service.UserService
	folders *service.FolderService
}

func NewUserHandler(s *service.UserService, folders *service.FolderService) *UserHandler {
	return &UserHandler{service: s, folders: folders}
}

// Register 用户注册
func (h *UserHandler) Register(c *gin.Context) {
	type req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.service.Register(r.Username, r.Email, r.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterUserInfo(user))
}

// Login 用户登录
func (h *UserHandler) Login(c *gin.Context) {
	type req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.service.Authenticate(r.Username, r.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterUserInfo(user))
}

// Update 修改用户资料，password 为空时不修改
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	type req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.service.Update(userID, r.Username, r.Email, r.Password); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c)
}

// Delete 注销账号
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.service.Delete(userID); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c)
}

// InitFolders 初始化默认文件夹（幂等）
func (h *UserHandler) InitFolders(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.folders.InitializeDefaultFolders(userID); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c)
}
