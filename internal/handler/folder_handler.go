package handler

import (
	"net/http"

	"share-system/internal/service"
	"share-system/pkg/response"

	"github.com/gin-gonic/gin"
)

type FolderHandler struct {
	service *service.FolderService
}

func NewFolderHandler(s *service.FolderService) *FolderHandler {
	return &FolderHandler{service: s}
}

// Create 创建文件夹，type 字段被忽略（总是用户文件夹）
func (h *FolderHandler) Create(c *gin.Context) {
	type req struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Icon     string  `json:"icon"`
		Type     string  `json:"type"`
		ParentID *string `json:"parentId"`
		UserID   uint    `json:"userId" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	in := service.CreateFolderInput{ID: r.ID, Name: r.Name, Icon: r.Icon}
	if r.ParentID != nil {
		in.ParentID = *r.ParentID
	}
	folder, err := h.service.CreateFolder(r.UserID, in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": folder.ID})
}

// List 用户的文件夹
func (h *FolderHandler) List(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	folders, err := h.service.ListFolders(userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterFolders(folders))
}

// Rename 重命名文件夹
func (h *FolderHandler) Rename(c *gin.Context) {
	type req struct {
		Name   string `json:"name"`
		UserID uint   `json:"userId" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.service.RenameFolder(c.Param("folderId"), r.UserID, r.Name); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c)
}

// SetExpanded 展开/折叠文件夹
func (h *FolderHandler) SetExpanded(c *gin.Context) {
	type req struct {
		UserID   uint  `json:"userId" binding:"required"`
		Expanded *bool `json:"expanded" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.service.SetExpanded(c.Param("folderId"), r.UserID, *r.Expanded); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c)
}

// Delete 删除文件夹
func (h *FolderHandler) Delete(c *gin.Context) {
	userID, ok := queryID(c, "userId", true)
	if !ok {
		return
	}
	if err := h.service.DeleteFolder(c.Param("folderId"), userID); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c)
}

// SetContent 整体替换分享所在的文件夹
func (h *FolderHandler) SetContent(c *gin.Context) {
	type req struct {
		ShareID   uint     `json:"shareId" binding:"required"`
		FolderIDs []string `json:"folderIds"`
		UserID    uint     `json:"userId" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.service.SetMembership(r.ShareID, r.UserID, r.FolderIDs); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c)
}

// ToggleContent 将分享加入/移出单个文件夹
func (h *FolderHandler) ToggleContent(c *gin.Context) {
	type req struct {
		ShareID  uint   `json:"shareId" binding:"required"`
		FolderID string `json:"folderId"`
		UserID   uint   `json:"userId" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ids, err := h.service.ToggleMembership(r.ShareID, r.UserID, r.FolderID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "folderIds": ids})
}

// Content 文件夹中的分享ID
func (h *FolderHandler) Content(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	ids, err := h.service.ListMembership(userID, c.Param("folderId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, ids)
}

// ShareFolders 分享所在的文件夹ID
func (h *FolderHandler) ShareFolders(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	shareID, ok := pathID(c, "shareId")
	if !ok {
		return
	}
	ids, err := h.service.ListShareFolders(userID, shareID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, ids)
}

// FolderShares 文件夹中的分享详情
func (h *FolderHandler) FolderShares(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	shares, err := h.service.FolderContents(userID, c.Param("folderId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterReceivedShares(shares))
}
