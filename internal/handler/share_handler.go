package handler

import (
	"share-system/internal/service"
	"share-system/pkg/response"

	"github.com/gin-gonic/gin"
)

type ShareHandler struct {
	service *service.ShareService
}

func NewShareHandler(s *service.ShareService) *ShareHandler {
	return &ShareHandler{service: s}
}

// Create 创建分享
func (h *ShareHandler) Create(c *gin.Context) {
	type req struct {
		UserID      uint   `json:"userId" binding:"required"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		Type        string `json:"type"`
		SharedWith  []uint `json:"sharedWith"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	share, err := h.service.CreateShare(r.UserID, service.CreateShareInput{
		Title:       r.Title,
		Description: r.Description,
		Content:     r.Content,
		Type:        r.Type,
		SharedWith:  r.SharedWith,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.IDResponse{ID: share.ID})
}

// ListOwned 我发出的分享
func (h *ShareHandler) ListOwned(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	shares, err := h.service.ListOwned(userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterShares(shares))
}

// ListReceived 我收到的分享
func (h *ShareHandler) ListReceived(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	shares, err := h.service.ListReceived(userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterReceivedShares(shares))
}

// Delete 删除分享；带 userId 时只有作者可以删除
func (h *ShareHandler) Delete(c *gin.Context) {
	shareID, ok := pathID(c, "shareId")
	if !ok {
		return
	}
	requesterID, ok := queryID(c, "userId", false)
	if !ok {
		return
	}
	if err := h.service.DeleteShare(shareID, requesterID); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c)
}
