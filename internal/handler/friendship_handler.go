package handler

import (
	"share-system/internal/service"
	"share-system/pkg/response"

	"github.com/gin-gonic/gin"
)

type FriendshipHandler struct {
	service *service.FriendshipService
}

func NewFriendshipHandler(s *service.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{service: s}
}

// SendRequest 发送好友申请
func (h *FriendshipHandler) SendRequest(c *gin.Context) {
	type req struct {
		FromUserID uint   `json:"fromUserId" binding:"required"`
		ToUsername string `json:"toUsername"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	fr, err := h.service.SendRequest(r.FromUserID, r.ToUsername)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.IDResponse{ID: fr.ID})
}

// ListPending 待处理的好友申请
func (h *FriendshipHandler) ListPending(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	rows, err := h.service.ListPendingRequests(userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterPendingRequests(rows))
}

// Respond 接受/拒绝好友申请
func (h *FriendshipHandler) Respond(c *gin.Context) {
	requestID, ok := pathID(c, "requestId")
	if !ok {
		return
	}
	if err := h.service.Respond(requestID, c.Param("action")); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c)
}

// ListFriends 好友列表
func (h *FriendshipHandler) ListFriends(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	rows, err := h.service.ListFriends(userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterFriends(rows))
}
