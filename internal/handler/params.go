package handler

import (
	"strconv"

	"share-system/pkg/response"

	"github.com/gin-gonic/gin"
)

// pathID 解析正整数路径参数，失败时直接写 400
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := parseID(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryID 解析正整数查询参数；required 为 false 时缺省返回 0
func queryID(c *gin.Context, name string, required bool) (uint, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		if required {
			response.BadRequest(c, name+" is required")
			return 0, false
		}
		return 0, true
	}
	id, err := parseID(raw)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, strconv.ErrRange
	}
	return uint(id), nil
}
