package redis

import (
	"fmt"
	"strconv"
	"time"
)

// 好友缓存相关常量
const (
	FriendIDsKeyPrefix = "share:friends:" // 好友ID集合key前缀
	emptyMarker        = "0"              // 没有好友时写入的占位成员，防止缓存穿透
)

// FriendCacheTTL 好友ID缓存过期时间（由配置覆盖）
var FriendCacheTTL = 10 * time.Minute

func friendKey(userID uint) string {
	return fmt.Sprintf("%s%d", FriendIDsKeyPrefix, userID)
}

// GetCachedFriendIDs 读取缓存的好友ID；未命中返回 (nil, false, nil)
func GetCachedFriendIDs(userID uint) ([]uint, bool, error) {
	if client == nil {
		return nil, false, ErrNotInitialized
	}

	members, err := client.SMembers(ctx, friendKey(userID)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("读取好友缓存失败: %w", err)
	}
	if len(members) == 0 {
		return nil, false, nil
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		if m == emptyMarker {
			continue
		}
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, true, nil
}

// CacheFriendIDs 写入好友ID集合
func CacheFriendIDs(userID uint, ids []uint) error {
	if client == nil {
		return ErrNotInitialized
	}

	key := friendKey(userID)
	pipe := client.TxPipeline()
	pipe.Del(ctx, key)
	if len(ids) == 0 {
		pipe.SAdd(ctx, key, emptyMarker)
	} else {
		members := make([]interface{}, 0, len(ids))
		for _, id := range ids {
			members = append(members, id)
		}
		pipe.SAdd(ctx, key, members...)
	}
	pipe.Expire(ctx, key, FriendCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("写入好友缓存失败: %w", err)
	}
	return nil
}

// InvalidateFriendIDs 删除若干用户的好友缓存；Redis 未启用时为空操作
func InvalidateFriendIDs(userIDs ...uint) error {
	if client == nil || len(userIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, friendKey(id))
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("删除好友缓存失败: %w", err)
	}
	return nil
}
