package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Share 分享内容
// Content 为链接或文件名（不存储文件本身）
// SharedWith 以 JSON 文本存储接收者ID集合，创建后不可修改

type Share struct {
	ID          uint         `gorm:"primaryKey"`
	UserID      uint         `gorm:"not null;index;comment:分享者ID"`
	Title       string       `gorm:"type:varchar(255);not null;comment:标题"`
	Description string       `gorm:"type:text;comment:描述"`
	Content     string       `gorm:"type:text;not null;comment:链接或文件名"`
	Type        string       `gorm:"type:varchar(32);not null;default:'link';comment:类型"`
	SharedWith  RecipientSet `gorm:"type:text;not null;comment:接收者ID集合(JSON)"`
	CreatedAt   time.Time    `gorm:"index;comment:创建时间"`
}

func (Share) TableName() string { return "share" }

// ReceivedShare 收到的分享，附带作者用户名
type ReceivedShare struct {
	Share
	AuthorName string
}

// 分享类型
const (
	ShareTypeLink  = "link"
	ShareTypeImage = "image"
	ShareTypeFile  = "file"
)

// RecipientSet 接收者ID集合，保持插入顺序且无重复
type RecipientSet []uint

// NewRecipientSet 去重构造集合，保留首次出现的顺序
func NewRecipientSet(ids []uint) RecipientSet {
	seen := make(map[uint]struct{}, len(ids))
	set := make(RecipientSet, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		set = append(set, id)
	}
	return set
}

// Contains 精确判断ID是否在集合中
func (s RecipientSet) Contains(id uint) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Value 实现 driver.Valuer，序列化为 JSON 数组文本
func (s RecipientSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]uint(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner，从 JSON 文本反序列化
func (s *RecipientSet) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = RecipientSet{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported recipient set type %T", src)
	}
	if len(raw) == 0 {
		*s = RecipientSet{}
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("decode recipient set: %w", err)
	}
	*s = NewRecipientSet(ids)
	return nil
}
