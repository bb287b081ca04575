package model

import "time"

// User 用户模型
// 用户名、邮箱唯一；账号删除为物理删除，删除后用户名/邮箱可再次注册
// 凭证仅存储 PasswordHash

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"type:varchar(64);not null;uniqueIndex;comment:用户名"`
	Email        string    `gorm:"type:varchar(128);not null;uniqueIndex;comment:邮箱"`
	PasswordHash string    `gorm:"type:varchar(255);not null;comment:密码哈希"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名（全局配置使用单数表名）
func (User) TableName() string { return "user" }
