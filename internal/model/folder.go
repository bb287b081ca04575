package model

import "time"

// 文件夹类型
const (
	FolderTypeSystem = "system"
	FolderTypeUser   = "user"
)

// 系统文件夹与虚拟"全部"文件夹ID
const (
	FolderFavorites = "favorites"
	FolderImportant = "important"
	FolderAll       = "all" // 虚拟文件夹，不落库，内容为全部收到的分享
)

// Folder 用户文件夹
// 主键为 (UserID, ID)：文件夹ID由客户端生成，按用户隔离

type Folder struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;comment:所属用户ID"`
	ID        string    `gorm:"primaryKey;type:varchar(64);comment:文件夹ID"`
	Name      string    `gorm:"type:varchar(128);not null;comment:名称"`
	Icon      string    `gorm:"type:varchar(32);comment:图标"`
	Type      string    `gorm:"type:varchar(16);not null;default:'user';comment:system/user"`
	ParentID  *string   `gorm:"type:varchar(64);comment:父文件夹ID"`
	Expanded  bool      `gorm:"not null;default:true;comment:是否展开"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (Folder) TableName() string { return "folder" }

// IsSystem 是否系统文件夹
func (f *Folder) IsSystem() bool { return f.Type == FolderTypeSystem }

// DefaultFolders 每个用户都应拥有的系统文件夹
func DefaultFolders(userID uint) []Folder {
	return []Folder{
		{UserID: userID, ID: FolderFavorites, Name: "Favoriten", Icon: "⭐", Type: FolderTypeSystem, Expanded: true},
		{UserID: userID, ID: FolderImportant, Name: "Wichtig", Icon: "❗", Type: FolderTypeSystem, Expanded: true},
	}
}

// FolderMembership 分享在某用户某文件夹中的归属

type FolderMembership struct {
	ID        uint      `gorm:"primaryKey"`
	ShareID   uint      `gorm:"not null;uniqueIndex:idx_share_folder_user;index;comment:分享ID"`
	FolderID  string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_share_folder_user;comment:文件夹ID"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_share_folder_user;index;comment:用户ID"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (FolderMembership) TableName() string { return "share_in_folder" }
