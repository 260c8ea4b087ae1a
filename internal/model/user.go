package model

// 认证方式
const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)

// User 用户模型
// 本地用户持有密码哈希；Google 用户持有 GoogleID，两者必居其一
type User struct {
	ID           int64   `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	Username     string  `gorm:"size:30;not null;uniqueIndex;comment:用户名" json:"username"`
	Email        string  `gorm:"size:255;not null;uniqueIndex;comment:邮箱（已转小写）" json:"email"`
	Password     string  `gorm:"size:255;comment:密码哈希（仅本地用户）" json:"-"` // json:"-" 序列化时忽略密码
	GoogleID     *string `gorm:"size:128;uniqueIndex;comment:Google 用户标识" json:"-"`
	PhotoURL     string  `gorm:"size:500;comment:用户头像" json:"photo_url"`
	AuthProvider string  `gorm:"size:20;not null;default:'local';comment:认证方式" json:"auth_provider"`
}

func (User) TableName() string {
	return "users"
}

// IsLocal 是否为本地密码用户
func (u *User) IsLocal() bool {
	return u.AuthProvider == AuthProviderLocal
}
