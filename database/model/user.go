package model

// Роли пользователей. Роль меняется только операциями администратора,
// никогда самой сессией.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	Id           int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	Name         string `json:"name" gorm:"size:50;not null"`
	Password     string `json:"-" gorm:"-"` // raw password in transit, never persisted
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	Role         string `json:"role" gorm:"not null;default:user"`
}
