package domain

import "time"

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"size:20;not null;default:'user'" json:"role"`

	Proxies []Proxy `gorm:"many2many:user_proxies;" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (user *User) IsAdmin() bool {
	return user.Role == "admin"
}
