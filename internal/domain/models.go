package domain

import "time"

// GroupTitleMaxLen - максимальная длина заголовка группы.
const GroupTitleMaxLen = 200

// User представляет пользователя (автора постов).
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	PasswordHash []byte    `json:"-" gorm:"not null"`
	IsStaff      bool      `json:"isStaff" gorm:"not null;default:false"`
	DateJoined   time.Time `json:"dateJoined" gorm:"not null;autoCreateTime"`
}

// Group представляет тематическое сообщество, к которому может относиться пост.
type Group struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"type:varchar(200);not null"`
	Slug        string `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text;not null;default:''"`
}

// Post представляет запись пользователя.
// Author и Group заполняются загрузчиками в слое представления, в БД пишутся только ID.
type Post struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	PubDate  time.Time `json:"pubDate" gorm:"not null;index;autoCreateTime"`
	AuthorID uint      `json:"authorId" gorm:"not null;index"`
	Author   *User     `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"` // gorm only
	GroupID  *uint     `json:"groupId,omitempty" gorm:"index"`
	Group    *Group    `json:"-" gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"` // gorm only
}

func (u *User) String() string {
	if u == nil {
		return ""
	}
	return u.Username
}

func (g *Group) String() string {
	if g == nil {
		return ""
	}
	return g.Title
}
