package models

import "time"

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "A"
	AccountStatusDisabled AccountStatus = "D"
)

type EmailStatus string

const (
	EmailStatusUnverified EmailStatus = "U"
	EmailStatusVerified   EmailStatus = "V"
)

type User struct {
	ID              string        `gorm:"primaryKey;type:varchar(32)" json:"id"`
	CreationDate    time.Time     `gorm:"not null" json:"creation_date"`
	AccountStatus   AccountStatus `gorm:"type:char(1);not null" json:"account_status"`
	Username        string        `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email           string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	EmailStatus     EmailStatus   `gorm:"type:char(1);not null" json:"email_status"`
	Password        []byte        `gorm:"type:bytea;not null" json:"-"`
	PasswordUpdated time.Time     `gorm:"not null" json:"-"`

	// Relations
	Maps      []Map      `gorm:"foreignKey:Uploader" json:"-"`
	Favorites []Favorite `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
