package models

import "time"

type Map struct {
	ID             string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	SubmissionDate time.Time `gorm:"not null" json:"submission_date"`
	Title          string    `gorm:"type:varchar(255);not null" json:"title"`
	Artist         string    `gorm:"type:varchar(255);not null" json:"artist"`
	Author         *string   `gorm:"type:varchar(255)" json:"author"`
	Uploader       string    `gorm:"type:varchar(32);not null;index" json:"uploader"`
	Description    *string   `gorm:"type:text" json:"description"`
	AlbumArt       *string   `gorm:"type:varchar(255)" json:"album_art"`
	Complexity     int       `gorm:"not null;default:0" json:"complexity"`

	// Relations
	Difficulties []Difficulty `gorm:"foreignKey:MapID;constraint:OnDelete:CASCADE" json:"difficulties,omitempty"`
	Favorites    []Favorite   `gorm:"foreignKey:MapID;constraint:OnDelete:CASCADE" json:"-"`
}
