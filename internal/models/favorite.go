package models

import "time"

type Favorite struct {
	MapID         string    `gorm:"primaryKey;type:varchar(32)" json:"map_id"`
	UserID        string    `gorm:"primaryKey;type:varchar(32)" json:"user_id"`
	FavoritedDate time.Time `gorm:"not null" json:"favorited_date"`

	// Relations
	Map Map `gorm:"foreignKey:MapID" json:"map,omitempty"`
}
