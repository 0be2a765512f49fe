package models

// Difficulty is one playable chart of a map. It has no existence outside
// its parent map.
type Difficulty struct {
	MapID          string `gorm:"primaryKey;type:varchar(32)" json:"map_id"`
	DifficultyName string `gorm:"primaryKey;type:varchar(255)" json:"difficulty_name"`
	Difficulty     *int   `json:"difficulty"`
}
