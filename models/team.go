package models

import "time"

// MaxTeamSize caps the number of members per battle team.
const MaxTeamSize = 6

// Team is a trainer's named squad of up to six collection entries.
// At most one team per trainer carries the active flag.
type Team struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID   uint   `gorm:"not null;index" json:"userId"`
	Name     string `gorm:"not null" json:"name"`
	IsActive bool   `gorm:"default:false" json:"isActive"`

	// Relations
	User    User         `json:"-"`
	Members []TeamMember `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"members"`
}

// TeamMember places one collection entry at a position (1..6) in a team.
// The creature id is denormalized from the entry for cheap display.
type TeamMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	TeamID    uint `gorm:"not null;index" json:"teamId"`
	EntryID   uint `gorm:"not null;index" json:"entryId"`
	PokemonID uint `gorm:"not null" json:"pokemonId"`
	Position  int  `gorm:"not null" json:"position"`

	// Relations
	Team            *Team            `json:"-"`
	CollectionEntry *CollectionEntry `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"collectionEntry,omitempty"`
}
