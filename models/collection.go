package models

import "time"

// Collection is a trainer's bag of owned creature instances. Exactly one
// per trainer, created lazily on first access.
type Collection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID uint `gorm:"uniqueIndex;not null" json:"userId"`

	// Relations
	User    User              `json:"-"`
	Entries []CollectionEntry `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE" json:"entries"`
}

// CollectionEntry is one captured creature instance with its
// individualized attributes.
type CollectionEntry struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	CollectionID uint `gorm:"not null;index" json:"collectionId"`
	PokemonID    uint `gorm:"not null;index" json:"pokemonId"`

	Nickname *string `json:"nickname"`
	Level    int     `gorm:"default:1" json:"level"`
	Gender   string  `gorm:"default:'UNKNOWN'" json:"gender"`
	IsShiny  bool    `gorm:"default:false" json:"isShiny"`
	Nature   string  `gorm:"default:'Hardy'" json:"nature"`
	Pokeball string  `gorm:"default:'pokeball'" json:"pokeball"`

	// Individual values, 0..31
	IVHp        int `gorm:"column:iv_hp;default:0" json:"ivHp"`
	IVAttack    int `gorm:"column:iv_attack;default:0" json:"ivAttack"`
	IVDefense   int `gorm:"column:iv_defense;default:0" json:"ivDefense"`
	IVSpAttack  int `gorm:"column:iv_sp_attack;default:0" json:"ivSpAttack"`
	IVSpDefense int `gorm:"column:iv_sp_defense;default:0" json:"ivSpDefense"`
	IVSpeed     int `gorm:"column:iv_speed;default:0" json:"ivSpeed"`

	IsFavorite  bool      `gorm:"default:false" json:"isFavorite"`
	CaptureDate time.Time `gorm:"autoCreateTime" json:"captureDate"`

	// Relations
	Collection Collection `json:"-"`
	Pokemon    *Pokemon   `json:"pokemon,omitempty"`
}
