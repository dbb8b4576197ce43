package models

// Move learn methods
const (
	LearnLevelUp = "LEVEL_UP"
	LearnTM      = "TM"
	LearnEgg     = "EGG"
	LearnTutor   = "TUTOR"
)

// Move damage categories
const (
	CategoryPhysical = "PHYSICAL"
	CategorySpecial  = "SPECIAL"
	CategoryStatus   = "STATUS"
)

// Pokemon is an immutable catalog row. The 151 Kanto creatures are
// loaded once by cmd/populator and never mutated by the application.
type Pokemon struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	PokedexNumber int    `gorm:"uniqueIndex;not null" json:"pokedexNumber"`
	Name          string `gorm:"not null" json:"name"`
	NameFr        string `gorm:"not null" json:"nameFr"`
	Description   string `json:"description"`

	Height float64 `json:"height"` // meters
	Weight float64 `json:"weight"` // kilograms

	SpriteURL            string  `json:"spriteUrl"`
	SpriteShinyURL       string  `json:"spriteShinyUrl"`
	SpriteFemaleURL      *string `json:"spriteFemaleUrl"`
	SpriteShinyFemaleURL *string `json:"spriteShinyFemaleUrl"`

	HasGenderDifference  bool    `gorm:"default:false" json:"hasGenderDifference"`
	GenderDifferenceDesc *string `json:"genderDifferenceDesc"`

	EggType   string `json:"eggType"`
	EggCycles int    `gorm:"default:20" json:"eggCycles"`

	// Base stats
	HP             int `gorm:"column:hp" json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"specialAttack"`
	SpecialDefense int `json:"specialDefense"`
	Speed          int `json:"speed"`

	// Evolution chain, self-referential
	EvolvesFromID      *uint   `json:"evolvesFromId"`
	EvolutionCondition *string `json:"evolutionCondition"`

	// Relations
	Types       []PokemonType `gorm:"foreignKey:PokemonID" json:"types,omitempty"`
	Abilities   []Ability     `gorm:"foreignKey:PokemonID" json:"abilities,omitempty"`
	Moves       []PokemonMove `gorm:"foreignKey:PokemonID" json:"moves,omitempty"`
	EvolvesFrom *Pokemon      `gorm:"foreignKey:EvolvesFromID" json:"evolvesFrom,omitempty"`
	EvolvesTo   []Pokemon     `gorm:"foreignKey:EvolvesFromID" json:"evolvesTo,omitempty"`
}

// PokemonType is an elemental type tag attached to a creature.
type PokemonType struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PokemonID uint   `gorm:"not null;index" json:"pokemonId"`
	Name      string `gorm:"not null" json:"name"`
	NameFr    string `gorm:"not null" json:"nameFr"`
	Color     string `json:"color"`
}

// Ability is a passive talent of a creature.
type Ability struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	PokemonID   uint   `gorm:"not null;index" json:"pokemonId"`
	Name        string `gorm:"not null" json:"name"`
	NameFr      string `json:"nameFr"`
	Description string `json:"description"`
	IsHidden    bool   `gorm:"default:false" json:"isHidden"`
}

// Move is a learnable attack or status technique, shared across creatures.
type Move struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	NameFr      string `json:"nameFr"`
	Type        string `json:"type"`
	Category    string `gorm:"default:'STATUS'" json:"category"`
	Power       *int   `json:"power"`
	Accuracy    *int   `json:"accuracy"`
	PP          int    `gorm:"column:pp;default:10" json:"pp"`
	Description string `json:"description"`
}

// PokemonMove joins a creature to a move it can learn, with how and when.
type PokemonMove struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	PokemonID    uint   `gorm:"not null;index:idx_pokemon_move,unique" json:"pokemonId"`
	MoveID       uint   `gorm:"not null;index:idx_pokemon_move,unique" json:"moveId"`
	LearnMethod  string `gorm:"default:'LEVEL_UP'" json:"learnMethod"`
	LevelLearned *int   `json:"levelLearned"`

	// Relations
	Move Move `json:"move"`
}
