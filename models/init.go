package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPokeCenters inserts the Kanto care centers on first migration.
func SeedPokeCenters(db *gorm.DB) error {
	centers := []PokeCenter{
		{Name: "Centre Pokémon d'Argenta", Location: "Centre-ville", City: "Argenta"},
		{Name: "Centre Pokémon d'Azuria", Location: "Centre-ville", City: "Azuria"},
		{Name: "Centre Pokémon de Carmin sur Mer", Location: "Port", City: "Carmin sur Mer"},
		{Name: "Centre Pokémon de Safrania", Location: "Centre-ville", City: "Safrania"},
		{Name: "Centre Pokémon de Cramois'Île", Location: "Volcan", City: "Cramois'Île"},
	}
	for _, center := range centers {
		if err := db.FirstOrCreate(&center, "name = ?", center.Name).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedDemoUsers creates one trainer and one healer account for local
// development. Passwords match the original fixtures.
func SeedDemoUsers(db *gorm.DB) error {
	demo := []struct {
		user     User
		password string
	}{
		{User{Email: "sacha@pokemon.com", Name: "Sacha", Role: RoleTrainer, Badges: 4}, "pikachu"},
		{User{Email: "joelle@pokemon.com", Name: "Joëlle", Role: RoleHealer, Badges: 0}, "soin"},
	}
	for _, d := range demo {
		var existing User
		err := db.Where("email = ?", d.user.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		d.user.PasswordHash = string(hash)
		if err := db.Create(&d.user).Error; err != nil {
			return err
		}
	}
	return nil
}
