package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"kantodex/config"
	"kantodex/models"
	"kantodex/routes"
	"kantodex/utils"
	"kantodex/worker"
)

var testDBSeq int64

// newTestApp wires the full route surface against a fresh in-memory
// SQLite database.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig.JWTSecret = "test-secret"
	config.AppConfig.RateLimitLogin = 1000

	dsn := fmt.Sprintf("file:kantodex_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Pokemon{},
		&models.PokemonType{},
		&models.Ability{},
		&models.Move{},
		&models.PokemonMove{},
		&models.Collection{},
		&models.CollectionEntry{},
		&models.Team{},
		&models.TeamMember{},
		&models.PokeCenter{},
		&models.MedicalRecord{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	config.DB = db

	app := fiber.New()
	hub := worker.NewMedicalHub(log.New(io.Discard, "", 0))
	routes.SetupRoutes(app, db, hub)

	return app, db
}

// createUser inserts an account and returns it with a valid access token.
func createUser(t *testing.T, db *gorm.DB, email, role string) (*models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         email,
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	token, _, err := utils.GenerateJWTToken(user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return user, token
}

// createPokemon inserts a catalog row with the given type tags.
func createPokemon(t *testing.T, db *gorm.DB, number int, name, nameFr string, types ...string) *models.Pokemon {
	t.Helper()

	pokemon := &models.Pokemon{
		PokedexNumber: number,
		Name:          name,
		NameFr:        nameFr,
		HP:            45,
		Attack:        49,
		Defense:       49,
		Speed:         45,
	}
	for _, typ := range types {
		pokemon.Types = append(pokemon.Types, models.PokemonType{Name: typ, NameFr: typ, Color: "#777"})
	}
	if err := db.Create(pokemon).Error; err != nil {
		t.Fatalf("failed to create pokemon: %v", err)
	}
	return pokemon
}

// createEntry inserts a collection entry for the user, creating the
// collection when needed.
func createEntry(t *testing.T, db *gorm.DB, userID, pokemonID uint) *models.CollectionEntry {
	t.Helper()

	var collection models.Collection
	if err := db.Where(models.Collection{UserID: userID}).FirstOrCreate(&collection).Error; err != nil {
		t.Fatalf("failed to resolve collection: %v", err)
	}
	entry := &models.CollectionEntry{
		CollectionID: collection.ID,
		PokemonID:    pokemonID,
		Level:        5,
		Gender:       models.GenderUnknown,
		Nature:       "Hardy",
		Pokeball:     "pokeball",
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}
	return entry
}

// createPokeCenter inserts a care center.
func createPokeCenter(t *testing.T, db *gorm.DB, name string) *models.PokeCenter {
	t.Helper()

	center := &models.PokeCenter{Name: name, Location: "Centre-ville", City: name}
	if err := db.Create(center).Error; err != nil {
		t.Fatalf("failed to create poke center: %v", err)
	}
	return center
}

// testDeps bundles the fixtures the medical board tests share.
type testDeps struct {
	db           *gorm.DB
	trainer      *models.User
	trainerToken string
	healer       *models.User
	healerToken  string
	pokemon      *models.Pokemon
	center       *models.PokeCenter
}

// newMedicalApp builds an app with one trainer, one healer, a catalog
// creature and a care center already in place.
func newMedicalApp(t *testing.T) (*fiber.App, *testDeps) {
	t.Helper()

	app, db := newTestApp(t)
	trainer, trainerToken := createUser(t, db, "sacha@example.com", models.RoleTrainer)
	healer, healerToken := createUser(t, db, "joelle@example.com", models.RoleHealer)
	pokemon := createPokemon(t, db, 25, "pikachu", "Pikachu", "Électrik")
	center := createPokeCenter(t, db, "Centre d'Argenta")

	return app, &testDeps{
		db:           db,
		trainer:      trainer,
		trainerToken: trainerToken,
		healer:       healer,
		healerToken:  healerToken,
		pokemon:      pokemon,
		center:       center,
	}
}

// doRequest runs one request through the app and returns the response
// with its body fully read.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	res.Body.Close()
	return res, data
}

// doRawRequest sends a pre-encoded JSON body.
func doRawRequest(t *testing.T, app *fiber.App, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	res.Body.Close()
	return res, data
}

func decodeJSON(t *testing.T, data []byte, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", data, err)
	}
}

func expectStatus(t *testing.T, res *http.Response, data []byte, want int) {
	t.Helper()
	if res.StatusCode != want {
		t.Fatalf("status = %d, want %d (body: %s)", res.StatusCode, want, data)
	}
}
