package controller_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"kantodex/models"
)

func TestGetCollectionCreatedOnce(t *testing.T) {
	app, db := newTestApp(t)
	_, token := createUser(t, db, "sacha@example.com", models.RoleTrainer)

	res, data := doRequest(t, app, http.MethodGet, "/collection", token, nil)
	expectStatus(t, res, data, http.StatusOK)
	var first models.Collection
	decodeJSON(t, data, &first)
	if first.ID == 0 {
		t.Fatal("expected a collection id on first access")
	}
	if len(first.Entries) != 0 {
		t.Fatalf("new collection has %d entries, want 0", len(first.Entries))
	}
	if !strings.Contains(string(data), `"entries":[]`) {
		t.Fatalf("empty collection must serialize entries as [], got: %s", data)
	}

	res, data = doRequest(t, app, http.MethodGet, "/collection", token, nil)
	expectStatus(t, res, data, http.StatusOK)
	var second models.Collection
	decodeJSON(t, data, &second)
	if second.ID != first.ID {
		t.Fatalf("second access returned collection %d, want %d", second.ID, first.ID)
	}

	var count int64
	db.Model(&models.Collection{}).Count(&count)
	if count != 1 {
		t.Fatalf("collection count = %d, want 1", count)
	}
}

func TestAddEntryAppliesDefaults(t *testing.T) {
	app, db := newTestApp(t)
	_, token := createUser(t, db, "sacha@example.com", models.RoleTrainer)
	pikachu := createPokemon(t, db, 25, "pikachu", "Pikachu", "Électrik")

	res, data := doRequest(t, app, http.MethodPost, "/collection", token, map[string]interface{}{
		"pokemonId": pikachu.ID,
		"level":     7,
	})
	expectStatus(t, res, data, http.StatusCreated)

	var entry models.CollectionEntry
	decodeJSON(t, data, &entry)
	if entry.Level != 7 {
		t.Errorf("level = %d, want 7", entry.Level)
	}
	if entry.Gender != models.GenderUnknown {
		t.Errorf("gender = %q, want UNKNOWN", entry.Gender)
	}
	if entry.Nature != "Hardy" {
		t.Errorf("nature = %q, want Hardy", entry.Nature)
	}
	if entry.Pokeball != "pokeball" {
		t.Errorf("pokeball = %q, want pokeball", entry.Pokeball)
	}
	if entry.IVHp != 0 || entry.IVSpeed != 0 {
		t.Errorf("IVs = %d/%d, want 0/0", entry.IVHp, entry.IVSpeed)
	}
	if entry.Pokemon == nil || entry.Pokemon.Name != "pikachu" {
		t.Errorf("entry creature not preloaded: %+v", entry.Pokemon)
	}
	if entry.Pokemon != nil && len(entry.Pokemon.Types) != 1 {
		t.Errorf("creature types not preloaded")
	}
}

func TestAddEntryRejectsStringLevel(t *testing.T) {
	app, db := newTestApp(t)
	_, token := createUser(t, db, "sacha@example.com", models.RoleTrainer)
	pikachu := createPokemon(t, db, 25, "pikachu", "Pikachu", "Électrik")

	body := fmt.Sprintf(`{"pokemonId": %d, "level": "7"}`, pikachu.ID)
	res, data := doRawRequest(t, app, http.MethodPost, "/collection", token, body)
	expectStatus(t, res, data, http.StatusBadRequest)

	var count int64
	db.Model(&models.CollectionEntry{}).Count(&count)
	if count != 0 {
		t.Fatalf("entry count = %d, want 0", count)
	}
}

func TestAddEntryRejectsOutOfRangeValues(t *testing.T) {
	app, db := newTestApp(t)
	_, token := createUser(t, db, "sacha@example.com", models.RoleTrainer)
	pikachu := createPokemon(t, db, 25, "pikachu", "Pikachu", "Électrik")

	for name, body := range map[string]map[string]interface{}{
		"level above cap": {"pokemonId": pikachu.ID, "level": 101},
		"negative iv":     {"pokemonId": pikachu.ID, "ivHp": -1},
		"iv above cap":    {"pokemonId": pikachu.ID, "ivSpeed": 32},
		"bad gender":      {"pokemonId": pikachu.ID, "gender": "ROBOT"},
	} {
		res, data := doRequest(t, app, http.MethodPost, "/collection", token, body)
		if res.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400 (body: %s)", name, res.StatusCode, data)
		}
	}
}

func TestAddEntryUnknownPokemon(t *testing.T) {
	app, db := newTestApp(t)
	_, token := createUser(t, db, "sacha@example.com", models.RoleTrainer)

	res, data := doRequest(t, app, http.MethodPost, "/collection", token, map[string]interface{}{
		"pokemonId": 9999,
	})
	expectStatus(t, res, data, http.StatusBadRequest)
}

func TestUpdateEntryRejectsUnknownField(t *testing.T) {
	app, db := newTestApp(t)
	user, token := createUser(t, db, "sacha@example.com", models.RoleTrainer)
	pikachu := createPokemon(t, db, 25, "pikachu", "Pikachu", "Électrik")
	raichu := createPokemon(t, db, 26, "raichu", "Raichu", "Électrik")
	entry := createEntry(t, db, user.ID, pikachu.ID)

	body := fmt.Sprintf(`{"pokemonId": %d}`, raichu.ID)
	res, data := doRawRequest(t, app, http.MethodPatch, fmt.Sprintf("/collection/%d", entry.ID), token, body)
	expectStatus(t, res, data, http.StatusBadRequest)

	var reloaded models.CollectionEntry
	if err := db.First(&reloaded, entry.ID).Error; err != nil {
		t.Fatalf("failed to reload entry: %v", err)
	}
	if reloaded.PokemonID != pikachu.ID {
		t.Fatalf("pokemonId changed to %d, want %d", reloaded.PokemonID, pikachu.ID)
	}
}

func TestUpdateEntryPatchesAllowedFields(t *testing.T) {
	app, db := newTestApp(t)
	user, token := createUser(t, db, "sacha@example.com", models.RoleTrainer)
	pikachu := createPokemon(t, db, 25, "pikachu", "Pikachu", "Électrik")
	entry := createEntry(t, db, user.ID, pikachu.ID)

	res, data := doRequest(t, app, http.MethodPatch, fmt.Sprintf("/collection/%d", entry.ID), token, map[string]interface{}{
		"nickname":   "Tonnerre",
		"isFavorite": true,
		"level":      42,
	})
	expectStatus(t, res, data, http.StatusOK)

	var updated models.CollectionEntry
	decodeJSON(t, data, &updated)
	if updated.Nickname == nil || *updated.Nickname != "Tonnerre" {
		t.Errorf("nickname not applied: %v", updated.Nickname)
	}
	if !updated.IsFavorite {
		t.Error("isFavorite not applied")
	}
	if updated.Level != 42 {
		t.Errorf("level = %d, want 42", updated.Level)
	}
	if updated.Nature != "Hardy" {
		t.Errorf("untouched field changed: nature = %q", updated.Nature)
	}
}

func TestEntryOwnershipEnforced(t *testing.T) {
	app, db := newTestApp(t)
	owner, _ := createUser(t, db, "sacha@example.com", models.RoleTrainer)
	_, intruderToken := createUser(t, db, "ondine@example.com", models.RoleTrainer)
	pikachu := createPokemon(t, db, 25, "pikachu", "Pikachu", "Électrik")
	entry := createEntry(t, db, owner.ID, pikachu.ID)

	path := fmt.Sprintf("/collection/%d", entry.ID)

	res, data := doRequest(t, app, http.MethodPatch, path, intruderToken, map[string]interface{}{"level": 99})
	expectStatus(t, res, data, http.StatusForbidden)

	res, data = doRequest(t, app, http.MethodDelete, path, intruderToken, nil)
	expectStatus(t, res, data, http.StatusForbidden)

	var count int64
	db.Model(&models.CollectionEntry{}).Where("id = ?", entry.ID).Count(&count)
	if count != 1 {
		t.Fatal("entry deleted by another trainer")
	}
}

func TestDeleteEntryRemovesTeamMemberships(t *testing.T) {
	app, db := newTestApp(t)
	user, token := createUser(t, db, "sacha@example.com", models.RoleTrainer)
	pikachu := createPokemon(t, db, 25, "pikachu", "Pikachu", "Électrik")
	entry := createEntry(t, db, user.ID, pikachu.ID)

	team := models.Team{UserID: user.ID, Name: "Kanto"}
	if err := db.Create(&team).Error; err != nil {
		t.Fatalf("failed to create team: %v", err)
	}
	member := models.TeamMember{TeamID: team.ID, EntryID: entry.ID, PokemonID: pikachu.ID, Position: 1}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("failed to create member: %v", err)
	}

	res, data := doRequest(t, app, http.MethodDelete, fmt.Sprintf("/collection/%d", entry.ID), token, nil)
	expectStatus(t, res, data, http.StatusOK)

	var members int64
	db.Model(&models.TeamMember{}).Where("entry_id = ?", entry.ID).Count(&members)
	if members != 0 {
		t.Fatalf("memberships left behind: %d", members)
	}
	var entries int64
	db.Model(&models.CollectionEntry{}).Where("id = ?", entry.ID).Count(&entries)
	if entries != 0 {
		t.Fatal("entry still present after delete")
	}
}

func TestCollectionRequiresTrainerRole(t *testing.T) {
	app, db := newTestApp(t)
	_, healerToken := createUser(t, db, "joelle@example.com", models.RoleHealer)

	res, data := doRequest(t, app, http.MethodGet, "/collection", healerToken, nil)
	expectStatus(t, res, data, http.StatusForbidden)

	res, data = doRequest(t, app, http.MethodGet, "/collection", "", nil)
	expectStatus(t, res, data, http.StatusUnauthorized)
}
