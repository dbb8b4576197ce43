package controller_test

import (
	"fmt"
	"net/http"
	"testing"

	"kantodex/models"
	"kantodex/utils"
)

type pokemonPage struct {
	Pokemon []models.Pokemon `json:"pokemon"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

func TestListPokemonOrderedByPokedexNumber(t *testing.T) {
	app, db := newTestApp(t)
	// Insert out of order to check the sort.
	createPokemon(t, db, 7, "squirtle", "Carapuce", "Eau")
	createPokemon(t, db, 1, "bulbasaur", "Bulbizarre", "Plante", "Poison")
	createPokemon(t, db, 4, "charmander", "Salamèche", "Feu")

	res, data := doRequest(t, app, http.MethodGet, "/pokemon", "", nil)
	expectStatus(t, res, data, http.StatusOK)

	var page pokemonPage
	decodeJSON(t, data, &page)
	if page.Total != 3 {
		t.Fatalf("total = %d, want 3", page.Total)
	}
	want := []int{1, 4, 7}
	for i, pokemon := range page.Pokemon {
		if pokemon.PokedexNumber != want[i] {
			t.Fatalf("entry %d has number %d, want %d", i, pokemon.PokedexNumber, want[i])
		}
		if len(pokemon.Types) == 0 {
			t.Fatalf("types not preloaded for %s", pokemon.Name)
		}
	}
}

func TestListPokemonSearch(t *testing.T) {
	app, db := newTestApp(t)
	createPokemon(t, db, 1, "bulbasaur", "Bulbizarre", "Plante", "Poison")
	createPokemon(t, db, 4, "charmander", "Salamèche", "Feu")

	// Matches the localized name.
	res, data := doRequest(t, app, http.MethodGet, "/pokemon?search=sala", "", nil)
	expectStatus(t, res, data, http.StatusOK)
	var page pokemonPage
	decodeJSON(t, data, &page)
	if page.Total != 1 || len(page.Pokemon) != 1 || page.Pokemon[0].Name != "charmander" {
		t.Fatalf("search=sala returned %+v", page.Pokemon)
	}

	// Matches the english name, case-insensitively.
	res, data = doRequest(t, app, http.MethodGet, "/pokemon?search=BULBA", "", nil)
	expectStatus(t, res, data, http.StatusOK)
	decodeJSON(t, data, &page)
	if page.Total != 1 || page.Pokemon[0].Name != "bulbasaur" {
		t.Fatalf("search=BULBA returned %+v", page.Pokemon)
	}
}

func TestListPokemonTypeFilter(t *testing.T) {
	app, db := newTestApp(t)
	createPokemon(t, db, 1, "bulbasaur", "Bulbizarre", "Plante", "Poison")
	createPokemon(t, db, 4, "charmander", "Salamèche", "Feu")
	createPokemon(t, db, 7, "squirtle", "Carapuce", "Eau")

	res, data := doRequest(t, app, http.MethodGet, "/pokemon?type=Feu", "", nil)
	expectStatus(t, res, data, http.StatusOK)
	var page pokemonPage
	decodeJSON(t, data, &page)
	if page.Total != 1 || len(page.Pokemon) != 1 || page.Pokemon[0].Name != "charmander" {
		t.Fatalf("type=Feu returned %+v", page.Pokemon)
	}

	// A dual-typed creature must appear once, not once per matching row.
	res, data = doRequest(t, app, http.MethodGet, "/pokemon?type=Poison", "", nil)
	expectStatus(t, res, data, http.StatusOK)
	decodeJSON(t, data, &page)
	if page.Total != 1 || len(page.Pokemon) != 1 {
		t.Fatalf("type=Poison returned total=%d len=%d", page.Total, len(page.Pokemon))
	}
}

func TestListPokemonPagination(t *testing.T) {
	app, db := newTestApp(t)
	for i := 1; i <= 5; i++ {
		createPokemon(t, db, i, fmt.Sprintf("creature-%d", i), fmt.Sprintf("Créature-%d", i), "Normal")
	}

	res, data := doRequest(t, app, http.MethodGet, "/pokemon?limit=2&offset=4", "", nil)
	expectStatus(t, res, data, http.StatusOK)
	var page pokemonPage
	decodeJSON(t, data, &page)
	if page.Total != 5 {
		t.Fatalf("total = %d, want 5", page.Total)
	}
	if len(page.Pokemon) != 1 || page.Pokemon[0].PokedexNumber != 5 {
		t.Fatalf("page = %+v", page.Pokemon)
	}

	res, data = doRequest(t, app, http.MethodGet, "/pokemon?limit=0", "", nil)
	expectStatus(t, res, data, http.StatusBadRequest)

	res, data = doRequest(t, app, http.MethodGet, "/pokemon?offset=-1", "", nil)
	expectStatus(t, res, data, http.StatusBadRequest)
}

func TestGetPokemonDetail(t *testing.T) {
	app, db := newTestApp(t)
	charmander := createPokemon(t, db, 4, "charmander", "Salamèche", "Feu")

	charmeleon := &models.Pokemon{
		PokedexNumber:      5,
		Name:               "charmeleon",
		NameFr:             "Reptincel",
		EvolvesFromID:      &charmander.ID,
		EvolutionCondition: utils.Pointer("Niveau 16"),
	}
	if err := db.Create(charmeleon).Error; err != nil {
		t.Fatalf("failed to create evolution: %v", err)
	}

	ember := models.Move{Name: "ember", NameFr: "Flammèche", Type: "Feu", Category: models.CategorySpecial, PP: 25}
	if err := db.Create(&ember).Error; err != nil {
		t.Fatalf("failed to create move: %v", err)
	}
	link := models.PokemonMove{
		PokemonID:    charmander.ID,
		MoveID:       ember.ID,
		LearnMethod:  models.LearnLevelUp,
		LevelLearned: utils.Pointer(9),
	}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("failed to link move: %v", err)
	}

	res, data := doRequest(t, app, http.MethodGet, fmt.Sprintf("/pokemon/%d", charmander.ID), "", nil)
	expectStatus(t, res, data, http.StatusOK)

	var detail models.Pokemon
	decodeJSON(t, data, &detail)
	if len(detail.Types) != 1 || detail.Types[0].NameFr != "Feu" {
		t.Errorf("types = %+v", detail.Types)
	}
	if len(detail.Moves) != 1 || detail.Moves[0].Move.Name != "ember" {
		t.Errorf("moves = %+v", detail.Moves)
	}
	if len(detail.EvolvesTo) != 1 || detail.EvolvesTo[0].Name != "charmeleon" {
		t.Errorf("evolvesTo = %+v", detail.EvolvesTo)
	}

	res, data = doRequest(t, app, http.MethodGet, fmt.Sprintf("/pokemon/%d", charmeleon.ID), "", nil)
	expectStatus(t, res, data, http.StatusOK)
	decodeJSON(t, data, &detail)
	if detail.EvolvesFrom == nil || detail.EvolvesFrom.Name != "charmander" {
		t.Errorf("evolvesFrom = %+v", detail.EvolvesFrom)
	}
}

func TestGetPokemonNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	res, data := doRequest(t, app, http.MethodGet, "/pokemon/9999", "", nil)
	expectStatus(t, res, data, http.StatusNotFound)

	res, data = doRequest(t, app, http.MethodGet, "/pokemon/abc", "", nil)
	expectStatus(t, res, data, http.StatusBadRequest)
}
