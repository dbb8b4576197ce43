package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"kantodex/config"
	"kantodex/models"
	"kantodex/utils"
)

const (
	apiBase         = "https://pokeapi.co/api/v2"
	kantoDexSize    = 151
	movesPerPokemon = 10
	fetchDelay      = 100 * time.Millisecond
)

var client = http.Client{Timeout: 60 * time.Second}

// typeTranslations maps PokeAPI type names to display names and colors.
var typeTranslations = map[string]struct {
	NameFr string
	Color  string
}{
	"normal":   {"Normal", "#A8A878"},
	"fire":     {"Feu", "#F08030"},
	"water":    {"Eau", "#6890F0"},
	"electric": {"Électrik", "#F8D030"},
	"grass":    {"Plante", "#78C850"},
	"ice":      {"Glace", "#98D8D8"},
	"fighting": {"Combat", "#C03028"},
	"poison":   {"Poison", "#A040A0"},
	"ground":   {"Sol", "#E0C068"},
	"flying":   {"Vol", "#A890F0"},
	"psychic":  {"Psy", "#F85888"},
	"bug":      {"Insecte", "#A8B820"},
	"rock":     {"Roche", "#B8A038"},
	"ghost":    {"Spectre", "#705898"},
	"dragon":   {"Dragon", "#7038F8"},
	"dark":     {"Ténèbres", "#705848"},
	"steel":    {"Acier", "#B8B8D0"},
	"fairy":    {"Fée", "#EE99AC"},
}

// PokeAPI response shapes, trimmed to what the loader reads.

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type apiPokemon struct {
	Name    string        `json:"name"`
	Height  int           `json:"height"` // decimeters
	Weight  int           `json:"weight"` // hectograms
	Species namedResource `json:"species"`
	Sprites struct {
		FrontDefault     string `json:"front_default"`
		FrontShiny       string `json:"front_shiny"`
		FrontFemale      string `json:"front_female"`
		FrontShinyFemale string `json:"front_shiny_female"`
	} `json:"sprites"`
	Stats []struct {
		BaseStat int           `json:"base_stat"`
		Stat     namedResource `json:"stat"`
	} `json:"stats"`
	Types []struct {
		Type namedResource `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability  namedResource `json:"ability"`
		IsHidden bool          `json:"is_hidden"`
	} `json:"abilities"`
	Moves []struct {
		Move                namedResource `json:"move"`
		VersionGroupDetails []struct {
			LevelLearnedAt  int           `json:"level_learned_at"`
			MoveLearnMethod namedResource `json:"move_learn_method"`
		} `json:"version_group_details"`
	} `json:"moves"`
}

type apiSpecies struct {
	Names []struct {
		Name     string        `json:"name"`
		Language namedResource `json:"language"`
	} `json:"names"`
	FlavorTextEntries []struct {
		FlavorText string        `json:"flavor_text"`
		Language   namedResource `json:"language"`
	} `json:"flavor_text_entries"`
	EggGroups            []namedResource `json:"egg_groups"`
	HatchCounter         int             `json:"hatch_counter"`
	HasGenderDifferences bool            `json:"has_gender_differences"`
	EvolutionChain       struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
}

type apiEvolutionChain struct {
	Chain apiChainLink `json:"chain"`
}

type apiChainLink struct {
	Species          namedResource  `json:"species"`
	EvolvesTo        []apiChainLink `json:"evolves_to"`
	EvolutionDetails []struct {
		MinLevel *int           `json:"min_level"`
		Item     *namedResource `json:"item"`
		Trigger  namedResource  `json:"trigger"`
	} `json:"evolution_details"`
}

type apiMove struct {
	Power       *int          `json:"power"`
	Accuracy    *int          `json:"accuracy"`
	PP          int           `json:"pp"`
	Type        namedResource `json:"type"`
	DamageClass namedResource `json:"damage_class"`
	Names       []struct {
		Name     string        `json:"name"`
		Language namedResource `json:"language"`
	} `json:"names"`
	FlavorTextEntries []struct {
		FlavorText string        `json:"flavor_text"`
		Language   namedResource `json:"language"`
	} `json:"flavor_text_entries"`
}

func fetchJSON(url string, dst interface{}) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}

// frenchName picks the fr localization, falling back to the canonical name.
func frenchName(names []struct {
	Name     string        `json:"name"`
	Language namedResource `json:"language"`
}, fallback string) string {
	for _, n := range names {
		if n.Language.Name == "fr" {
			return n.Name
		}
	}
	return fallback
}

func frenchFlavor(entries []struct {
	FlavorText string        `json:"flavor_text"`
	Language   namedResource `json:"language"`
}, fallback string) string {
	for _, e := range entries {
		if e.Language.Name == "fr" {
			return strings.ReplaceAll(e.FlavorText, "\n", " ")
		}
	}
	return fallback
}

// resourceID extracts the trailing numeric id from a PokeAPI resource URL.
func resourceID(url string) int {
	parts := strings.Split(strings.TrimRight(url, "/"), "/")
	id, _ := strconv.Atoi(parts[len(parts)-1])
	return id
}

func spriteOr(url string, fallback string) string {
	if url != "" {
		return url
	}
	return fallback
}

func loadPokemon(db *gorm.DB, number int) error {
	var existing models.Pokemon
	if err := db.Where("pokedex_number = ?", number).First(&existing).Error; err == nil {
		log.Printf("#%d already loaded, skipping", number)
		return nil
	}

	var data apiPokemon
	if err := fetchJSON(fmt.Sprintf("%s/pokemon/%d", apiBase, number), &data); err != nil {
		return err
	}
	var species apiSpecies
	if err := fetchJSON(data.Species.URL, &species); err != nil {
		return err
	}

	stats := map[string]int{}
	for _, s := range data.Stats {
		stats[s.Stat.Name] = s.BaseStat
	}

	eggGroups := make([]string, 0, len(species.EggGroups))
	for _, g := range species.EggGroups {
		eggGroups = append(eggGroups, g.Name)
	}

	eggCycles := species.HatchCounter
	if eggCycles == 0 {
		eggCycles = 20
	}

	pokemon := models.Pokemon{
		PokedexNumber: number,
		Name:          data.Name,
		NameFr:        frenchName(species.Names, data.Name),
		Description:   frenchFlavor(species.FlavorTextEntries, "Description non disponible"),
		Height:        float64(data.Height) / 10,
		Weight:        float64(data.Weight) / 10,
		SpriteURL: spriteOr(data.Sprites.FrontDefault,
			fmt.Sprintf("https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png", number)),
		SpriteShinyURL: spriteOr(data.Sprites.FrontShiny,
			fmt.Sprintf("https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/shiny/%d.png", number)),
		HasGenderDifference: species.HasGenderDifferences,
		EggType:             strings.Join(eggGroups, "/"),
		EggCycles:           eggCycles,
		HP:                  stats["hp"],
		Attack:              stats["attack"],
		Defense:             stats["defense"],
		SpecialAttack:       stats["special-attack"],
		SpecialDefense:      stats["special-defense"],
		Speed:               stats["speed"],
	}
	if data.Sprites.FrontFemale != "" {
		pokemon.SpriteFemaleURL = utils.Pointer(data.Sprites.FrontFemale)
	}
	if data.Sprites.FrontShinyFemale != "" {
		pokemon.SpriteShinyFemaleURL = utils.Pointer(data.Sprites.FrontShinyFemale)
	}
	if species.HasGenderDifferences {
		pokemon.GenderDifferenceDesc = utils.Pointer("Différences d'apparence entre mâle et femelle")
	}

	for _, t := range data.Types {
		translation, ok := typeTranslations[t.Type.Name]
		if !ok {
			translation.NameFr = t.Type.Name
			translation.Color = "#777"
		}
		pokemon.Types = append(pokemon.Types, models.PokemonType{
			Name:   t.Type.Name,
			NameFr: translation.NameFr,
			Color:  translation.Color,
		})
	}

	for _, a := range data.Abilities {
		pokemon.Abilities = append(pokemon.Abilities, models.Ability{
			Name:        a.Ability.Name,
			NameFr:      a.Ability.Name,
			Description: "Capacité du Pokémon",
			IsHidden:    a.IsHidden,
		})
	}

	return db.Create(&pokemon).Error
}

// findEvolution walks an evolution chain looking for the link that
// evolves from the creature with the given species id.
func findEvolution(chain apiChainLink, currentID int) (nextID int, condition string, found bool) {
	if resourceID(chain.Species.URL) == currentID && len(chain.EvolvesTo) > 0 {
		next := chain.EvolvesTo[0]
		condition = "Évolution"
		if len(next.EvolutionDetails) > 0 {
			detail := next.EvolutionDetails[0]
			switch {
			case detail.MinLevel != nil:
				condition = fmt.Sprintf("Niveau %d", *detail.MinLevel)
			case detail.Item != nil:
				condition = "Utiliser " + detail.Item.Name
			case detail.Trigger.Name != "":
				condition = detail.Trigger.Name
			}
		}
		return resourceID(next.Species.URL), condition, true
	}
	for _, evo := range chain.EvolvesTo {
		if nextID, condition, found = findEvolution(evo, currentID); found {
			return nextID, condition, true
		}
	}
	return 0, "", false
}

func loadEvolution(db *gorm.DB, number int) error {
	var data apiPokemon
	if err := fetchJSON(fmt.Sprintf("%s/pokemon/%d", apiBase, number), &data); err != nil {
		return err
	}
	var species apiSpecies
	if err := fetchJSON(data.Species.URL, &species); err != nil {
		return err
	}
	if species.EvolutionChain.URL == "" {
		return nil
	}

	var chain apiEvolutionChain
	if err := fetchJSON(species.EvolutionChain.URL, &chain); err != nil {
		return err
	}

	nextID, condition, found := findEvolution(chain.Chain, number)
	if !found || nextID > kantoDexSize {
		return nil
	}

	var from, to models.Pokemon
	if err := db.Where("pokedex_number = ?", number).First(&from).Error; err != nil {
		return err
	}
	if err := db.Where("pokedex_number = ?", nextID).First(&to).Error; err != nil {
		return err
	}

	log.Printf("%s -> %s (%s)", from.NameFr, to.NameFr, condition)
	return db.Model(&to).Updates(map[string]interface{}{
		"evolves_from_id":     from.ID,
		"evolution_condition": condition,
	}).Error
}

func loadMoves(db *gorm.DB, number int) error {
	var data apiPokemon
	if err := fetchJSON(fmt.Sprintf("%s/pokemon/%d", apiBase, number), &data); err != nil {
		return err
	}

	var pokemon models.Pokemon
	if err := db.Where("pokedex_number = ?", number).First(&pokemon).Error; err != nil {
		return err
	}

	moves := data.Moves
	if len(moves) > movesPerPokemon {
		moves = moves[:movesPerPokemon]
	}

	for _, moveData := range moves {
		var move models.Move
		err := db.Where("name = ?", moveData.Move.Name).First(&move).Error
		if err == gorm.ErrRecordNotFound {
			var details apiMove
			if err := fetchJSON(moveData.Move.URL, &details); err != nil {
				log.Printf("failed to fetch move %s: %v", moveData.Move.Name, err)
				continue
			}

			category := models.CategoryStatus
			switch details.DamageClass.Name {
			case "physical":
				category = models.CategoryPhysical
			case "special":
				category = models.CategorySpecial
			}

			pp := details.PP
			if pp == 0 {
				pp = 10
			}

			move = models.Move{
				Name:        moveData.Move.Name,
				NameFr:      frenchName(details.Names, moveData.Move.Name),
				Type:        details.Type.Name,
				Category:    category,
				Power:       details.Power,
				Accuracy:    details.Accuracy,
				PP:          pp,
				Description: frenchFlavor(details.FlavorTextEntries, "Capacité Pokémon"),
			}
			if err := db.Create(&move).Error; err != nil {
				log.Printf("failed to create move %s: %v", move.Name, err)
				continue
			}
			time.Sleep(fetchDelay / 2)
		} else if err != nil {
			return err
		}

		learnMethod := models.LearnLevelUp
		var levelLearned *int
		if len(moveData.VersionGroupDetails) > 0 {
			detail := moveData.VersionGroupDetails[0]
			switch detail.MoveLearnMethod.Name {
			case "machine":
				learnMethod = models.LearnTM
			case "egg":
				learnMethod = models.LearnEgg
			case "tutor":
				learnMethod = models.LearnTutor
			case "level-up":
				level := detail.LevelLearnedAt
				if level == 0 {
					level = 1
				}
				levelLearned = &level
			}
		}

		link := models.PokemonMove{
			PokemonID:    pokemon.ID,
			MoveID:       move.ID,
			LearnMethod:  learnMethod,
			LevelLearned: levelLearned,
		}
		// Duplicates fail against the unique index; that is fine.
		if err := db.Create(&link).Error; err != nil {
			continue
		}
	}

	return nil
}

func main() {
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.ConnectDB(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db := config.DB

	log.Printf("Loading the %d Kanto creatures from PokeAPI...", kantoDexSize)

	// Phase 1: creatures with types and abilities.
	for i := 1; i <= kantoDexSize; i++ {
		if err := loadPokemon(db, i); err != nil {
			log.Printf("failed to load #%d: %v", i, err)
			continue
		}
		time.Sleep(fetchDelay)
	}

	// Phase 2: evolution links, resolvable once every creature exists.
	for i := 1; i <= kantoDexSize; i++ {
		if err := loadEvolution(db, i); err != nil {
			log.Printf("failed to load evolutions for #%d: %v", i, err)
		}
		time.Sleep(fetchDelay)
	}

	// Phase 3: learnable moves.
	for i := 1; i <= kantoDexSize; i++ {
		if err := loadMoves(db, i); err != nil {
			log.Printf("failed to load moves for #%d: %v", i, err)
		}
		time.Sleep(fetchDelay)
	}

	log.Println("Catalog load complete")
	os.Exit(0)
}
