package controller

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kantodex/models"
	"kantodex/utils"
)

type PokedexController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewPokedexController(db *gorm.DB, logger *log.Logger) *PokedexController {
	return &PokedexController{
		DB:     db,
		Logger: logger,
	}
}

// ListPokemon returns a catalog page ordered by pokedex number, with
// optional type and free-text filters.
func (pc *PokedexController) ListPokemon(c *fiber.Ctx) error {
	typeFilter := c.Query("type")
	search := c.Query("search")

	limit, err := strconv.Atoi(c.Query("limit", "151"))
	if err != nil || limit < 1 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid limit", err)
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid offset", err)
	}

	query := pc.DB.Model(&models.Pokemon{})

	if typeFilter != "" {
		query = query.
			Joins("JOIN pokemon_types ON pokemon_types.pokemon_id = pokemons.id").
			Where("pokemon_types.name = ? OR pokemon_types.name_fr = ?", typeFilter, typeFilter)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(pokemons.name) LIKE LOWER(?) OR LOWER(pokemons.name_fr) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Distinct("pokemons.id").Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch pokemon", err)
	}

	var pokemon []models.Pokemon
	if err := query.
		Distinct("pokemons.*").
		Preload("Types").
		Preload("Abilities").
		Order("pokemons.pokedex_number ASC").
		Limit(limit).
		Offset(offset).
		Find(&pokemon).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch pokemon", err)
	}

	return c.JSON(fiber.Map{
		"pokemon": pokemon,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetPokemon returns one catalog row with types, abilities, moves
// ordered by learn level, and both evolution directions.
func (pc *PokedexController) GetPokemon(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pokemon id", err)
	}

	var pokemon models.Pokemon
	if err := pc.DB.
		Preload("Types").
		Preload("Abilities").
		Preload("Moves", func(db *gorm.DB) *gorm.DB {
			return db.Order("pokemon_moves.level_learned ASC")
		}).
		Preload("Moves.Move").
		Preload("EvolvesFrom").
		Preload("EvolvesTo").
		First(&pokemon, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Pokemon not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch pokemon", err)
	}

	return c.JSON(pokemon)
}
