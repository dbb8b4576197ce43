package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kantodex/models"
	"kantodex/utils"
)

type CollectionController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewCollectionController(db *gorm.DB, logger *log.Logger) *CollectionController {
	return &CollectionController{
		DB:     db,
		Logger: logger,
	}
}

// GetCollection returns the caller's collection, creating an empty one
// on first access. Creation runs in a transaction so two simultaneous
// first accesses produce a single collection.
func (cc *CollectionController) GetCollection(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var collection models.Collection
	txErr := cc.DB.Transaction(func(tx *gorm.DB) error {
		err := forUpdate(tx).Where("user_id = ?", user.ID).First(&collection).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			collection = models.Collection{UserID: user.ID}
			return tx.Create(&collection).Error
		}
		return err
	})
	if txErr != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch collection", txErr)
	}

	if err := cc.DB.
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("collection_entries.capture_date DESC")
		}).
		Preload("Entries.Pokemon.Types").
		First(&collection, collection.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch collection", err)
	}
	if collection.Entries == nil {
		// An empty collection serializes as [], not null.
		collection.Entries = []models.CollectionEntry{}
	}

	return c.JSON(collection)
}

// AddEntry adds a captured creature to the caller's collection.
func (cc *CollectionController) AddEntry(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		PokemonID   uint    `json:"pokemonId" validate:"required"`
		Nickname    *string `json:"nickname" validate:"omitempty,max=50"`
		Level       *int    `json:"level" validate:"omitempty,min=1,max=100"`
		Gender      *string `json:"gender" validate:"omitempty,oneof=MALE FEMALE UNKNOWN"`
		IsShiny     *bool   `json:"isShiny"`
		Nature      *string `json:"nature" validate:"omitempty,max=30"`
		Pokeball    *string `json:"pokeball" validate:"omitempty,max=30"`
		IVHp        *int    `json:"ivHp" validate:"omitempty,min=0,max=31"`
		IVAttack    *int    `json:"ivAttack" validate:"omitempty,min=0,max=31"`
		IVDefense   *int    `json:"ivDefense" validate:"omitempty,min=0,max=31"`
		IVSpAttack  *int    `json:"ivSpAttack" validate:"omitempty,min=0,max=31"`
		IVSpDefense *int    `json:"ivSpDefense" validate:"omitempty,min=0,max=31"`
		IVSpeed     *int    `json:"ivSpeed" validate:"omitempty,min=0,max=31"`
		IsFavorite  *bool   `json:"isFavorite"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	var pokemon models.Pokemon
	if err := cc.DB.First(&pokemon, input.PokemonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown pokemon", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add to collection", err)
	}

	entry := models.CollectionEntry{
		PokemonID:  input.PokemonID,
		Nickname:   input.Nickname,
		Level:      1,
		Gender:     models.GenderUnknown,
		Nature:     "Hardy",
		Pokeball:   "pokeball",
		IsShiny:    input.IsShiny != nil && *input.IsShiny,
		IsFavorite: input.IsFavorite != nil && *input.IsFavorite,
	}
	if input.Level != nil {
		entry.Level = *input.Level
	}
	if input.Gender != nil {
		entry.Gender = *input.Gender
	}
	if input.Nature != nil {
		entry.Nature = *input.Nature
	}
	if input.Pokeball != nil {
		entry.Pokeball = *input.Pokeball
	}
	if input.IVHp != nil {
		entry.IVHp = *input.IVHp
	}
	if input.IVAttack != nil {
		entry.IVAttack = *input.IVAttack
	}
	if input.IVDefense != nil {
		entry.IVDefense = *input.IVDefense
	}
	if input.IVSpAttack != nil {
		entry.IVSpAttack = *input.IVSpAttack
	}
	if input.IVSpDefense != nil {
		entry.IVSpDefense = *input.IVSpDefense
	}
	if input.IVSpeed != nil {
		entry.IVSpeed = *input.IVSpeed
	}

	txErr := cc.DB.Transaction(func(tx *gorm.DB) error {
		var collection models.Collection
		err := forUpdate(tx).Where("user_id = ?", user.ID).First(&collection).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			collection = models.Collection{UserID: user.ID}
			if err := tx.Create(&collection).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		entry.CollectionID = collection.ID
		return tx.Create(&entry).Error
	})
	if txErr != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add to collection", txErr)
	}

	if err := cc.DB.Preload("Pokemon.Types").First(&entry, entry.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add to collection", err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// UpdateEntry patches an entry the caller owns. The allow-list is
// explicit: the referenced creature is immutable once captured.
func (cc *CollectionController) UpdateEntry(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	entryID := utils.ParseUint(c.Params("id"))

	var input struct {
		Nickname    *string `json:"nickname" validate:"omitempty,max=50"`
		Level       *int    `json:"level" validate:"omitempty,min=1,max=100"`
		Gender      *string `json:"gender" validate:"omitempty,oneof=MALE FEMALE UNKNOWN"`
		IsShiny     *bool   `json:"isShiny"`
		Nature      *string `json:"nature" validate:"omitempty,max=30"`
		Pokeball    *string `json:"pokeball" validate:"omitempty,max=30"`
		IVHp        *int    `json:"ivHp" validate:"omitempty,min=0,max=31"`
		IVAttack    *int    `json:"ivAttack" validate:"omitempty,min=0,max=31"`
		IVDefense   *int    `json:"ivDefense" validate:"omitempty,min=0,max=31"`
		IVSpAttack  *int    `json:"ivSpAttack" validate:"omitempty,min=0,max=31"`
		IVSpDefense *int    `json:"ivSpDefense" validate:"omitempty,min=0,max=31"`
		IVSpeed     *int    `json:"ivSpeed" validate:"omitempty,min=0,max=31"`
		IsFavorite  *bool   `json:"isFavorite"`
	}

	if err := utils.StrictBodyParser(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	var entry models.CollectionEntry
	if err := cc.DB.Preload("Collection").First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Entry not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update entry", err)
	}
	if entry.Collection.UserID != user.ID {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Not your entry", nil)
	}

	if input.Nickname != nil {
		entry.Nickname = input.Nickname
	}
	if input.Level != nil {
		entry.Level = *input.Level
	}
	if input.Gender != nil {
		entry.Gender = *input.Gender
	}
	if input.IsShiny != nil {
		entry.IsShiny = *input.IsShiny
	}
	if input.Nature != nil {
		entry.Nature = *input.Nature
	}
	if input.Pokeball != nil {
		entry.Pokeball = *input.Pokeball
	}
	if input.IVHp != nil {
		entry.IVHp = *input.IVHp
	}
	if input.IVAttack != nil {
		entry.IVAttack = *input.IVAttack
	}
	if input.IVDefense != nil {
		entry.IVDefense = *input.IVDefense
	}
	if input.IVSpAttack != nil {
		entry.IVSpAttack = *input.IVSpAttack
	}
	if input.IVSpDefense != nil {
		entry.IVSpDefense = *input.IVSpDefense
	}
	if input.IVSpeed != nil {
		entry.IVSpeed = *input.IVSpeed
	}
	if input.IsFavorite != nil {
		entry.IsFavorite = *input.IsFavorite
	}

	if err := cc.DB.Save(&entry).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update entry", err)
	}

	if err := cc.DB.Preload("Pokemon.Types").First(&entry, entry.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update entry", err)
	}

	return c.JSON(entry)
}

// DeleteEntry removes an entry the caller owns. Team memberships that
// reference the entry are deleted in the same transaction.
func (cc *CollectionController) DeleteEntry(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	entryID := utils.ParseUint(c.Params("id"))

	var entry models.CollectionEntry
	if err := cc.DB.Preload("Collection").First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Entry not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete entry", err)
	}
	if entry.Collection.UserID != user.ID {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Not your entry", nil)
	}

	txErr := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", entry.ID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entry).Error
	})
	if txErr != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete entry", txErr)
	}

	return c.JSON(fiber.Map{"success": true})
}
