package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kantodex/models"
	"kantodex/utils"
	"kantodex/worker"
)

var (
	errRecordNotFound   = errors.New("medical record not found")
	errRecordDischarged = errors.New("record already discharged")
	errUnknownCenter    = errors.New("unknown poke center")
)

type MedicalController struct {
	DB     *gorm.DB
	Logger *log.Logger
	Hub    *worker.MedicalHub
}

func NewMedicalController(db *gorm.DB, logger *log.Logger, hub *worker.MedicalHub) *MedicalController {
	return &MedicalController{
		DB:     db,
		Logger: logger,
		Hub:    hub,
	}
}

// recordPreload shapes a record the way the board consumes it: creature
// with types, trainer identity only, and the care center.
func recordPreload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Pokemon.Types").
		Preload("Trainer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Preload("PokeCenter")
}

// GetRecords lists records, newest admission first. The status filter
// accepts the "active"/"recovered" shorthands or an explicit status.
func (mc *MedicalController) GetRecords(c *fiber.Ctx) error {
	status := c.Query("status")

	query := recordPreload(mc.DB)
	switch status {
	case "":
		// no filter
	case "active":
		query = query.Where("status IN ?", []string{models.StatusInTreatment, models.StatusUnderObservation})
	case "recovered":
		query = query.Where("status = ?", models.StatusRecovered)
	default:
		if !models.IsValidMedicalStatus(status) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown status filter", nil)
		}
		query = query.Where("status = ?", status)
	}

	var records []models.MedicalRecord
	if err := query.Order("admission_date DESC").Find(&records).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch medical records", err)
	}

	return c.JSON(records)
}

// CreateRecord admits a trainer's creature into a care center.
func (mc *MedicalController) CreateRecord(c *fiber.Ctx) error {
	var input struct {
		TrainerID     uint     `json:"trainerId" validate:"required"`
		PokemonID     uint     `json:"pokemonId" validate:"required"`
		PokeCenterID  uint     `json:"pokeCenterId" validate:"required"`
		Status        *string  `json:"status" validate:"omitempty,oneof=IN_TREATMENT UNDER_OBSERVATION RECOVERED CRITICAL"`
		HealthPercent *int     `json:"healthPercent" validate:"omitempty,min=0,max=100"`
		Condition     string   `json:"condition" validate:"required,max=500"`
		Diagnosis     string   `json:"diagnosis" validate:"required,max=2000"`
		Treatment     *string  `json:"treatment" validate:"omitempty,max=2000"`
		Notes         *string  `json:"notes" validate:"omitempty,max=2000"`
		Height        *float64 `json:"height" validate:"omitempty,min=0"`
		Weight        *float64 `json:"weight" validate:"omitempty,min=0"`
		Gender        *string  `json:"gender" validate:"omitempty,oneof=MALE FEMALE UNKNOWN"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	var trainer models.User
	if err := mc.DB.Where("id = ? AND role = ?", input.TrainerID, models.RoleTrainer).First(&trainer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown trainer", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create medical record", err)
	}
	var pokemon models.Pokemon
	if err := mc.DB.First(&pokemon, input.PokemonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown pokemon", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create medical record", err)
	}
	var center models.PokeCenter
	if err := mc.DB.First(&center, input.PokeCenterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown poke center", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create medical record", err)
	}

	record := models.MedicalRecord{
		TrainerID:     input.TrainerID,
		PokemonID:     input.PokemonID,
		PokeCenterID:  input.PokeCenterID,
		Status:        models.StatusInTreatment,
		HealthPercent: 100,
		Condition:     input.Condition,
		Diagnosis:     input.Diagnosis,
		Treatment:     input.Treatment,
		Notes:         input.Notes,
		Gender:        models.GenderUnknown,
	}
	if input.Status != nil {
		record.Status = *input.Status
	}
	if input.HealthPercent != nil {
		record.HealthPercent = *input.HealthPercent
	}
	if input.Height != nil {
		record.Height = *input.Height
	}
	if input.Weight != nil {
		record.Weight = *input.Weight
	}
	if input.Gender != nil {
		record.Gender = *input.Gender
	}
	if record.Status == models.StatusRecovered {
		record.DischargeDate = utils.Pointer(time.Now())
	}

	if err := mc.DB.Create(&record).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create medical record", err)
	}

	if err := recordPreload(mc.DB).First(&record, record.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create medical record", err)
	}

	mc.Hub.Publish(worker.MedicalEvent{Event: worker.EventRecordCreated, Record: &record})

	return c.Status(fiber.StatusCreated).JSON(record)
}

// UpdateRecord patches a record. Any healer may edit any record
// (institutional ownership). A transition to RECOVERED without an
// explicit discharge date stamps the server time; RECOVERED itself is
// terminal.
func (mc *MedicalController) UpdateRecord(c *fiber.Ctx) error {
	recordID := utils.ParseUint(c.Params("id"))

	var input struct {
		Status        *string    `json:"status" validate:"omitempty,oneof=IN_TREATMENT UNDER_OBSERVATION RECOVERED CRITICAL"`
		HealthPercent *int       `json:"healthPercent" validate:"omitempty,min=0,max=100"`
		Condition     *string    `json:"condition" validate:"omitempty,max=500"`
		Diagnosis     *string    `json:"diagnosis" validate:"omitempty,max=2000"`
		Treatment     *string    `json:"treatment" validate:"omitempty,max=2000"`
		Notes         *string    `json:"notes" validate:"omitempty,max=2000"`
		DischargeDate *time.Time `json:"dischargeDate"`
		PokeCenterID  *uint      `json:"pokeCenterId"`
	}
	if err := utils.StrictBodyParser(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	var record models.MedicalRecord
	txErr := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&record, recordID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errRecordNotFound
			}
			return err
		}

		if input.Status != nil && record.Status == models.StatusRecovered && *input.Status != models.StatusRecovered {
			return errRecordDischarged
		}

		if input.Status != nil {
			record.Status = *input.Status
		}
		if input.HealthPercent != nil {
			record.HealthPercent = *input.HealthPercent
		}
		if input.Condition != nil {
			record.Condition = *input.Condition
		}
		if input.Diagnosis != nil {
			record.Diagnosis = *input.Diagnosis
		}
		if input.Treatment != nil {
			record.Treatment = input.Treatment
		}
		if input.Notes != nil {
			record.Notes = input.Notes
		}
		if input.PokeCenterID != nil {
			var center models.PokeCenter
			if err := tx.First(&center, *input.PokeCenterID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errUnknownCenter
				}
				return err
			}
			record.PokeCenterID = *input.PokeCenterID
		}
		if input.DischargeDate != nil {
			record.DischargeDate = input.DischargeDate
		} else if input.Status != nil && *input.Status == models.StatusRecovered && record.DischargeDate == nil {
			record.DischargeDate = utils.Pointer(time.Now())
		}

		return tx.Save(&record).Error
	})
	switch {
	case errors.Is(txErr, errRecordNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Medical record not found", nil)
	case errors.Is(txErr, errRecordDischarged):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "A recovered record cannot be reopened", nil)
	case errors.Is(txErr, errUnknownCenter):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown poke center", nil)
	case txErr != nil:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update medical record", txErr)
	}

	if err := recordPreload(mc.DB).First(&record, record.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update medical record", err)
	}

	mc.Hub.Publish(worker.MedicalEvent{Event: worker.EventRecordUpdated, Record: &record})

	return c.JSON(record)
}

// DeleteRecord removes a record unconditionally.
func (mc *MedicalController) DeleteRecord(c *fiber.Ctx) error {
	recordID := utils.ParseUint(c.Params("id"))

	var record models.MedicalRecord
	if err := mc.DB.First(&record, recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Medical record not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete medical record", err)
	}

	if err := mc.DB.Delete(&record).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete medical record", err)
	}

	mc.Hub.Publish(worker.MedicalEvent{Event: worker.EventRecordDeleted, Record: &record})

	return c.JSON(fiber.Map{"success": true})
}

// GetTrainers lists trainer accounts with their holdings so the intake
// form can pick a creature the trainer actually owns.
func (mc *MedicalController) GetTrainers(c *fiber.Ctx) error {
	var trainers []models.User
	if err := mc.DB.
		Select("id", "name", "email", "badges").
		Where("role = ?", models.RoleTrainer).
		Preload("Collections.Entries.Pokemon.Types").
		Order("name ASC").
		Find(&trainers).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch trainers", err)
	}

	return c.JSON(trainers)
}

// GetPokeCenters lists the care centers.
func (mc *MedicalController) GetPokeCenters(c *fiber.Ctx) error {
	var centers []models.PokeCenter
	if err := mc.DB.Order("name ASC").Find(&centers).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch poke centers", err)
	}

	return c.JSON(centers)
}
