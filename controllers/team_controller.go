package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kantodex/models"
	"kantodex/utils"
)

// Failure modes surfaced out of team transactions, mapped to HTTP
// statuses at the handler boundary.
var (
	errTeamNotFound  = errors.New("team not found")
	errTeamForbidden = errors.New("team owned by another user")
	errTeamFull      = errors.New("team is full")
	errEntryNotFound = errors.New("entry not found in caller's collection")
	errPositionTaken = errors.New("position already occupied")
)

type TeamController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewTeamController(db *gorm.DB, logger *log.Logger) *TeamController {
	return &TeamController{
		DB:     db,
		Logger: logger,
	}
}

// memberPreload eagerly loads members ordered by slot with their entry
// and creature.
func memberPreload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("team_members.position ASC")
		}).
		Preload("Members.CollectionEntry.Pokemon.Types")
}

// GetTeams lists the caller's teams, newest first.
func (tc *TeamController) GetTeams(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var teams []models.Team
	if err := memberPreload(tc.DB).
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&teams).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch teams", err)
	}

	return c.JSON(teams)
}

// CreateTeam creates a squad. Activating it deactivates every other
// active team of the caller inside one locked transaction.
func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name     *string `json:"name" validate:"omitempty,max=100"`
		IsActive *bool   `json:"isActive"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	team := models.Team{
		UserID:   user.ID,
		Name:     "Nouvelle Équipe",
		IsActive: input.IsActive != nil && *input.IsActive,
	}
	if input.Name != nil && *input.Name != "" {
		team.Name = *input.Name
	}

	txErr := tc.DB.Transaction(func(tx *gorm.DB) error {
		if team.IsActive {
			var others []models.Team
			if err := forUpdate(tx).Where("user_id = ?", user.ID).Find(&others).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Team{}).
				Where("user_id = ? AND is_active = ?", user.ID, true).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&team).Error
	})
	if txErr != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create team", txErr)
	}

	if err := memberPreload(tc.DB).First(&team, team.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create team", err)
	}

	return c.Status(fiber.StatusCreated).JSON(team)
}

// UpdateTeam patches a team's name or active flag. Only those two
// fields are mutable.
func (tc *TeamController) UpdateTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := utils.ParseUint(c.Params("id"))

	var input struct {
		Name     *string `json:"name" validate:"omitempty,max=100"`
		IsActive *bool   `json:"isActive"`
	}
	if err := utils.StrictBodyParser(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	var team models.Team
	txErr := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&team, teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errTeamNotFound
			}
			return err
		}
		if team.UserID != user.ID {
			return errTeamForbidden
		}

		if input.IsActive != nil && *input.IsActive {
			// Exactly one active team per trainer.
			if err := tx.Model(&models.Team{}).
				Where("user_id = ? AND is_active = ? AND id <> ?", user.ID, true, team.ID).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}

		if input.Name != nil && *input.Name != "" {
			team.Name = *input.Name
		}
		if input.IsActive != nil {
			team.IsActive = *input.IsActive
		}
		return tx.Save(&team).Error
	})
	switch {
	case errors.Is(txErr, errTeamNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
	case errors.Is(txErr, errTeamForbidden):
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Not your team", nil)
	case txErr != nil:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update team", txErr)
	}

	if err := memberPreload(tc.DB).First(&team, team.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update team", err)
	}

	return c.JSON(team)
}

// DeleteTeam removes a squad; memberships cascade.
func (tc *TeamController) DeleteTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := utils.ParseUint(c.Params("id"))

	var team models.Team
	if err := tc.DB.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete team", err)
	}
	if team.UserID != user.ID {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Not your team", nil)
	}

	txErr := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", team.ID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&team).Error
	})
	if txErr != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete team", txErr)
	}

	return c.JSON(fiber.Map{"success": true})
}

// AddMember places one of the caller's collection entries into a team
// slot. The size cap and slot assignment run under a row lock so two
// concurrent adds cannot both land a seventh member.
func (tc *TeamController) AddMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := utils.ParseUint(c.Params("id"))

	var input struct {
		EntryID  uint `json:"entryId" validate:"required"`
		Position *int `json:"position" validate:"omitempty,min=1,max=6"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	var member models.TeamMember
	txErr := tc.DB.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := forUpdate(tx).First(&team, teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errTeamNotFound
			}
			return err
		}
		if team.UserID != user.ID {
			return errTeamForbidden
		}

		var members []models.TeamMember
		if err := tx.Where("team_id = ?", team.ID).Find(&members).Error; err != nil {
			return err
		}
		if len(members) >= models.MaxTeamSize {
			return errTeamFull
		}

		// Existence and ownership checked together: a 404 here never
		// reveals whether another trainer holds the entry.
		var entry models.CollectionEntry
		if err := tx.Preload("Collection").First(&entry, input.EntryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errEntryNotFound
			}
			return err
		}
		if entry.Collection.UserID != user.ID {
			return errEntryNotFound
		}

		taken := make(map[int]bool, len(members))
		for _, m := range members {
			taken[m.Position] = true
		}

		position := 0
		if input.Position != nil {
			if taken[*input.Position] {
				return errPositionTaken
			}
			position = *input.Position
		} else {
			for slot := 1; slot <= models.MaxTeamSize; slot++ {
				if !taken[slot] {
					position = slot
					break
				}
			}
		}

		member = models.TeamMember{
			TeamID:    team.ID,
			EntryID:   entry.ID,
			PokemonID: entry.PokemonID,
			Position:  position,
		}
		return tx.Create(&member).Error
	})
	switch {
	case errors.Is(txErr, errTeamNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
	case errors.Is(txErr, errTeamForbidden):
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Not your team", nil)
	case errors.Is(txErr, errTeamFull):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Team is full (6 members maximum)", nil)
	case errors.Is(txErr, errEntryNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Entry not found in your collection", nil)
	case errors.Is(txErr, errPositionTaken):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Position already occupied", nil)
	case txErr != nil:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add team member", txErr)
	}

	if err := tc.DB.Preload("CollectionEntry.Pokemon.Types").First(&member, member.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add team member", err)
	}

	return c.Status(fiber.StatusCreated).JSON(member)
}

// RemoveMember takes a creature out of a team slot.
func (tc *TeamController) RemoveMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := utils.ParseUint(c.Params("id"))

	memberIDParam := c.Query("memberId")
	if memberIDParam == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "memberId is required", nil)
	}
	memberID := utils.ParseUint(memberIDParam)

	var member models.TeamMember
	if err := tc.DB.Preload("Team").First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Member not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove team member", err)
	}
	if member.TeamID != teamID {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Member not found", nil)
	}
	if member.Team == nil || member.Team.UserID != user.ID {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Not your team", nil)
	}

	if err := tc.DB.Delete(&member).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove team member", err)
	}

	return c.JSON(fiber.Map{"success": true})
}
