package models

import "time"

// Medical record statuses. RECOVERED is terminal: a discharged creature
// gets a fresh record on readmission instead of a reopened one.
const (
	StatusInTreatment      = "IN_TREATMENT"
	StatusUnderObservation = "UNDER_OBSERVATION"
	StatusRecovered        = "RECOVERED"
	StatusCritical         = "CRITICAL"
)

// MedicalStatuses lists every valid record status.
var MedicalStatuses = []string{
	StatusInTreatment,
	StatusUnderObservation,
	StatusRecovered,
	StatusCritical,
}

// IsValidMedicalStatus reports whether s is a known record status.
func IsValidMedicalStatus(s string) bool {
	for _, v := range MedicalStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// MedicalRecord is a healer-managed treatment case for one trainer's
// creature at a care center.
type MedicalRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TrainerID    uint `gorm:"not null;index" json:"trainerId"`
	PokemonID    uint `gorm:"not null;index" json:"pokemonId"`
	PokeCenterID uint `gorm:"not null;index" json:"pokeCenterId"`

	Status        string  `gorm:"default:'IN_TREATMENT'" json:"status"`
	HealthPercent int     `gorm:"default:100" json:"healthPercent"`
	Condition     string  `json:"condition"`
	Diagnosis     string  `json:"diagnosis"`
	Treatment     *string `json:"treatment"`
	Notes         *string `json:"notes"`

	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
	Gender string  `gorm:"default:'UNKNOWN'" json:"gender"`

	AdmissionDate time.Time  `gorm:"autoCreateTime" json:"admissionDate"`
	DischargeDate *time.Time `json:"dischargeDate"`

	// Relations
	Trainer    *User       `gorm:"foreignKey:TrainerID" json:"trainer,omitempty"`
	Pokemon    *Pokemon    `json:"pokemon,omitempty"`
	PokeCenter *PokeCenter `json:"pokeCenter,omitempty"`
}

// PokeCenter is a static care center where treatment happens.
type PokeCenter struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Location string `json:"location"`
	City     string `json:"city"`
}
