package models

import "time"

// Replacement is an append-only ledger row pairing an outgoing candidate with
// the incoming candidate filling their role at an outlet. Rows are immutable
// after insertion and deliberately uncorrelated with schedule data.
type Replacement struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ReplacedID    uint      `gorm:"index;not null" json:"replaced_id"`
	Replaced      Candidate `gorm:"foreignKey:ReplacedID;constraint:OnDelete:CASCADE" json:"-"`
	ReplacementID uint      `gorm:"index;not null" json:"replacement_id"`
	Replacement   Candidate `gorm:"foreignKey:ReplacementID;constraint:OnDelete:CASCADE" json:"-"`

	OutletID uint   `gorm:"index" json:"outlet_id"`
	Outlet   Outlet `gorm:"foreignKey:OutletID" json:"-"`

	Position string `gorm:"type:varchar(120)" json:"position"`

	DateOfJoining time.Time `json:"date_of_joining"`
	ExitDate      time.Time `json:"exit_date"`

	ReplacedHrID    *string `gorm:"type:uuid" json:"replaced_hr_id,omitempty"`
	ReplacementHrID *string `gorm:"type:uuid" json:"replacement_hr_id,omitempty"`

	Salary string `gorm:"type:varchar(60)" json:"salary,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
