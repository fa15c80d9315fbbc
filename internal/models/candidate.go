package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Inactivity reason categories form a closed set; free-text detail lives in InactiveReason.
const (
	InactiveCategoryBehaviour     = "behavioural_issue"
	InactiveCategoryTheftFraud    = "theft_fraud"
	InactiveCategoryAbsconded     = "absconded"
	InactiveCategorySkillMismatch = "skill_mismatch"
)

// ValidInactiveCategory reports whether the category belongs to the closed set.
func ValidInactiveCategory(category string) bool {
	switch category {
	case InactiveCategoryBehaviour, InactiveCategoryTheftFraud,
		InactiveCategoryAbsconded, InactiveCategorySkillMismatch:
		return true
	}
	return false
}

// Attachment references an uploaded document; the path is an opaque blob-store token.
type Attachment struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// Candidate is the root entity of the recruiting funnel.
type Candidate struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(150);not null" json:"name"`

	// Phone is stored normalised: exactly ten digits, no separators.
	Phone string `gorm:"type:varchar(10);uniqueIndex;not null" json:"phone"`
	Email string `gorm:"type:varchar(150)" json:"email,omitempty"`

	Position  string         `gorm:"type:varchar(120);index" json:"position"`
	Locations datatypes.JSON `json:"locations"`

	ExpectedSalary   string `gorm:"type:varchar(60)" json:"expected_salary,omitempty"`
	ExperienceBand   string `gorm:"type:varchar(60)" json:"experience_band,omitempty"`
	Skills           string `gorm:"type:text" json:"skills,omitempty"`
	Education        string `gorm:"type:text" json:"education,omitempty"`
	PreviousEmployer string `gorm:"type:text" json:"previous_employer,omitempty"`

	Status   string `gorm:"type:varchar(50);index" json:"status"`
	IsActive bool   `gorm:"default:true;index" json:"is_active"`

	InactiveReason   string `gorm:"type:text" json:"inactive_reason,omitempty"`
	InactiveCategory string `gorm:"type:varchar(40)" json:"inactive_category,omitempty"`

	Attachments datatypes.JSON `json:"attachments"`
	ShareIntro  string         `gorm:"type:text" json:"share_intro,omitempty"`

	AppliedDate     time.Time  `gorm:"index" json:"applied_date"`
	ResumeUpdatedAt *time.Time `json:"resume_updated_at,omitempty"`

	AddedByHrID *string `gorm:"type:uuid;index" json:"added_by_hr_id,omitempty"`
	AddedByHr   *User   `gorm:"foreignKey:AddedByHrID" json:"added_by_hr,omitempty"`

	// AddedByName is the legacy free-text attribution kept from records that
	// predate the direct HR reference. Used only as an analytics fallback.
	AddedByName string `gorm:"type:varchar(150)" json:"added_by_name,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

// LocationTags decodes the JSON location column into a string slice.
func (c *Candidate) LocationTags() []string {
	var tags []string
	if len(c.Locations) == 0 {
		return nil
	}
	if err := json.Unmarshal(c.Locations, &tags); err != nil {
		return nil
	}
	return tags
}

// SetLocationTags encodes the supplied tags into the JSON location column.
func (c *Candidate) SetLocationTags(tags []string) error {
	encoded, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	c.Locations = datatypes.JSON(encoded)
	return nil
}

// AttachmentList decodes the JSON attachment column.
func (c *Candidate) AttachmentList() []Attachment {
	var attachments []Attachment
	if len(c.Attachments) == 0 {
		return nil
	}
	if err := json.Unmarshal(c.Attachments, &attachments); err != nil {
		return nil
	}
	return attachments
}

// SetAttachmentList encodes the supplied attachments into the JSON column.
func (c *Candidate) SetAttachmentList(attachments []Attachment) error {
	encoded, err := json.Marshal(attachments)
	if err != nil {
		return err
	}
	c.Attachments = datatypes.JSON(encoded)
	return nil
}
