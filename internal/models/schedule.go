package models

import "time"

// Interview delivery modes.
const (
	InterviewTypeInPerson = "in_person"
	InterviewTypePhone    = "phone"
	InterviewTypeVideo    = "video"
)

// ValidInterviewType reports whether the supplied type is a known delivery mode.
func ValidInterviewType(interviewType string) bool {
	switch interviewType {
	case InterviewTypeInPerson, InterviewTypePhone, InterviewTypeVideo:
		return true
	}
	return false
}

// Schedule is one interview booking for a candidate at an outlet.
// The status is recorded independently from the candidate's current status so
// history survives later workflow changes. Duplicate slots are permitted.
type Schedule struct {
	BaseModel

	CandidateID uint      `gorm:"index;not null" json:"candidate_id"`
	Candidate   Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`

	OutletID uint   `gorm:"index;not null" json:"outlet_id"`
	Outlet   Outlet `gorm:"foreignKey:OutletID" json:"-"`

	ScheduledAt   time.Time `gorm:"index;not null" json:"scheduled_at"`
	InterviewType string    `gorm:"type:varchar(20);default:'in_person'" json:"interview_type"`
	Status        string    `gorm:"type:varchar(50);index" json:"status"`
	Remarks       string    `gorm:"type:text" json:"remarks,omitempty"`
}
