package models

import "time"

// CV link states. Expiry is a stored date only; links are never expired in the
// background, callers decide how to treat a stale ExpiresAt.
const (
	CvLinkStatusActive = "active"
	CvLinkStatusPaused = "paused"
)

// CvLink is a shareable, revocable external reference to a candidate profile.
// At most one link per candidate is treated as current: the most recent row is
// reused (reactivated) rather than duplicated.
type CvLink struct {
	BaseModel

	CandidateID uint      `gorm:"index;not null" json:"candidate_id"`
	Candidate   Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`

	Key       string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"key"`
	Status    string    `gorm:"type:varchar(10);default:'active';index" json:"status"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}
