package models

import "time"

// Permission mirrors a registered permission definition in the database so
// roles can reference it.
type Permission struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Module      string `json:"module"`
	Description string `json:"description"`
	DependsOn   string `gorm:"type:text" json:"depends_on,omitempty"`
	Implies     string `gorm:"type:text" json:"implies,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
