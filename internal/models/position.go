package models

// Position is a reference-registry row for roles candidates apply to.
type Position struct {
	BaseModel

	Name string `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"`
}
