package models

// Location is a reference-registry row for candidate and outlet locations.
type Location struct {
	BaseModel

	Name string `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"`
}
