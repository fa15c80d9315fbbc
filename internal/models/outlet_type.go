package models

// OutletType is a reference-registry row classifying outlets (hotel, restaurant, bar).
type OutletType struct {
	BaseModel

	Name string `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"`
}
