package models

// Outlet is a physical work site that hosts interviews and receives candidates.
type Outlet struct {
	BaseModel

	Name string `gorm:"type:varchar(150);not null" json:"name"`

	OutletTypeID *uint       `gorm:"index" json:"outlet_type_id,omitempty"`
	OutletType   *OutletType `gorm:"foreignKey:OutletTypeID" json:"outlet_type,omitempty"`

	LocationID *uint     `gorm:"index" json:"location_id,omitempty"`
	Location   *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`

	Address string `gorm:"type:text" json:"address,omitempty"`
}
