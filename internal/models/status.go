package models

// Status is an operator-extensible workflow state. Values are opaque strings;
// only the analytics aggregator attaches meaning, by label semantics.
type Status struct {
	BaseModel

	Value string `gorm:"type:varchar(50);uniqueIndex;not null" json:"value"`
	Label string `gorm:"type:varchar(100)" json:"label"`
	Color string `gorm:"type:varchar(20)" json:"color"`
}
