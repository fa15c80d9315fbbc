package models

// AuditLog records a single mutating operation for traceability.
type AuditLog struct {
	BaseModel

	UserID    *string `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Username  string  `gorm:"type:varchar(150)" json:"username,omitempty"`
	Action    string  `gorm:"type:varchar(100);index;not null" json:"action"`
	Resource  string  `gorm:"type:varchar(150);index" json:"resource"`
	Result    string  `gorm:"type:varchar(20);not null" json:"result"`
	IPAddress string  `gorm:"type:varchar(64)" json:"ip_address,omitempty"`
	UserAgent string  `gorm:"type:text" json:"user_agent,omitempty"`
	Metadata  string  `gorm:"type:text" json:"metadata,omitempty"`
}
