// internal/models/audit.go
package models

import "github.com/google/uuid"

// AuditLog records mutating API calls for the admin console.
type AuditLog struct {
	BaseModel
	PrincipalID  *uuid.UUID `json:"principal_id,omitempty" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:255;not null"`
	ResourceType string     `json:"resource_type" gorm:"size:100;index"`
	ResourceID   *uuid.UUID `json:"resource_id,omitempty" gorm:"type:uuid"`
	IPAddress    string     `json:"ip_address" gorm:"size:64"`
	UserAgent    string     `json:"user_agent" gorm:"size:512"`
	NewValues    JSONB      `json:"new_values,omitempty" gorm:"type:jsonb"`
}
