package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Metadata is a free-form JSON payload attached to an audit entry
type Metadata map[string]interface{}

// Value implements driver.Valuer for JSONB storage
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB storage
func (m *Metadata) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into Metadata", src)
	}
}

// AuditEntry records one actor action for the audit trail. The user agent is
// stored only as a hash.
type AuditEntry struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	OrgID      *uuid.UUID `json:"org_id,omitempty" db:"org_id"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty" db:"actor_id"`
	Action     string     `json:"action" db:"action"`
	TargetType string     `json:"target_type" db:"target_type"`
	TargetID   string     `json:"target_id" db:"target_id"`
	IP         string     `json:"ip" db:"ip"`
	UAHash     string     `json:"ua_hash" db:"ua_hash"`
	Metadata   Metadata   `json:"metadata" db:"metadata"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
