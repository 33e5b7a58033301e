package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// sheetIDPattern matches opaque published-spreadsheet identifiers.
var sheetIDPattern = regexp.MustCompile(`^[a-zA-Z0-9-_]{20,}$`)

// ValidSheetID checks if s looks like a published-spreadsheet identifier
func ValidSheetID(s string) bool {
	return sheetIDPattern.MatchString(s)
}

// GidMap maps a module key to the numeric tab index (gid) inside the sheet.
// Stored as JSONB.
type GidMap map[ModuleKey]int

// Value implements driver.Valuer for JSONB storage
func (m GidMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB storage
func (m *GidMap) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = GidMap{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into GidMap", src)
	}
}

// Validate checks every entry has a known module key and a non-negative gid
func (m GidMap) Validate() error {
	for key, gid := range m {
		if !key.IsValid() {
			return fmt.Errorf("unknown module key %q", key)
		}
		if gid < 0 {
			return fmt.Errorf("gid for %s must be non-negative, got %d", key, gid)
		}
	}
	return nil
}

// Integration associates an organization with its published sheet
type Integration struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrgID     uuid.UUID `json:"org_id" db:"org_id"`
	SheetID   string    `json:"sheet_id" db:"sheet_id"`
	GidMap    GidMap    `json:"gid_map" db:"gid_map"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
