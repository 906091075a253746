package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Facilities is an ordered list of facility tags, stored as a JSON array
// in a text column. Legacy rows may hold plain comma-separated text; Scan
// falls back to treating such a value as a single-element list.
type Facilities []string

// Room is a bookable meeting room. CoverImage is derived from room_image
// rows, never stored on the room itself.
type Room struct {
	ID          int64      `json:"id" db:"id"`
	Slug        string     `json:"slug" db:"slug"`
	Name        string     `json:"name" db:"name"`
	Location    string     `json:"location" db:"location"`
	Capacity    int        `json:"capacity" db:"capacity"`
	Description *string    `json:"description,omitempty" db:"description"`
	Facilities  Facilities `json:"facilities,omitempty" db:"facilities"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	UpdatedBy   *uuid.UUID `json:"updated_by,omitempty" db:"updated_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	CoverImage *string `json:"cover_image,omitempty" db:"-"`

	// Populated only on the slug detail lookup.
	Images        []RoomImage `json:"images,omitempty" db:"-"`
	CreatedByName *string     `json:"created_by_name,omitempty" db:"-"`
	UpdatedByName *string     `json:"updated_by_name,omitempty" db:"-"`
}

// RoomImage belongs to exactly one room. At most one active image per room
// carries is_cover; with none flagged, the lowest sort_order acts as cover.
type RoomImage struct {
	ID        int64     `json:"id" db:"id"`
	RoomID    int64     `json:"room_id" db:"room_id"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	IsCover   bool      `json:"is_cover" db:"is_cover"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewRoomImage is the pre-persistence shape of an image row, built from the
// creation form before the room id exists.
type NewRoomImage struct {
	ImageURL  string
	IsCover   bool
	SortOrder int
}

// RoomFilter holds optional, conjunctive list predicates. Facilities is
// disjunctive within itself: any listed tag matching selects the room.
type RoomFilter struct {
	Search      string
	Location    string
	MinCapacity *int
	MaxCapacity *int
	Facilities  []string
}

// Value implements driver.Valuer, serializing Facilities as a JSON array.
func (f Facilities) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner for text and bytea representations.
func (f *Facilities) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported facilities type %T", value)
	}

	if len(data) == 0 {
		*f = nil
		return nil
	}

	if data[0] == '[' {
		return json.Unmarshal(data, f)
	}

	// legacy plain-text value
	*f = Facilities{string(data)}
	return nil
}
