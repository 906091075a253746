package dto

import (
	"github.com/fleetimee/solid-spoon/internal/domain/models"

	"github.com/google/uuid"
)

// CreateRoomInput carries the submitted form: scalar fields plus the
// pre-uploaded image URLs in selection order. CoverFlags holds the
// positions the client explicitly marked as cover.
type CreateRoomInput struct {
	Name        string   `form:"name" validate:"required"`
	Location    string   `form:"location" validate:"required"`
	Capacity    int      `form:"capacity" validate:"required,min=1,max=1000"`
	Description string   `form:"description" validate:"omitempty"`
	Facilities  []string `form:"facilities" validate:"omitempty,dive,min=1"`

	ImageURLs  []string     `form:"-" validate:"-"`
	CoverFlags map[int]bool `form:"-" validate:"-"`
	ActorID    uuid.UUID    `form:"-" validate:"-"`
}

// CreateRoomResponse mirrors the form feedback contract of the dashboard:
// either a created room or field-level errors, never both.
type CreateRoomResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Room        *models.Room        `json:"room,omitempty"`
	FieldErrors map[string][]string `json:"field_errors,omitempty"`
}

// RoomListResponse wraps a listing with its count meta.
type RoomListResponse struct {
	Data []models.Room          `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}
