package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fleetimee/solid-spoon/internal/domain/models"
	"github.com/fleetimee/solid-spoon/internal/lib/logger/sl"
	"github.com/fleetimee/solid-spoon/internal/repository"
	"github.com/fleetimee/solid-spoon/internal/storage"
	"github.com/fleetimee/solid-spoon/internal/transport/http/dto"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
)

// ValidationError carries per-field messages for form feedback. It is
// produced before any persistence attempt.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return "invalid room data"
}

type RoomService struct {
	log      *slog.Logger
	repo     repository.RoomRepository
	validate *validator.Validate
}

func NewRoomService(log *slog.Logger, repo repository.RoomRepository) *RoomService {
	return &RoomService{
		log:      log,
		repo:     repo,
		validate: validator.New(),
	}
}

// CreateRoom validates the form, then persists the room plus one image row
// per URL in a single transaction. The cover is the explicitly flagged
// position when one was supplied, otherwise the first image.
func (s *RoomService) CreateRoom(ctx context.Context, input dto.CreateRoomInput) (*models.Room, error) {
	const op = "room_service.CreateRoom"

	log := s.log.With(
		slog.String("op", op),
		slog.String("name", input.Name),
	)

	if len(input.ImageURLs) == 0 {
		log.Warn("no images supplied")
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNoImages)
	}

	if err := s.validate.Struct(input); err != nil {
		log.Warn("room validation failed", sl.Err(err))
		return nil, fieldErrors(err)
	}

	room := models.Room{
		Slug:      slug.Make(input.Name),
		Name:      input.Name,
		Location:  input.Location,
		Capacity:  input.Capacity,
		CreatedBy: &input.ActorID,
		UpdatedBy: &input.ActorID,
	}
	if input.Description != "" {
		room.Description = &input.Description
	}
	if len(input.Facilities) > 0 {
		room.Facilities = models.Facilities(input.Facilities)
	}

	images := buildImageRows(input.ImageURLs, input.CoverFlags)

	created, err := s.repo.CreateRoomWithImages(ctx, room, images)
	if err != nil {
		if errors.Is(err, storage.ErrRoomExists) {
			log.Warn("duplicate room name")
			return nil, fmt.Errorf("%s: %w", op, storage.ErrRoomExists)
		}
		log.Error("failed to create room", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Read-after-commit convenience; not part of the atomic unit.
	cover, err := s.repo.CoverImageURL(ctx, created.ID)
	if err != nil {
		log.Error("failed to read cover image", sl.Err(err))
	} else if cover != "" {
		created.CoverImage = &cover
	}

	log.Info("room created",
		slog.Int64("room_id", created.ID),
		slog.Int("images", len(images)),
	)

	return &created, nil
}

// ListRooms applies the optional filters and enriches each room with its
// effective cover image. Admin listings are small; the per-room lookup is
// acceptable.
func (s *RoomService) ListRooms(ctx context.Context, filter models.RoomFilter) ([]models.Room, error) {
	const op = "room_service.ListRooms"

	log := s.log.With(slog.String("op", op))

	rooms, err := s.repo.ListRooms(ctx, filter)
	if err != nil {
		log.Error("failed to list rooms", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range rooms {
		cover, err := s.repo.CoverImageURL(ctx, rooms[i].ID)
		if err != nil {
			log.Error("failed to read cover image",
				slog.Int64("room_id", rooms[i].ID), sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if cover != "" {
			rooms[i].CoverImage = &cover
		}
	}

	return rooms, nil
}

// GetRoomByID returns nil without error when no active room matches;
// absence is a normal outcome here.
func (s *RoomService) GetRoomByID(ctx context.Context, id int64) (*models.Room, error) {
	const op = "room_service.GetRoomByID"

	log := s.log.With(slog.String("op", op), slog.Int64("room_id", id))

	room, err := s.repo.GetRoomByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			return nil, nil
		}
		log.Error("failed to get room", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cover, err := s.repo.CoverImageURL(ctx, room.ID)
	if err != nil {
		log.Error("failed to read cover image", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cover != "" {
		room.CoverImage = &cover
	}

	return &room, nil
}

// GetRoomBySlug is the detail lookup: room plus its full ordered image list
// and creator/updater names. Nil without error when nothing matches.
func (s *RoomService) GetRoomBySlug(ctx context.Context, roomSlug string) (*models.Room, error) {
	const op = "room_service.GetRoomBySlug"

	log := s.log.With(slog.String("op", op), slog.String("slug", roomSlug))

	room, err := s.repo.GetRoomBySlug(ctx, roomSlug)
	if err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			return nil, nil
		}
		log.Error("failed to get room", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	images, err := s.repo.GetRoomImages(ctx, room.ID)
	if err != nil {
		log.Error("failed to get room images", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	room.Images = images
	if len(images) > 0 {
		room.CoverImage = &images[0].ImageURL
	}

	return &room, nil
}

// buildImageRows assigns sort order by input position and designates
// exactly one cover: the lowest explicitly flagged position, or position 0.
func buildImageRows(urls []string, coverFlags map[int]bool) []models.NewRoomImage {
	coverIdx := 0
	for i := range urls {
		if coverFlags[i] {
			coverIdx = i
			break
		}
	}

	images := make([]models.NewRoomImage, 0, len(urls))
	for i, url := range urls {
		images = append(images, models.NewRoomImage{
			ImageURL:  url,
			IsCover:   i == coverIdx,
			SortOrder: i,
		})
	}

	return images
}

func fieldErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
	}

	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		return "Room name is required"
	case "Location":
		return "Location is required"
	case "Capacity":
		switch fe.Tag() {
		case "max":
			return "Capacity cannot exceed 1000"
		default:
			return "Capacity must be at least 1"
		}
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
