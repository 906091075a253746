package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fleetimee/solid-spoon/internal/domain/models"
	"github.com/fleetimee/solid-spoon/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type RoomRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewRoomRepository(db *pgxpool.Pool) *RoomRepo {
	return &RoomRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var roomColumns = []string{
	"id", "slug", "name", "location", "capacity", "description",
	"facilities", "is_active", "created_by", "updated_by", "created_at", "updated_at",
}

func prefixed(prefix string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = prefix + "." + c
	}
	return out
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRoom(row rowScanner, extra ...interface{}) (models.Room, error) {
	var (
		room      models.Room
		desc      sql.NullString
		createdBy uuid.NullUUID
		updatedBy uuid.NullUUID
	)

	dest := []interface{}{
		&room.ID, &room.Slug, &room.Name, &room.Location, &room.Capacity, &desc,
		&room.Facilities, &room.IsActive, &createdBy, &updatedBy, &room.CreatedAt, &room.UpdatedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return models.Room{}, err
	}

	if desc.Valid {
		room.Description = &desc.String
	}
	if createdBy.Valid {
		id := createdBy.UUID
		room.CreatedBy = &id
	}
	if updatedBy.Valid {
		id := updatedBy.UUID
		room.UpdatedBy = &id
	}

	return room, nil
}

// CreateRoomWithImages inserts the room row and one room_image row per image
// inside a single transaction. A failure anywhere, including the unique room
// name, rolls everything back.
func (r *RoomRepo) CreateRoomWithImages(ctx context.Context, room models.Room, images []models.NewRoomImage) (models.Room, error) {
	const op = "repository.room_repository.CreateRoomWithImages"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.Room{}, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback(ctx)

	query, args, err := r.sb.Insert("room").
		Columns("slug", "name", "location", "capacity", "description", "facilities", "created_by", "updated_by").
		Values(
			room.Slug,
			room.Name,
			room.Location,
			room.Capacity,
			room.Description,
			room.Facilities,
			room.CreatedBy,
			room.UpdatedBy,
		).
		Suffix("RETURNING " + strings.Join(roomColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Room{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	created, err := scanRoom(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return models.Room{}, fmt.Errorf("%s: %w", op, storage.ErrRoomExists)
		}
		return models.Room{}, fmt.Errorf("%s: failed to insert room: %w", op, err)
	}

	for _, img := range images {
		query, args, err := r.sb.Insert("room_image").
			Columns("room_id", "image_url", "is_cover", "sort_order").
			Values(created.ID, img.ImageURL, img.IsCover, img.SortOrder).
			ToSql()
		if err != nil {
			return models.Room{}, fmt.Errorf("%s: failed to build query: %w", op, err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return models.Room{}, fmt.Errorf("%s: failed to insert image %d: %w", op, img.SortOrder, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Room{}, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return created, nil
}

// ListRooms returns active rooms matching every supplied filter. Filters are
// conjunctive; the facilities filter alone is an OR across its tags.
func (r *RoomRepo) ListRooms(ctx context.Context, filter models.RoomFilter) ([]models.Room, error) {
	const op = "repository.room_repository.ListRooms"

	qb := r.sb.Select(prefixed("r", roomColumns)...).
		From("room r").
		Where(sq.Eq{"r.is_active": true})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		qb = qb.Where(sq.Or{
			sq.ILike{"r.name": pattern},
			sq.ILike{"r.description": pattern},
		})
	}
	if filter.Location != "" {
		qb = qb.Where(sq.ILike{"r.location": "%" + filter.Location + "%"})
	}
	if filter.MinCapacity != nil {
		qb = qb.Where(sq.GtOrEq{"r.capacity": *filter.MinCapacity})
	}
	if filter.MaxCapacity != nil {
		qb = qb.Where(sq.LtOrEq{"r.capacity": *filter.MaxCapacity})
	}
	if len(filter.Facilities) > 0 {
		or := make(sq.Or, 0, len(filter.Facilities))
		for _, facility := range filter.Facilities {
			or = append(or, sq.ILike{"r.facilities": "%" + facility + "%"})
		}
		qb = qb.Where(or)
	}

	query, args, err := qb.OrderBy("r.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return rooms, nil
}

func (r *RoomRepo) GetRoomByID(ctx context.Context, id int64) (models.Room, error) {
	const op = "repository.room_repository.GetRoomByID"

	query, args, err := r.sb.Select(roomColumns...).
		From("room").
		Where(sq.Eq{"id": id, "is_active": true}).
		ToSql()
	if err != nil {
		return models.Room{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	room, err := scanRoom(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Room{}, fmt.Errorf("%s: %w", op, storage.ErrRoomNotFound)
		}
		return models.Room{}, fmt.Errorf("%s: %w", op, err)
	}

	return room, nil
}

// GetRoomBySlug additionally resolves creator and updater display names.
// Left joins keep the room resolvable when either account was deleted.
func (r *RoomRepo) GetRoomBySlug(ctx context.Context, slug string) (models.Room, error) {
	const op = "repository.room_repository.GetRoomBySlug"

	cols := append(prefixed("r", roomColumns), "cu.name", "uu.name")

	query, args, err := r.sb.Select(cols...).
		From("room r").
		LeftJoin("users cu ON cu.id = r.created_by").
		LeftJoin("users uu ON uu.id = r.updated_by").
		Where(sq.Eq{"r.slug": slug, "r.is_active": true}).
		ToSql()
	if err != nil {
		return models.Room{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var creatorName, updaterName sql.NullString

	room, err := scanRoom(r.db.QueryRow(ctx, query, args...), &creatorName, &updaterName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Room{}, fmt.Errorf("%s: %w", op, storage.ErrRoomNotFound)
		}
		return models.Room{}, fmt.Errorf("%s: %w", op, err)
	}

	if creatorName.Valid {
		room.CreatedByName = &creatorName.String
	}
	if updaterName.Valid {
		room.UpdatedByName = &updaterName.String
	}

	return room, nil
}

// GetRoomImages returns the active images of a room, cover first, then by
// sort order.
func (r *RoomRepo) GetRoomImages(ctx context.Context, roomID int64) ([]models.RoomImage, error) {
	const op = "repository.room_repository.GetRoomImages"

	query, args, err := r.sb.Select(
		"id", "room_id", "image_url", "is_cover", "sort_order", "is_active", "created_at", "updated_at",
	).
		From("room_image").
		Where(sq.Eq{"room_id": roomID, "is_active": true}).
		OrderBy("is_cover DESC", "sort_order ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var images []models.RoomImage
	for rows.Next() {
		var img models.RoomImage
		err := rows.Scan(
			&img.ID, &img.RoomID, &img.ImageURL, &img.IsCover,
			&img.SortOrder, &img.IsActive, &img.CreatedAt, &img.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return images, nil
}

// CoverImageURL resolves the effective cover: the flagged image if present,
// otherwise the lowest sort_order among active images. Empty string when the
// room has no active images.
func (r *RoomRepo) CoverImageURL(ctx context.Context, roomID int64) (string, error) {
	const op = "repository.room_repository.CoverImageURL"

	query, args, err := r.sb.Select("image_url").
		From("room_image").
		Where(sq.Eq{"room_id": roomID, "is_active": true}).
		OrderBy("is_cover DESC", "sort_order ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var url string
	err = r.db.QueryRow(ctx, query, args...).Scan(&url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return url, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
