package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fleetimee/solid-spoon/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
)

type LookupRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewLookupRepository(db *pgxpool.Pool) *LookupRepo {
	return &LookupRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// GetSettingsByCategory returns active lookup rows of one category in
// sort order.
func (r *LookupRepo) GetSettingsByCategory(ctx context.Context, category string) ([]models.AppSetting, error) {
	const op = "repository.lookup_repository.GetSettingsByCategory"

	query, args, err := r.sb.Select("code", "value", "description").
		From("lookup").
		Where(sq.Eq{"category": category, "is_active": true}).
		OrderBy("sort_order").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var settings []models.AppSetting
	for rows.Next() {
		var (
			setting models.AppSetting
			desc    sql.NullString
		)
		if err := rows.Scan(&setting.Code, &setting.Value, &desc); err != nil {
			return nil, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		if desc.Valid {
			setting.Description = &desc.String
		}
		settings = append(settings, setting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return settings, nil
}
