package repository

import (
	"context"
	"fmt"

	"github.com/fleetimee/solid-spoon/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
)

type NavigationRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewNavigationRepository(db *pgxpool.Pool) *NavigationRepo {
	return &NavigationRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// GetNavigation returns the sidebar tree: main entries in id order, each
// carrying its sub-items. Admin navigation is a handful of rows, so the
// per-main secondary query is fine here.
func (r *NavigationRepo) GetNavigation(ctx context.Context) ([]models.NavigationMain, error) {
	const op = "repository.navigation_repository.GetNavigation"

	query, args, err := r.sb.Select("id", "title", "url", "icon", "is_active").
		From("navigation_main").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var mains []models.NavigationMain
	for rows.Next() {
		var m models.NavigationMain
		if err := rows.Scan(&m.ID, &m.Title, &m.URL, &m.Icon, &m.IsActive); err != nil {
			return nil, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		mains = append(mains, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	for i := range mains {
		items, err := r.navigationItems(ctx, mains[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		mains[i].Items = items
	}

	return mains, nil
}

func (r *NavigationRepo) navigationItems(ctx context.Context, mainID int64) ([]models.NavigationItem, error) {
	query, args, err := r.sb.Select("title", "url").
		From("navigation_item").
		Where(sq.Eq{"navigation_main_id": mainID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.NavigationItem
	for rows.Next() {
		var item models.NavigationItem
		if err := rows.Scan(&item.Title, &item.URL); err != nil {
			return nil, fmt.Errorf("row scanning failed: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
