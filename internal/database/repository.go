package database

import (
	"context"
	"fmt"
	"time"

	"go-ezynotify/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// IMPORTANT: Supabase connection pooler (PgBouncer in Transaction mode)
	// does not support prepared statements easily. We MUST disable the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

const checkColumns = `id, url, keywords, telegram_id, reference, is_updated,
	found_keywords, should_continue_check, updates, should_send_detailed_updates,
	check_updates, completed, created_at, updated_at`

func scanCheck(row pgx.Row) (*models.Check, error) {
	var c models.Check
	err := row.Scan(&c.ID, &c.URL, &c.Keywords, &c.TelegramID, &c.Reference,
		&c.IsUpdated, &c.FoundKeywords, &c.ShouldContinueCheck, &c.Updates,
		&c.ShouldSendDetailedUpdates, &c.CheckUpdates, &c.Completed, &c.CreatedAt,
		&c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ---------------- CHECK OPERATIONS ----------------

// ListActiveChecks returns every check row that has not been marked completed,
// oldest first so long-watched pages are processed before fresh ones.
func (r *Repository) ListActiveChecks(ctx context.Context) ([]models.Check, error) {
	query := fmt.Sprintf("SELECT %s FROM ezynotify WHERE completed = false ORDER BY created_at", checkColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}
	defer rows.Close()

	var checks []models.Check
	for rows.Next() {
		c, err := scanCheck(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check row: %w", err)
		}
		checks = append(checks, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading check rows: %w", err)
	}
	return checks, nil
}

// GetCheckByID retrieves a single check row
func (r *Repository) GetCheckByID(ctx context.Context, id string) (*models.Check, error) {
	query := fmt.Sprintf("SELECT %s FROM ezynotify WHERE id = $1", checkColumns)
	c, err := scanCheck(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("check not found")
		}
		return nil, fmt.Errorf("failed to get check by ID: %w", err)
	}
	return c, nil
}

// CreateCheck registers a new watch target. Keywords may be empty when the
// row only tracks content updates.
func (r *Repository) CreateCheck(ctx context.Context, c *models.Check) (*models.Check, error) {
	if c.Keywords.Keywords == nil {
		c.Keywords.Keywords = []string{}
	}
	query := fmt.Sprintf(`
		INSERT INTO ezynotify (url, keywords, telegram_id, should_continue_check, should_send_detailed_updates, check_updates)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, checkColumns)

	created, err := scanCheck(r.db.QueryRow(ctx, query, c.URL, c.Keywords,
		c.TelegramID, c.ShouldContinueCheck, c.ShouldSendDetailedUpdates, c.CheckUpdates))
	if err != nil {
		return nil, fmt.Errorf("failed to create check: %w", err)
	}
	return created, nil
}

// ApplyCheckResult writes back every column a monitor run may have changed.
// The row is written once per run, after all processing for it is done.
func (r *Repository) ApplyCheckResult(ctx context.Context, c *models.Check) error {
	query := `
		UPDATE ezynotify
		SET reference = $1, keywords = $2, found_keywords = $3, updates = $4,
		    is_updated = $5, completed = $6, updated_at = now()
		WHERE id = $7`

	_, err := r.db.Exec(ctx, query, c.Reference, c.Keywords, c.FoundKeywords,
		c.Updates, c.IsUpdated, c.Completed, c.ID)
	if err != nil {
		return fmt.Errorf("failed to apply check result: %w", err)
	}
	return nil
}

// CheckStats summarizes the table for the status endpoint.
type CheckStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

func (r *Repository) CountChecks(ctx context.Context) (*CheckStats, error) {
	var stats CheckStats
	err := r.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE completed = false),
		       count(*) FILTER (WHERE completed = true)
		FROM ezynotify`).
		Scan(&stats.Total, &stats.Active, &stats.Completed)
	if err != nil {
		return nil, fmt.Errorf("failed to count checks: %w", err)
	}
	return &stats, nil
}
