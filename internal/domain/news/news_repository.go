package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TienDattttt/Weather-Project/internal/types"
)

// dbConn is the slice of pgxpool.Pool the repository uses; tests substitute
// a pgxmock pool.
type dbConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	Create(ctx context.Context, title, content string, imageURL *string) (*types.NewsArticle, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.NewsArticle, error)

	// List returns articles newest first.
	List(ctx context.Context) ([]types.NewsArticle, error)

	Update(ctx context.Context, id uuid.UUID, params types.UpdateNewsParams) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool dbConn
}

func NewRepository(pgpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

const newsColumns = `id, title, content, published_at, image_url`

func (r *RepositoryImpl) Create(ctx context.Context, title, content string, imageURL *string) (*types.NewsArticle, error) {
	query := `
        INSERT INTO news_articles (title, content, image_url)
        VALUES ($1, $2, $3)
        RETURNING ` + newsColumns + `
    `

	article, err := scanArticle(r.pgpool.QueryRow(ctx, query, title, content, imageURL))
	if err != nil {
		return nil, fmt.Errorf("failed to insert news article: %w", err)
	}
	return article, nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*types.NewsArticle, error) {
	query := `SELECT ` + newsColumns + ` FROM news_articles WHERE id = $1`

	article, err := scanArticle(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get news article: %w", err)
	}
	return article, nil
}

func (r *RepositoryImpl) List(ctx context.Context) ([]types.NewsArticle, error) {
	query := `SELECT ` + newsColumns + ` FROM news_articles ORDER BY published_at DESC`

	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query news articles: %w", err)
	}
	defer rows.Close()

	var articles []types.NewsArticle
	for rows.Next() {
		var a types.NewsArticle
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.PublishedAt, &a.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan news row: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating news rows: %w", err)
	}
	return articles, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, id uuid.UUID, params types.UpdateNewsParams) error {
	builder := sq.Update("news_articles").PlaceholderFormat(sq.Dollar).Where(sq.Eq{"id": id})

	updated := false
	if params.Title != nil {
		builder = builder.Set("title", *params.Title)
		updated = true
	}
	if params.Content != nil {
		builder = builder.Set("content", *params.Content)
		updated = true
	}
	if params.ImageURL != nil {
		builder = builder.Set("image_url", *params.ImageURL)
		updated = true
	}
	if !updated {
		// Still confirm the article exists so a no-op update of a missing
		// row reports not found.
		_, err := r.GetByID(ctx, id)
		return err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build news update query: %w", err)
	}

	result, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update news article: %w", err)
	}
	if result.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pgpool.Exec(ctx, `DELETE FROM news_articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete news article: %w", err)
	}
	if result.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func scanArticle(row pgx.Row) (*types.NewsArticle, error) {
	var a types.NewsArticle
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.PublishedAt, &a.ImageURL)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
