package news

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/TienDattttt/Weather-Project/internal/types"
)

// CreateParams are the fields accepted for a new article.
type CreateParams struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image,omitempty"`
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Create(ctx context.Context, params CreateParams) (*types.NewsArticle, error)
	Get(ctx context.Context, id uuid.UUID) (*types.NewsArticle, error)
	List(ctx context.Context) ([]types.NewsArticle, error)
	Update(ctx context.Context, id uuid.UUID, params types.UpdateNewsParams) (*types.NewsArticle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) Create(ctx context.Context, params CreateParams) (*types.NewsArticle, error) {
	ctx, span := otel.Tracer("NewsService").Start(ctx, "Create")
	defer span.End()

	if params.Title == "" || params.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", types.ErrBadRequest)
	}

	article, err := s.repo.Create(ctx, params.Title, params.Content, params.ImageURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		return nil, err
	}

	s.logger.InfoContext(ctx, "News article created", slog.String("article_id", article.ID.String()))
	span.SetStatus(codes.Ok, "Article created")
	return article, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id uuid.UUID) (*types.NewsArticle, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context) ([]types.NewsArticle, error) {
	articles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []types.NewsArticle{}
	}
	return articles, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id uuid.UUID, params types.UpdateNewsParams) (*types.NewsArticle, error) {
	ctx, span := otel.Tracer("NewsService").Start(ctx, "Update")
	defer span.End()

	if params.Title != nil && *params.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", types.ErrBadRequest)
	}
	if params.Content != nil && *params.Content == "" {
		return nil, fmt.Errorf("%w: content cannot be empty", types.ErrBadRequest)
	}

	if err := s.repo.Update(ctx, id, params); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "Article updated")
	return s.repo.GetByID(ctx, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("NewsService").Start(ctx, "Delete")
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}

	s.logger.InfoContext(ctx, "News article deleted", slog.String("article_id", id.String()))
	span.SetStatus(codes.Ok, "Article deleted")
	return nil
}
