package news

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atleticomaneiro/backend/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNewsNotFound   = errors.New("news post not found")
	ErrNewsTitleEmpty = errors.New("news post title empty")
)

type News struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

var _ newsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Add(ctx context.Context, post *News) error {
	if post.Title == "" {
		return ErrNewsTitleEmpty
	}

	rows, err := r.db.Query(ctx,
		`INSERT INTO news (title, content, author, is_published, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		post.Title, post.Content, post.Author, post.IsPublished, post.CreatedAt,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		return errors.New("unexpected error, failed to insert news post")
	}

	if err := rows.Scan(&post.ID); err != nil {
		return fmt.Errorf("rows scan: %w", err)
	}

	return nil
}

func (r *Repo) Update(ctx context.Context, post *News) error {
	if post.Title == "" {
		return ErrNewsTitleEmpty
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE news SET title = $1, content = $2, author = $3 WHERE id = $4;`,
		post.Title, post.Content, post.Author, post.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNewsNotFound
	}

	return nil
}

func (r *Repo) SetPublished(ctx context.Context, id int, published bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE news SET is_published = $1 WHERE id = $2;`,
		published, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNewsNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM news WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNewsNotFound
	}

	return nil
}

func (r *Repo) All(ctx context.Context) ([]*News, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "newsRepo.all")
	defer span.End()

	rows, err := r.db.Query(ctx,
		`SELECT id, title, content, author, is_published, created_at
			FROM news ORDER BY created_at DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2news(rows)
}

// Published returns the newest published posts, at most limit of them.
func (r *Repo) Published(ctx context.Context, limit int) ([]*News, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "newsRepo.published")
	defer span.End()

	rows, err := r.db.Query(ctx,
		`SELECT id, title, content, author, is_published, created_at
			FROM news WHERE is_published ORDER BY created_at DESC LIMIT $1;`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2news(rows)
}

// PublishedPage returns one page of published posts plus the total count
// of published posts, for the public paginated listing.
func (r *Repo) PublishedPage(ctx context.Context, page, size int) ([]*News, int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "newsRepo.publishedPage")
	defer span.End()

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM news WHERE is_published;`,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, title, content, author, is_published, created_at
			FROM news WHERE is_published ORDER BY created_at DESC
			LIMIT $1 OFFSET $2;`,
		size, (page-1)*size,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts, err := rows2news(rows)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *Repo) Get(ctx context.Context, id int) (*News, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, content, author, is_published, created_at
			FROM news WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrNewsNotFound
	}

	return scanNews(rows)
}

func rows2news(rows pgx.Rows) ([]*News, error) {
	var posts []*News
	for rows.Next() {
		post, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func scanNews(rows pgx.Rows) (*News, error) {
	var post News
	if err := rows.Scan(
		&post.ID, &post.Title, &post.Content, &post.Author,
		&post.IsPublished, &post.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	return &post, nil
}
