package matches

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
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchOpponentEmpty = errors.New("match opponent empty")
)

type Match struct {
	ID        int       `json:"id"`
	Opponent  string    `json:"opponent"`
	Location  string    `json:"location"`
	StartsAt  time.Time `json:"starts_at"`
	HomeGoals *int      `json:"home_goals,omitempty"`
	AwayGoals *int      `json:"away_goals,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Match) Played() bool {
	return m.HomeGoals != nil && m.AwayGoals != nil
}

var _ matchesRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Add(ctx context.Context, match *Match) error {
	if match.Opponent == "" {
		return ErrMatchOpponentEmpty
	}

	rows, err := r.db.Query(ctx,
		`INSERT INTO match (opponent, location, starts_at, home_goals, away_goals, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id;`,
		match.Opponent, match.Location, match.StartsAt,
		match.HomeGoals, match.AwayGoals, match.CreatedAt,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		return errors.New("unexpected error, failed to insert match")
	}

	if err := rows.Scan(&match.ID); err != nil {
		return fmt.Errorf("rows scan: %w", err)
	}

	return nil
}

func (r *Repo) Update(ctx context.Context, match *Match) error {
	if match.Opponent == "" {
		return ErrMatchOpponentEmpty
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE match SET opponent = $1, location = $2, starts_at = $3 WHERE id = $4;`,
		match.Opponent, match.Location, match.StartsAt, match.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMatchNotFound
	}

	return nil
}

// SetResult stores the final score of a played match.
func (r *Repo) SetResult(ctx context.Context, id, homeGoals, awayGoals int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE match SET home_goals = $1, away_goals = $2 WHERE id = $3;`,
		homeGoals, awayGoals, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMatchNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM match WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMatchNotFound
	}

	return nil
}

func (r *Repo) All(ctx context.Context) ([]*Match, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "matchesRepo.all")
	defer span.End()

	rows, err := r.db.Query(ctx,
		`SELECT id, opponent, location, starts_at, home_goals, away_goals, created_at
			FROM match ORDER BY starts_at DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2matches(rows)
}

// Next returns the first match still to be played, or ErrMatchNotFound
// when the calendar has no upcoming fixture.
func (r *Repo) Next(ctx context.Context, now time.Time) (*Match, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "matchesRepo.next")
	defer span.End()

	rows, err := r.db.Query(ctx,
		`SELECT id, opponent, location, starts_at, home_goals, away_goals, created_at
			FROM match WHERE starts_at > $1 ORDER BY starts_at ASC LIMIT 1;`,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrMatchNotFound
	}

	return scanMatch(rows)
}

func (r *Repo) Get(ctx context.Context, id int) (*Match, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, opponent, location, starts_at, home_goals, away_goals, created_at
			FROM match WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrMatchNotFound
	}

	return scanMatch(rows)
}

func rows2matches(rows pgx.Rows) ([]*Match, error) {
	var allMatches []*Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		allMatches = append(allMatches, match)
	}
	return allMatches, nil
}

func scanMatch(rows pgx.Rows) (*Match, error) {
	var match Match
	if err := rows.Scan(
		&match.ID, &match.Opponent, &match.Location, &match.StartsAt,
		&match.HomeGoals, &match.AwayGoals, &match.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	return &match, nil
}
