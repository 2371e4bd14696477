package teamstats

import (
	"context"
	"fmt"

	"github.com/atleticomaneiro/backend/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Stats is the club's single season tally row.
type Stats struct {
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
}

func (s Stats) Points() int {
	return s.Wins*3 + s.Draws
}

var _ statsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Get returns the stats row, creating a zeroed one on first use.
func (r *Repo) Get(ctx context.Context) (*Stats, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "statsRepo.get")
	defer span.End()

	var stats Stats
	err := r.db.QueryRow(ctx,
		`SELECT wins, draws, losses, goals_for, goals_against
			FROM team_stats WHERE id = 1;`,
	).Scan(
		&stats.Wins, &stats.Draws, &stats.Losses,
		&stats.GoalsFor, &stats.GoalsAgainst,
	)
	if err == nil {
		return &stats, nil
	}

	if _, insertErr := r.db.Exec(ctx,
		`INSERT INTO team_stats (id, wins, draws, losses, goals_for, goals_against)
			VALUES (1, 0, 0, 0, 0, 0)
			ON CONFLICT (id) DO NOTHING;`,
	); insertErr != nil {
		return nil, fmt.Errorf("create stats row: %w", insertErr)
	}

	return &Stats{}, nil
}

func (r *Repo) Update(ctx context.Context, stats *Stats) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "statsRepo.update")
	defer span.End()

	if _, err := r.db.Exec(ctx,
		`INSERT INTO team_stats (id, wins, draws, losses, goals_for, goals_against)
			VALUES (1, $1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				wins = EXCLUDED.wins,
				draws = EXCLUDED.draws,
				losses = EXCLUDED.losses,
				goals_for = EXCLUDED.goals_for,
				goals_against = EXCLUDED.goals_against;`,
		stats.Wins, stats.Draws, stats.Losses,
		stats.GoalsFor, stats.GoalsAgainst,
	); err != nil {
		return err
	}

	return nil
}
