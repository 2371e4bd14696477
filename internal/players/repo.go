package players

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atleticomaneiro/backend/internal/telemetry/tracing"
)

var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrPlayerNameEmpty = errors.New("player name empty")
)

type Player struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Number    int       `json:"number"`
	Position  string    `json:"position"`
	ImageURL  string    `json:"image_url"`
	Goals     int       `json:"goals"`
	Assists   int       `json:"assists"`
	Saves     *int      `json:"saves,omitempty"` // goalkeepers only
	CreatedAt time.Time `json:"created_at"`
}

var _ playersRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, player *Player) error {
	if player.Name == "" {
		return ErrPlayerNameEmpty
	}

	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now()
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO players (name, number, position, image_url, goals, assists, saves, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id;`,
		player.Name, player.Number, player.Position, player.ImageURL,
		player.Goals, player.Assists, player.Saves, player.CreatedAt,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return err
	}

	if rows.Next() {
		var id int
		if err := rows.Scan(&id); err == nil {
			player.ID = id
			return nil
		}
	}

	return errors.New("unexpected error, failed to insert player")
}

func (r *Repo) Update(ctx context.Context, player *Player) error {
	if player.Name == "" {
		return ErrPlayerNameEmpty
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE players
			SET name = $1, number = $2, position = $3, image_url = $4, goals = $5, assists = $6, saves = $7
			WHERE id = $8`,
		player.Name, player.Number, player.Position, player.ImageURL,
		player.Goals, player.Assists, player.Saves, player.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (r *Repo) All(ctx context.Context) ([]*Player, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "playersRepo.all")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, number, position, image_url, goals, assists, saves, created_at
			FROM players ORDER BY number ASC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2players(rows)
}

func (r *Repo) Get(ctx context.Context, id int) (*Player, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "playersRepo.get")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, number, position, image_url, goals, assists, saves, created_at
			FROM players WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrPlayerNotFound
	}

	return scanPlayer(rows)
}

func rows2players(rows pgx.Rows) ([]*Player, error) {
	var players []*Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}

func scanPlayer(rows pgx.Rows) (*Player, error) {
	var p Player
	if err := rows.Scan(
		&p.ID, &p.Name, &p.Number, &p.Position, &p.ImageURL,
		&p.Goals, &p.Assists, &p.Saves, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
