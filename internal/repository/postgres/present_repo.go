package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-wishlist/internal/model"
	"go-wishlist/internal/repository"
)

const presentColumns = `id, title, description, links, url, reserved, created_at, updated_at`

type PresentRepository struct {
	pool *pgxpool.Pool
}

var _ repository.PresentRepository = (*PresentRepository)(nil)

func NewPresentRepository(pool *pgxpool.Pool) *PresentRepository {
	return &PresentRepository{pool: pool}
}

func (r *PresentRepository) Create(ctx context.Context, p *model.Present) error {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO presents (title, description, links, url, reserved, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)
		 RETURNING id`,
		p.Title, p.Description, nonNilLinks(p.Links), p.URL, p.Reserved, now).
		Scan(&p.ID)
	if err != nil {
		return storeErr("create present", err)
	}

	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *PresentRepository) FindByID(ctx context.Context, id int64) (model.Present, error) {
	p, err := scanPresent(r.pool.QueryRow(ctx, `SELECT `+presentColumns+` FROM presents WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Present{}, model.ErrPresentNotFound
	}
	if err != nil {
		return model.Present{}, storeErr("find present by id", err)
	}
	return p, nil
}

func (r *PresentRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Present, error) {
	if len(ids) == 0 {
		return []model.Present{}, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT `+presentColumns+` FROM presents WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, storeErr("find presents by ids", err)
	}

	presents, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Present, error) {
		return scanPresent(row)
	})
	if err != nil {
		return nil, storeErr("scan presents", err)
	}
	return presents, nil
}

func (r *PresentRepository) Update(ctx context.Context, p model.Present) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE presents
		 SET title = $2, description = $3, links = $4, url = $5, reserved = $6, updated_at = $7
		 WHERE id = $1`,
		p.ID, p.Title, p.Description, nonNilLinks(p.Links), p.URL, p.Reserved, time.Now().UTC())
	if err != nil {
		return storeErr("update present", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPresentNotFound
	}
	return nil
}

// Delete removes the present and detaches it from every owner.
func (r *PresentRepository) Delete(ctx context.Context, id int64) error {
	var missing bool
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM presents WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			missing = true
			return nil
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET present_ids = array_remove(present_ids, $1), updated_at = $2
			 WHERE $1 = ANY(present_ids)`, id, time.Now().UTC())
		return err
	})
	if err != nil {
		return storeErr("delete present", err)
	}
	if missing {
		return model.ErrPresentNotFound
	}
	return nil
}

func scanPresent(row pgx.Row) (model.Present, error) {
	var p model.Present
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Links, &p.URL, &p.Reserved, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func nonNilLinks(links []string) []string {
	if links == nil {
		return []string{}
	}
	return links
}
