package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-wishlist/internal/model"
	"go-wishlist/internal/repository"
)

const presentColumns = `id, title, description, links, url, reserved, created_at, updated_at`

type PresentRepository struct {
	db *sql.DB
}

var _ repository.PresentRepository = (*PresentRepository)(nil)

func NewPresentRepository(db *sql.DB) *PresentRepository {
	return &PresentRepository{db: db}
}

func (r *PresentRepository) Create(ctx context.Context, p *model.Present) error {
	links, err := encodeLinks(p.Links)
	if err != nil {
		return storeErr("encode links", err)
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO presents (title, description, links, url, reserved, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Description, links, p.URL, p.Reserved, unixNano(now), unixNano(now))
	if err != nil {
		return storeErr("create present", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return storeErr("read present id", err)
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *PresentRepository) FindByID(ctx context.Context, id int64) (model.Present, error) {
	p, err := scanPresent(r.db.QueryRowContext(ctx, `SELECT `+presentColumns+` FROM presents WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
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

	raw, err := encodeIDs(model.IDSet(ids))
	if err != nil {
		return nil, storeErr("encode ids", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+presentColumns+` FROM presents WHERE id IN (SELECT value FROM json_each(?)) ORDER BY id`, raw)
	if err != nil {
		return nil, storeErr("find presents by ids", err)
	}
	defer rows.Close()

	presents := make([]model.Present, 0, len(ids))
	for rows.Next() {
		p, err := scanPresent(rows)
		if err != nil {
			return nil, storeErr("scan present", err)
		}
		presents = append(presents, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate presents", err)
	}
	return presents, nil
}

func (r *PresentRepository) Update(ctx context.Context, p model.Present) error {
	links, err := encodeLinks(p.Links)
	if err != nil {
		return storeErr("encode links", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE presents
		 SET title = ?, description = ?, links = ?, url = ?, reserved = ?, updated_at = ?
		 WHERE id = ?`,
		p.Title, p.Description, links, p.URL, p.Reserved, unixNano(time.Now().UTC()), p.ID)
	if err != nil {
		return storeErr("update present", err)
	}
	return requireAffected(res, model.ErrPresentNotFound)
}

// Delete removes the present and detaches it from every owner.
func (r *PresentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin delete present", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `DELETE FROM presents WHERE id = ?`, id)
	if err != nil {
		return storeErr("delete present", err)
	}
	if err := requireAffected(res, model.ErrPresentNotFound); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users
		 SET present_ids = (SELECT json_group_array(value) FROM json_each(users.present_ids) WHERE value != ?),
		     updated_at = ?
		 WHERE EXISTS (SELECT 1 FROM json_each(users.present_ids) WHERE value = ?)`,
		id, unixNano(time.Now().UTC()), id)
	if err != nil {
		return storeErr("detach deleted present", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit delete present", err)
	}
	return nil
}

func scanPresent(row rowScanner) (model.Present, error) {
	var (
		p                  model.Present
		links              string
		createdAt, updated int64
	)
	err := row.Scan(&p.ID, &p.Title, &p.Description, &links, &p.URL, &p.Reserved, &createdAt, &updated)
	if err != nil {
		return model.Present{}, err
	}

	if err := json.Unmarshal([]byte(links), &p.Links); err != nil {
		return model.Present{}, fmt.Errorf("decode links: %w", err)
	}
	p.CreatedAt = fromUnixNano(createdAt)
	p.UpdatedAt = fromUnixNano(updated)
	return p, nil
}

func encodeLinks(links []string) (string, error) {
	if links == nil {
		links = []string{}
	}
	b, err := json.Marshal(links)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
