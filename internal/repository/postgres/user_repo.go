package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-wishlist/internal/model"
	"go-wishlist/internal/repository"
)

const userColumns = `id, name, last_name, password_hash, birthday, friend_ids, present_ids, url, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, name_key, last_name, password_hash, birthday, friend_ids, present_ids, url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		 RETURNING id`,
		strings.TrimSpace(u.Name), model.NameKey(u.Name), strings.TrimSpace(u.LastName), u.PasswordHash, u.Birthday,
		u.FriendIDs.Slice(), u.PresentIDs.Slice(), u.URL, now).
		Scan(&u.ID)
	if isUniqueViolation(err) {
		return model.ErrUserAlreadyExists
	}
	if err != nil {
		return storeErr("create user", err)
	}

	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, storeErr("find user by id", err)
	}
	return u, nil
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE name_key = $1`, model.NameKey(name)))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, storeErr("find user by name", err)
	}
	return u, nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, storeErr("find users by ids", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, storeErr("scan users", err)
	}
	return users, nil
}

func (r *UserRepository) FindFriend(ctx context.Context, userID int64, friendID int64) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT f.id, f.name, f.last_name, f.password_hash, f.birthday, f.friend_ids, f.present_ids,
		        f.url, f.created_at, f.updated_at
		 FROM users u
		 JOIN users f ON f.id = ANY(u.friend_ids)
		 WHERE u.id = $1 AND f.id = $2`, userID, friendID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrFriendNotFound
	}
	if err != nil {
		return model.User{}, storeErr("find friend", err)
	}
	return u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u model.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET name = $2, name_key = $3, last_name = $4, password_hash = $5, birthday = $6, url = $7, updated_at = $8
		 WHERE id = $1`,
		u.ID, strings.TrimSpace(u.Name), model.NameKey(u.Name), strings.TrimSpace(u.LastName), u.PasswordHash,
		u.Birthday, u.URL, time.Now().UTC())
	if isUniqueViolation(err) {
		return model.ErrUserAlreadyExists
	}
	if err != nil {
		return storeErr("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// Delete removes the user and strips its id from every other friend list.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	var missing bool
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			missing = true
			return nil
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET friend_ids = array_remove(friend_ids, $1), updated_at = $2
			 WHERE $1 = ANY(friend_ids)`, id, time.Now().UTC())
		return err
	})
	if err != nil {
		return storeErr("delete user", err)
	}
	if missing {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) WithRelationTx(ctx context.Context, fn func(tx repository.RelationTx) error) error {
	var fnErr error
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		fnErr = fn(&relationTx{tx: tx})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return storeErr("relation transaction", err)
	}
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

type relationTx struct {
	tx pgx.Tx
}

func (t *relationTx) LockUser(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(t.tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, storeErr("lock user", err)
	}
	return u, nil
}

func (t *relationTx) UserExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := t.tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, storeErr("check user exists", err)
	}
	return exists, nil
}

func (t *relationTx) PresentExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := t.tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM presents WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, storeErr("check present exists", err)
	}
	return exists, nil
}

func (t *relationTx) SaveRelations(ctx context.Context, u model.User) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE users SET friend_ids = $2, present_ids = $3, updated_at = $4 WHERE id = $1`,
		u.ID, u.FriendIDs.Slice(), u.PresentIDs.Slice(), time.Now().UTC())
	if err != nil {
		return storeErr("save relations", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		u        model.User
		friends  []int64
		presents []int64
	)
	err := row.Scan(&u.ID, &u.Name, &u.LastName, &u.PasswordHash, &u.Birthday,
		&friends, &presents, &u.URL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}

	u.FriendIDs = model.IDSet(friends)
	u.PresentIDs = model.IDSet(presents)
	return u, nil
}
