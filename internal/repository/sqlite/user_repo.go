package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-wishlist/internal/model"
	"go-wishlist/internal/repository"
)

const userColumns = `id, name, last_name, password_hash, birthday, friend_ids, present_ids, url, created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	friends, err := encodeIDs(u.FriendIDs)
	if err != nil {
		return storeErr("encode friend ids", err)
	}
	presents, err := encodeIDs(u.PresentIDs)
	if err != nil {
		return storeErr("encode present ids", err)
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, name_key, last_name, password_hash, birthday, friend_ids, present_ids, url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(u.Name), model.NameKey(u.Name), strings.TrimSpace(u.LastName), u.PasswordHash, encodeBirthday(u.Birthday),
		friends, presents, u.URL, unixNano(now), unixNano(now))
	if isUniqueViolation(err) {
		return model.ErrUserAlreadyExists
	}
	if err != nil {
		return storeErr("create user", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return storeErr("read user id", err)
	}

	u.ID = id
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, storeErr("find user by id", err)
	}
	return u, nil
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE name_key = ?`, model.NameKey(name)))
	if errors.Is(err, sql.ErrNoRows) {
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

	raw, err := encodeIDs(model.IDSet(ids))
	if err != nil {
		return nil, storeErr("encode ids", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id IN (SELECT value FROM json_each(?)) ORDER BY id`, raw)
	if err != nil {
		return nil, storeErr("find users by ids", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, len(ids))
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storeErr("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate users", err)
	}
	return users, nil
}

func (r *UserRepository) FindFriend(ctx context.Context, userID int64, friendID int64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT f.id, f.name, f.last_name, f.password_hash, f.birthday, f.friend_ids, f.present_ids,
		        f.url, f.created_at, f.updated_at
		 FROM users u
		 JOIN json_each(u.friend_ids) j
		 JOIN users f ON f.id = j.value
		 WHERE u.id = ? AND f.id = ?`, userID, friendID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrFriendNotFound
	}
	if err != nil {
		return model.User{}, storeErr("find friend", err)
	}
	return u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u model.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET name = ?, name_key = ?, last_name = ?, password_hash = ?, birthday = ?, url = ?, updated_at = ?
		 WHERE id = ?`,
		strings.TrimSpace(u.Name), model.NameKey(u.Name), strings.TrimSpace(u.LastName), u.PasswordHash, encodeBirthday(u.Birthday),
		u.URL, unixNano(time.Now().UTC()), u.ID)
	if isUniqueViolation(err) {
		return model.ErrUserAlreadyExists
	}
	if err != nil {
		return storeErr("update user", err)
	}
	return requireAffected(res, model.ErrUserNotFound)
}

// Delete removes the user and strips its id from every other friend list.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin delete user", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return storeErr("delete user", err)
	}
	if err := requireAffected(res, model.ErrUserNotFound); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users
		 SET friend_ids = (SELECT json_group_array(value) FROM json_each(users.friend_ids) WHERE value != ?),
		     updated_at = ?
		 WHERE EXISTS (SELECT 1 FROM json_each(users.friend_ids) WHERE value = ?)`,
		id, unixNano(time.Now().UTC()), id)
	if err != nil {
		return storeErr("detach deleted user", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit delete user", err)
	}
	return nil
}

func (r *UserRepository) WithRelationTx(ctx context.Context, fn func(tx repository.RelationTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin relation transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(&relationTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit relation transaction", err)
	}
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

// relationTx relies on the single shared connection for isolation: while the
// transaction is open no other statement can run.
type relationTx struct {
	tx *sql.Tx
}

func (t *relationTx) LockUser(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(t.tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, storeErr("lock user", err)
	}
	return u, nil
}

func (t *relationTx) UserExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := t.tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists); err != nil {
		return false, storeErr("check user exists", err)
	}
	return exists, nil
}

func (t *relationTx) PresentExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := t.tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM presents WHERE id = ?)`, id).Scan(&exists); err != nil {
		return false, storeErr("check present exists", err)
	}
	return exists, nil
}

func (t *relationTx) SaveRelations(ctx context.Context, u model.User) error {
	friends, err := encodeIDs(u.FriendIDs)
	if err != nil {
		return storeErr("encode friend ids", err)
	}
	presents, err := encodeIDs(u.PresentIDs)
	if err != nil {
		return storeErr("encode present ids", err)
	}

	res, err := t.tx.ExecContext(ctx,
		`UPDATE users SET friend_ids = ?, present_ids = ?, updated_at = ? WHERE id = ?`,
		friends, presents, unixNano(time.Now().UTC()), u.ID)
	if err != nil {
		return storeErr("save relations", err)
	}
	return requireAffected(res, model.ErrUserNotFound)
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		u                  model.User
		birthday           sql.NullString
		friends, presents  string
		createdAt, updated int64
	)
	err := row.Scan(&u.ID, &u.Name, &u.LastName, &u.PasswordHash, &birthday,
		&friends, &presents, &u.URL, &createdAt, &updated)
	if err != nil {
		return model.User{}, err
	}

	if u.Birthday, err = decodeBirthday(birthday); err != nil {
		return model.User{}, err
	}
	if u.FriendIDs, err = decodeIDs(friends); err != nil {
		return model.User{}, err
	}
	if u.PresentIDs, err = decodeIDs(presents); err != nil {
		return model.User{}, err
	}
	u.CreatedAt = fromUnixNano(createdAt)
	u.UpdatedAt = fromUnixNano(updated)
	return u, nil
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("rows affected", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
