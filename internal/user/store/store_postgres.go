package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"userapi/internal/user/boolcodec"
	"userapi/internal/user/models"
	"userapi/pkg/platform/sentinel"
	"userapi/pkg/requestcontext"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// PostgresStore persists user records in PostgreSQL with hand-written SQL.
// The flagged_bool column is text-typed; the codec translates between the
// canonical boolean and the stored token on every write and read.
type PostgresStore struct {
	db    *sql.DB
	codec boolcodec.Codec
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB, codec boolcodec.Codec) *PostgresStore {
	return &PostgresStore{db: db, codec: codec}
}

// userColumns is every column read back out of storage. The credential hash
// is intentionally absent: it is write-only and nothing downstream needs it.
const userColumns = `id, login, first_name, last_name, created_at, created_from,
	changed_at, changed_from, is_active, flagged_bool`

const sqlInsertUser = `
	INSERT INTO "user" (login, credential_hash, first_name, last_name,
		created_at, created_from, changed_at, changed_from, is_active, flagged_bool)
	VALUES ($1, $2, $3, $4, $5, $6, $5, $6, TRUE, $7)
	RETURNING ` + userColumns

const sqlFindActiveUser = `
	SELECT ` + userColumns + `
	FROM "user"
	WHERE id = $1 AND is_active`

const sqlListActiveUsers = `
	SELECT ` + userColumns + `
	FROM "user"
	WHERE is_active`

const sqlSoftDeleteUser = `
	UPDATE "user"
	SET is_active = FALSE, changed_at = $2
	WHERE id = $1 AND is_active`

const sqlHardDeleteUser = `
	DELETE FROM "user" WHERE id = $1`

func (s *PostgresStore) Insert(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	now := requestcontext.Now(ctx)
	row := s.db.QueryRowContext(ctx, sqlInsertUser,
		params.Login,
		params.Credential,
		params.FirstName,
		params.LastName,
		now,
		params.CreatedFrom,
		nullString(s.codec.Encode(params.Flagged)),
	)
	user, err := s.scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert user: %w", sentinel.ErrConflict)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) FindActiveByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.scanUser(s.db.QueryRowContext(ctx, sqlFindActiveUser, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, sqlListActiveUsers)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := s.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list active users: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	return users, nil
}

// Update builds the SET clause strictly from the columns present in params;
// the whitelist of mutable columns is the parameter type itself. changed_at
// is always refreshed, and the statement only matches active rows, so an
// inactive record reports not found rather than being resurrected.
func (s *PostgresStore) Update(ctx context.Context, id int64, params models.UpdateUserParams) (*models.User, error) {
	setClauses := make([]string, 0, 7)
	args := make([]any, 0, 8)
	argIdx := 1

	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Login != nil {
		set("login", *params.Login)
	}
	if params.Credential != nil {
		set("credential_hash", *params.Credential)
	}
	if params.FirstName != nil {
		set("first_name", *params.FirstName)
	}
	if params.LastName != nil {
		set("last_name", *params.LastName)
	}
	if params.Flagged != nil {
		set("flagged_bool", nullString(s.codec.Encode(*params.Flagged)))
	}
	if params.ChangedFrom != nil {
		set("changed_from", *params.ChangedFrom)
	}
	set("changed_at", requestcontext.Now(ctx))

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE "user"
		SET %s
		WHERE id = $%d AND is_active
		RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, userColumns)

	user, err := s.scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update user: %w", sentinel.ErrConflict)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) SoftDelete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, sqlSoftDeleteUser, id, requestcontext.Now(ctx))
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	return requireRowAffected(res)
}

func (s *PostgresStore) HardDelete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, sqlHardDeleteUser, id)
	if err != nil {
		return fmt.Errorf("hard delete user: %w", err)
	}
	return requireRowAffected(res)
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanUser is the single place that maps the user row; adding a column means
// touching userColumns and this function only.
func (s *PostgresStore) scanUser(row scanner) (*models.User, error) {
	var (
		user    models.User
		flagged sql.NullString
	)
	err := row.Scan(
		&user.ID,
		&user.Login,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.CreatedFrom,
		&user.ChangedAt,
		&user.ChangedFrom,
		&user.IsActive,
		&flagged,
	)
	if err != nil {
		return nil, err
	}

	if flagged.Valid {
		decoded, err := s.codec.DecodeToken(&flagged.String)
		if err != nil {
			return nil, fmt.Errorf("decode flagged_bool: %w", err)
		}
		user.Flagged = decoded
	}
	return &user, nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
