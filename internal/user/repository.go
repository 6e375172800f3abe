// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"

	"github.com/partnerdesk/agreements-api/internal/core"
)

type Repository interface {
	Upsert(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByAuth0ID(ctx context.Context, auth0ID string) (*User, error)
	UpdateRole(ctx context.Context, id int64, role string) (*User, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context) (map[string]int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Upsert inserts the user or, when the provider subject already exists,
// refreshes the profile fields and login timestamp. Role is only set on
// first insert; existing role assignments survive re-login.
func (r *repository) Upsert(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (auth0_id, email, name, picture, role, last_login_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (auth0_id) DO UPDATE
		SET email = EXCLUDED.email,
		    name = EXCLUDED.name,
		    picture = EXCLUDED.picture,
		    last_login_at = NOW(),
		    updated_at = NOW()
		RETURNING id, role, last_login_at, created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.Auth0ID,
		user.Email,
		user.Name,
		user.Picture,
		user.Role,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("upsert user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, auth0_id, email, name, picture, role, last_login_at,
		       created_at, updated_at
		FROM users
		WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByAuth0ID(
	ctx context.Context,
	auth0ID string,
) (*User, error) {
	query := `
		SELECT id, auth0_id, email, name, picture, role, last_login_at,
		       created_at, updated_at
		FROM users
		WHERE auth0_id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, auth0ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by subject: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by subject: %w", err)
	}

	return &user, nil
}

func (r *repository) UpdateRole(
	ctx context.Context,
	id int64,
	role string,
) (*User, error) {
	query := `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, auth0_id, email, name, picture, role, last_login_at,
		          created_at, updated_at`

	var user User
	err := r.db.GetContext(ctx, &user, query, id, role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update user role: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update user role: %w", err)
	}

	return &user, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteAll(ctx context.Context) (int64, error) {
	query := `DELETE FROM users`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("delete all users: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all users: %w", err)
	}

	return rows, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)

	pageQuery := fmt.Sprintf(`
		SELECT id, auth0_id, email, name, picture, role, last_login_at,
		       created_at, updated_at
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	pageArgs := make([]any, len(args), len(args)+2)
	copy(pageArgs, args)
	pageArgs = append(pageArgs, params.PageSize, params.Offset())

	var (
		total int
		users []User
	)

	// Count and page run concurrently on the pool; totals may skew
	// against concurrent writes.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := r.db.GetContext(gctx, &total, countQuery, args...); err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := r.db.SelectContext(gctx, &users, pageQuery, pageArgs...); err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *repository) CountByRole(ctx context.Context) (map[string]int, error) {
	query := `SELECT role, COUNT(*) AS count FROM users GROUP BY role`

	rows := []struct {
		Role  string `db:"role"`
		Count int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}

	return counts, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
