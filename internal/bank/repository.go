// AngelaMos | 2026
// repository.go

package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/partnerdesk/agreements-api/internal/core"
)

const bankColumns = `id, name, registration_number, tax_id, contact_email,
	phone, address, city, state, country, postal_code, bank_type,
	ceo_name, ceo_email, cto_name, cto_email, license_number, branch_count,
	is_kyc_compliant, is_aml_compliant, supported_currencies, swift_code,
	notes, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, b *Bank) error
	GetByID(ctx context.Context, id int64) (*Bank, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Bank, error)
	Update(ctx context.Context, b *Bank) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	List(ctx context.Context, params ListBanksParams) ([]Bank, int, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Bank) error {
	query := `
		INSERT INTO banks (
			name, registration_number, tax_id, contact_email, phone,
			address, city, state, country, postal_code, bank_type,
			ceo_name, ceo_email, cto_name, cto_email, license_number,
			branch_count, is_kyc_compliant, is_aml_compliant,
			supported_currencies, swift_code, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id, created_at, updated_at`

	err := r.db.GetContext(ctx, b, query,
		b.Name,
		b.RegistrationNumber,
		b.TaxID,
		b.ContactEmail,
		b.Phone,
		b.Address,
		b.City,
		b.State,
		b.Country,
		b.PostalCode,
		b.BankType,
		b.CEOName,
		b.CEOEmail,
		b.CTOName,
		b.CTOEmail,
		b.LicenseNumber,
		b.BranchCount,
		b.IsKYCCompliant,
		b.IsAMLCompliant,
		pq.Array([]string(b.SupportedCurrencies)),
		b.SwiftCode,
		b.Notes,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create bank: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create bank: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Bank, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM banks WHERE id = $1`,
		bankColumns,
	)

	var b Bank
	err := r.db.GetContext(ctx, &b, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get bank: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get bank: %w", err)
	}

	return &b, nil
}

// GetByIDs fetches a batch of banks in one round trip. Missing ids are
// simply absent from the result; callers compare lengths when existence
// matters.
func (r *repository) GetByIDs(
	ctx context.Context,
	ids []int64,
) ([]Bank, error) {
	if len(ids) == 0 {
		return []Bank{}, nil
	}

	query, args, err := sqlx.In(
		fmt.Sprintf(`SELECT %s FROM banks WHERE id IN (?)`, bankColumns),
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("build bank batch query: %w", err)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var banks []Bank
	if err := r.db.SelectContext(ctx, &banks, query, args...); err != nil {
		return nil, fmt.Errorf("get banks by ids: %w", err)
	}

	return banks, nil
}

func (r *repository) Update(ctx context.Context, b *Bank) error {
	query := `
		UPDATE banks
		SET name = $2, registration_number = $3, tax_id = $4,
		    contact_email = $5, phone = $6, address = $7, city = $8,
		    state = $9, country = $10, postal_code = $11, bank_type = $12,
		    ceo_name = $13, ceo_email = $14, cto_name = $15, cto_email = $16,
		    license_number = $17, branch_count = $18,
		    is_kyc_compliant = $19, is_aml_compliant = $20,
		    supported_currencies = $21, swift_code = $22, notes = $23,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &b.UpdatedAt, query,
		b.ID,
		b.Name,
		b.RegistrationNumber,
		b.TaxID,
		b.ContactEmail,
		b.Phone,
		b.Address,
		b.City,
		b.State,
		b.Country,
		b.PostalCode,
		b.BankType,
		b.CEOName,
		b.CEOEmail,
		b.CTOName,
		b.CTOEmail,
		b.LicenseNumber,
		b.BranchCount,
		b.IsKYCCompliant,
		b.IsAMLCompliant,
		pq.Array([]string(b.SupportedCurrencies)),
		b.SwiftCode,
		b.Notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update bank: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update bank: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update bank: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM banks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bank: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bank: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete bank: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM banks`)
	if err != nil {
		return 0, fmt.Errorf("delete all banks: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all banks: %w", err)
	}

	return rows, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListBanksParams,
) ([]Bank, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"name ILIKE $%d", argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.BankType != "" {
		conditions = append(conditions, fmt.Sprintf("bank_type = $%d", argIdx))
		args = append(args, params.BankType)
		argIdx++
	}

	if params.KYCCompliant != nil {
		conditions = append(conditions, fmt.Sprintf(
			"is_kyc_compliant = $%d", argIdx))
		args = append(args, *params.KYCCompliant)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM banks WHERE %s",
		whereClause,
	)

	pageQuery := fmt.Sprintf(`
		SELECT %s
		FROM banks
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		bankColumns, whereClause, argIdx, argIdx+1)

	pageArgs := make([]any, len(args), len(args)+2)
	copy(pageArgs, args)
	pageArgs = append(pageArgs, params.PageSize, params.Offset())

	var (
		total int
		banks []Bank
	)

	// Count and page run concurrently on the pool; totals may skew
	// against concurrent writes.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := r.db.GetContext(gctx, &total, countQuery, args...); err != nil {
			return fmt.Errorf("count banks: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := r.db.SelectContext(gctx, &banks, pageQuery, pageArgs...); err != nil {
			return fmt.Errorf("list banks: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return banks, total, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM banks`)
	if err != nil {
		return 0, fmt.Errorf("count banks: %w", err)
	}
	return count, nil
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
