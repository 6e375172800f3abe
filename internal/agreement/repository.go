// AngelaMos | 2026
// repository.go

package agreement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/partnerdesk/agreements-api/internal/bank"
	"github.com/partnerdesk/agreements-api/internal/core"
)

const agreementColumns = `a.id, a.title, a.description, a.agreement_date,
	a.expiry_date, a.status, a.agreement_type, a.signature_url, a.pdf_url,
	a.created_by, a.created_at, a.updated_at,
	u.id AS "creator.id", u.email AS "creator.email",
	u.name AS "creator.name", u.role AS "creator.role"`

type Repository interface {
	CreateWithLinks(ctx context.Context, a *Agreement, bankIDs []int64) error
	GetByID(ctx context.Context, id int64) (*Agreement, error)
	List(
		ctx context.Context,
		params ListAgreementsParams,
	) ([]Agreement, int, error)
	UpdateWithLinks(
		ctx context.Context,
		a *Agreement,
		bankIDs *[]int64,
	) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	SetSignatureURL(ctx context.Context, id int64, url string) error
	SetPDFURL(ctx context.Context, id int64, url string) error
	LoadBanks(
		ctx context.Context,
		agreementIDs []int64,
	) (map[int64][]bank.Bank, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// repository holds the pool directly rather than a DBTX because the
// create/update paths open their own transaction around the record write
// and the link replacement.
type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithLinks(
	ctx context.Context,
	a *Agreement,
	bankIDs []int64,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO agreements (
				title, description, agreement_date, expiry_date,
				status, agreement_type, created_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at`

		err := tx.GetContext(ctx, a, query,
			a.Title,
			a.Description,
			a.AgreementDate,
			a.ExpiryDate,
			a.Status,
			a.AgreementType,
			a.CreatedByID,
		)
		if err != nil {
			return translateWriteError("create agreement", err)
		}

		return replaceLinks(ctx, tx, a.ID, bankIDs)
	})
}

func (r *repository) GetByID(
	ctx context.Context,
	id int64,
) (*Agreement, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM agreements a
		JOIN users u ON u.id = a.created_by
		WHERE a.id = $1`,
		agreementColumns)

	var a Agreement
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get agreement: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get agreement: %w", err)
	}

	return &a, nil
}

// List runs the count and page queries concurrently over the identical
// predicate. The two reads are not transactionally consistent with each
// other; total may skew from data under concurrent writes.
func (r *repository) List(
	ctx context.Context,
	params ListAgreementsParams,
) ([]Agreement, int, error) {
	params.Normalize()

	whereClause, args := buildListFilter(params)

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM agreements a WHERE %s",
		whereClause,
	)

	pageQuery := fmt.Sprintf(`
		SELECT %s
		FROM agreements a
		JOIN users u ON u.id = a.created_by
		WHERE %s
		ORDER BY a.created_at DESC
		LIMIT $%d OFFSET $%d`,
		agreementColumns, whereClause, len(args)+1, len(args)+2)

	pageArgs := make([]any, len(args), len(args)+2)
	copy(pageArgs, args)
	pageArgs = append(pageArgs, params.PageSize, params.Offset())

	var (
		total      int
		agreements []Agreement
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := r.db.GetContext(gctx, &total, countQuery, args...); err != nil {
			return fmt.Errorf("count agreements: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := r.db.SelectContext(gctx, &agreements, pageQuery, pageArgs...)
		if err != nil {
			return fmt.Errorf("list agreements: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return agreements, total, nil
}

func (r *repository) UpdateWithLinks(
	ctx context.Context,
	a *Agreement,
	bankIDs *[]int64,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE agreements
			SET title = $2, description = $3, agreement_date = $4,
			    expiry_date = $5, status = $6, agreement_type = $7,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`

		err := tx.GetContext(ctx, &a.UpdatedAt, query,
			a.ID,
			a.Title,
			a.Description,
			a.AgreementDate,
			a.ExpiryDate,
			a.Status,
			a.AgreementType,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update agreement: %w", core.ErrNotFound)
		}
		if err != nil {
			return translateWriteError("update agreement", err)
		}

		// nil means the patch did not touch the relation; an empty slice
		// clears every link (replace-set semantics).
		if bankIDs == nil {
			return nil
		}

		return replaceLinks(ctx, tx, a.ID, *bankIDs)
	})
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM agreements WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete agreement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete agreement: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete agreement: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM agreements`)
	if err != nil {
		return 0, fmt.Errorf("delete all agreements: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all agreements: %w", err)
	}

	return rows, nil
}

func (r *repository) SetSignatureURL(
	ctx context.Context,
	id int64,
	url string,
) error {
	return r.setFileURL(ctx, "signature_url", id, url)
}

func (r *repository) SetPDFURL(
	ctx context.Context,
	id int64,
	url string,
) error {
	return r.setFileURL(ctx, "pdf_url", id, url)
}

func (r *repository) setFileURL(
	ctx context.Context,
	column string,
	id int64,
	url string,
) error {
	query := fmt.Sprintf(`
		UPDATE agreements
		SET %s = $2, updated_at = NOW()
		WHERE id = $1`,
		column)

	result, err := r.db.ExecContext(ctx, query, id, url)
	if err != nil {
		return fmt.Errorf("set %s: %w", column, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set %s: %w", column, err)
	}

	if rows == 0 {
		return fmt.Errorf("set %s: %w", column, core.ErrNotFound)
	}

	return nil
}

// LoadBanks batch-loads the linked banks for a set of agreements in one
// round trip.
func (r *repository) LoadBanks(
	ctx context.Context,
	agreementIDs []int64,
) (map[int64][]bank.Bank, error) {
	result := make(map[int64][]bank.Bank, len(agreementIDs))
	if len(agreementIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
		SELECT ab.agreement_id,
		       b.id, b.name, b.registration_number, b.tax_id,
		       b.contact_email, b.phone, b.address, b.city, b.state,
		       b.country, b.postal_code, b.bank_type, b.ceo_name,
		       b.ceo_email, b.cto_name, b.cto_email, b.license_number,
		       b.branch_count, b.is_kyc_compliant, b.is_aml_compliant,
		       b.supported_currencies, b.swift_code, b.notes,
		       b.created_at, b.updated_at
		FROM agreement_banks ab
		JOIN banks b ON b.id = ab.bank_id
		WHERE ab.agreement_id IN (?)
		ORDER BY b.name`,
		agreementIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("build bank link query: %w", err)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var rows []struct {
		AgreementID int64 `db:"agreement_id"`
		bank.Bank
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("load agreement banks: %w", err)
	}

	for _, row := range rows {
		result[row.AgreementID] = append(result[row.AgreementID], row.Bank)
	}

	return result, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM agreements`)
	if err != nil {
		return 0, fmt.Errorf("count agreements: %w", err)
	}
	return count, nil
}

func (r *repository) CountByStatus(
	ctx context.Context,
) (map[string]int, error) {
	query := `SELECT status, COUNT(*) AS count FROM agreements GROUP BY status`

	rows := []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count agreements by status: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

func replaceLinks(
	ctx context.Context,
	tx *sqlx.Tx,
	agreementID int64,
	bankIDs []int64,
) error {
	_, err := tx.ExecContext(
		ctx,
		`DELETE FROM agreement_banks WHERE agreement_id = $1`,
		agreementID,
	)
	if err != nil {
		return fmt.Errorf("clear bank links: %w", err)
	}

	for _, bankID := range bankIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO agreement_banks (agreement_id, bank_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			agreementID, bankID)
		if err != nil {
			return translateWriteError("link bank", err)
		}
	}

	return nil
}

// translateWriteError maps constraint violations onto the domain taxonomy:
// broken foreign keys mean a referenced record does not exist.
func translateWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return fmt.Errorf("%s: %w", op, core.ErrNotFound)
		case "23505":
			return fmt.Errorf("%s: %w", op, core.ErrDuplicateKey)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
