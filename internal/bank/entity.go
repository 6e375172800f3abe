// AngelaMos | 2026
// entity.go

package bank

import (
	"time"

	"github.com/lib/pq"
)

const (
	TypeMicrofinance = "MICROFINANCE"
	TypeCommercial   = "COMMERCIAL"
	TypeInvestment   = "INVESTMENT"
)

func ValidBankType(bankType string) bool {
	switch bankType {
	case TypeMicrofinance, TypeCommercial, TypeInvestment:
		return true
	}
	return false
}

// Bank is a partner organization. Most profile fields are optional free
// text; supported_currencies is a Postgres text[] column.
type Bank struct {
	ID                  int64          `db:"id"`
	Name                string         `db:"name"`
	RegistrationNumber  *string        `db:"registration_number"`
	TaxID               *string        `db:"tax_id"`
	ContactEmail        string         `db:"contact_email"`
	Phone               *string        `db:"phone"`
	Address             *string        `db:"address"`
	City                *string        `db:"city"`
	State               *string        `db:"state"`
	Country             *string        `db:"country"`
	PostalCode          *string        `db:"postal_code"`
	BankType            *string        `db:"bank_type"`
	CEOName             *string        `db:"ceo_name"`
	CEOEmail            *string        `db:"ceo_email"`
	CTOName             *string        `db:"cto_name"`
	CTOEmail            *string        `db:"cto_email"`
	LicenseNumber       *string        `db:"license_number"`
	BranchCount         *int           `db:"branch_count"`
	IsKYCCompliant      bool           `db:"is_kyc_compliant"`
	IsAMLCompliant      bool           `db:"is_aml_compliant"`
	SupportedCurrencies pq.StringArray `db:"supported_currencies"`
	SwiftCode           *string        `db:"swift_code"`
	Notes               *string        `db:"notes"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}
