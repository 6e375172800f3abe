// AngelaMos | 2026
// entity.go

package agreement

import (
	"time"

	"github.com/partnerdesk/agreements-api/internal/bank"
)

const (
	StatusPending   = "PENDING"
	StatusActive    = "ACTIVE"
	StatusExpired   = "EXPIRED"
	StatusCancelled = "CANCELLED"
)

const (
	TypeCommercial   = "COMMERCIAL"
	TypeMicrofinance = "MICROFINANCE"
	TypeCooperative  = "COOPERATIVE"
	TypeInvestment   = "INVESTMENT"
	TypeDevelopment  = "DEVELOPMENT"
	TypeCentral      = "CENTRAL"
	TypeSwift        = "SWIFT"
	TypeOther        = "OTHER"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusActive, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

func ValidType(agreementType string) bool {
	switch agreementType {
	case TypeCommercial, TypeMicrofinance, TypeCooperative, TypeInvestment,
		TypeDevelopment, TypeCentral, TypeSwift, TypeOther:
		return true
	}
	return false
}

// CreatorSummary is the slice of the owning user exposed on agreement
// reads. Loaded via join, never mutated through this package.
type CreatorSummary struct {
	ID    int64  `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Role  string `db:"role"`
}

// Agreement is a contract record. CreatedByID is set from the
// authenticated caller at creation and never changes afterwards.
// SignatureURL and PDFURL point at externally stored files and are only
// written after a successful upload.
type Agreement struct {
	ID            int64          `db:"id"`
	Title         string         `db:"title"`
	Description   *string        `db:"description"`
	AgreementDate time.Time      `db:"agreement_date"`
	ExpiryDate    *time.Time     `db:"expiry_date"`
	Status        string         `db:"status"`
	AgreementType string         `db:"agreement_type"`
	SignatureURL  *string        `db:"signature_url"`
	PDFURL        *string        `db:"pdf_url"`
	CreatedByID   int64          `db:"created_by"`
	Creator       CreatorSummary `db:"creator"`
	Banks         []bank.Bank    `db:"-"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}
