// AngelaMos | 2026
// dto.go

package agreement

import (
	"time"

	"github.com/partnerdesk/agreements-api/internal/bank"
	"github.com/partnerdesk/agreements-api/internal/storage"
)

// Dates travel as plain YYYY-MM-DD strings and are parsed in the service
// so validation failures surface as field errors, not decode errors.
const dateLayout = "2006-01-02"

type CreateAgreementRequest struct {
	Title         string  `json:"title"          validate:"required,min=1,max=255"`
	Description   *string `json:"description"`
	AgreementDate string  `json:"agreement_date" validate:"required,datetime=2006-01-02"`
	ExpiryDate    *string `json:"expiry_date"    validate:"omitempty,datetime=2006-01-02"`
	Status        *string `json:"status"         validate:"omitempty,oneof=PENDING ACTIVE EXPIRED CANCELLED"`
	AgreementType string  `json:"agreement_type" validate:"required,oneof=COMMERCIAL MICROFINANCE COOPERATIVE INVESTMENT DEVELOPMENT CENTRAL SWIFT OTHER"`
	BankIDs       []int64 `json:"bank_ids"       validate:"omitempty,dive,min=1"`
}

type UpdateAgreementRequest struct {
	Title         *string  `json:"title"          validate:"omitempty,min=1,max=255"`
	Description   *string  `json:"description"`
	AgreementDate *string  `json:"agreement_date" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate    *string  `json:"expiry_date"    validate:"omitempty,datetime=2006-01-02"`
	Status        *string  `json:"status"         validate:"omitempty,oneof=PENDING ACTIVE EXPIRED CANCELLED"`
	AgreementType *string  `json:"agreement_type" validate:"omitempty,oneof=COMMERCIAL MICROFINANCE COOPERATIVE INVESTMENT DEVELOPMENT CENTRAL SWIFT OTHER"`
	BankIDs       *[]int64 `json:"bank_ids"       validate:"omitempty,dive,min=1"`
}

type CreatorResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type AgreementResponse struct {
	ID            int64               `json:"id"`
	Title         string              `json:"title"`
	Description   *string             `json:"description,omitempty"`
	AgreementDate string              `json:"agreement_date"`
	ExpiryDate    *string             `json:"expiry_date,omitempty"`
	Status        string              `json:"status"`
	AgreementType string              `json:"agreement_type"`
	SignatureURL  *string             `json:"signature_url,omitempty"`
	PDFURL        *string             `json:"pdf_url,omitempty"`
	CreatedBy     CreatorResponse     `json:"created_by"`
	Banks         []bank.BankResponse `json:"banks"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type UploadResponse struct {
	Agreement AgreementResponse    `json:"agreement"`
	File      storage.UploadResult `json:"file"`
}

type ListAgreementsParams struct {
	Page        int
	PageSize    int
	Query       string
	Status      string
	Type        string
	DateFrom    string
	DateTo      string
	BankID      int64
	CreatedByID int64
}

func (p *ListAgreementsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListAgreementsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToAgreementResponse(a *Agreement) AgreementResponse {
	var expiry *string
	if a.ExpiryDate != nil {
		formatted := a.ExpiryDate.Format(dateLayout)
		expiry = &formatted
	}

	banks := bank.ToBankResponseList(a.Banks)

	return AgreementResponse{
		ID:            a.ID,
		Title:         a.Title,
		Description:   a.Description,
		AgreementDate: a.AgreementDate.Format(dateLayout),
		ExpiryDate:    expiry,
		Status:        a.Status,
		AgreementType: a.AgreementType,
		SignatureURL:  a.SignatureURL,
		PDFURL:        a.PDFURL,
		CreatedBy: CreatorResponse{
			ID:    a.Creator.ID,
			Email: a.Creator.Email,
			Name:  a.Creator.Name,
			Role:  a.Creator.Role,
		},
		Banks:     banks,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func ToAgreementResponseList(agreements []Agreement) []AgreementResponse {
	responses := make([]AgreementResponse, 0, len(agreements))
	for i := range agreements {
		responses = append(responses, ToAgreementResponse(&agreements[i]))
	}
	return responses
}
