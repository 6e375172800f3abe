// AngelaMos | 2026
// dto.go

package bank

import (
	"time"
)

type CreateBankRequest struct {
	Name                string   `json:"name"                 validate:"required,min=1,max=255"`
	RegistrationNumber  *string  `json:"registration_number"  validate:"omitempty,max=255"`
	TaxID               *string  `json:"tax_id"               validate:"omitempty,max=255"`
	ContactEmail        string   `json:"contact_email"        validate:"required,email,max=255"`
	Phone               *string  `json:"phone"                validate:"omitempty,max=20"`
	Address             *string  `json:"address"`
	City                *string  `json:"city"                 validate:"omitempty,max=100"`
	State               *string  `json:"state"                validate:"omitempty,max=100"`
	Country             *string  `json:"country"              validate:"omitempty,max=100"`
	PostalCode          *string  `json:"postal_code"          validate:"omitempty,max=20"`
	BankType            *string  `json:"bank_type"            validate:"omitempty,oneof=MICROFINANCE COMMERCIAL INVESTMENT"`
	CEOName             *string  `json:"ceo_name"             validate:"omitempty,max=100"`
	CEOEmail            *string  `json:"ceo_email"            validate:"omitempty,email,max=255"`
	CTOName             *string  `json:"cto_name"             validate:"omitempty,max=100"`
	CTOEmail            *string  `json:"cto_email"            validate:"omitempty,email,max=255"`
	LicenseNumber       *string  `json:"license_number"`
	BranchCount         *int     `json:"branch_count"         validate:"omitempty,min=0"`
	IsKYCCompliant      *bool    `json:"is_kyc_compliant"`
	IsAMLCompliant      *bool    `json:"is_aml_compliant"`
	SupportedCurrencies []string `json:"supported_currencies" validate:"omitempty,dive,min=1,max=10"`
	SwiftCode           *string  `json:"swift_code"           validate:"omitempty,max=20"`
	Notes               *string  `json:"notes"`
}

// UpdateBankRequest carries only the fields present in the patch; nil
// pointers leave the stored value untouched.
type UpdateBankRequest struct {
	Name                *string   `json:"name"                 validate:"omitempty,min=1,max=255"`
	RegistrationNumber  *string   `json:"registration_number"  validate:"omitempty,max=255"`
	TaxID               *string   `json:"tax_id"               validate:"omitempty,max=255"`
	ContactEmail        *string   `json:"contact_email"        validate:"omitempty,email,max=255"`
	Phone               *string   `json:"phone"                validate:"omitempty,max=20"`
	Address             *string   `json:"address"`
	City                *string   `json:"city"                 validate:"omitempty,max=100"`
	State               *string   `json:"state"                validate:"omitempty,max=100"`
	Country             *string   `json:"country"              validate:"omitempty,max=100"`
	PostalCode          *string   `json:"postal_code"          validate:"omitempty,max=20"`
	BankType            *string   `json:"bank_type"            validate:"omitempty,oneof=MICROFINANCE COMMERCIAL INVESTMENT"`
	CEOName             *string   `json:"ceo_name"             validate:"omitempty,max=100"`
	CEOEmail            *string   `json:"ceo_email"            validate:"omitempty,email,max=255"`
	CTOName             *string   `json:"cto_name"             validate:"omitempty,max=100"`
	CTOEmail            *string   `json:"cto_email"            validate:"omitempty,email,max=255"`
	LicenseNumber       *string   `json:"license_number"`
	BranchCount         *int      `json:"branch_count"         validate:"omitempty,min=0"`
	IsKYCCompliant      *bool     `json:"is_kyc_compliant"`
	IsAMLCompliant      *bool     `json:"is_aml_compliant"`
	SupportedCurrencies *[]string `json:"supported_currencies" validate:"omitempty,dive,min=1,max=10"`
	SwiftCode           *string   `json:"swift_code"           validate:"omitempty,max=20"`
	Notes               *string   `json:"notes"`
}

type BankResponse struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	RegistrationNumber  *string   `json:"registration_number,omitempty"`
	TaxID               *string   `json:"tax_id,omitempty"`
	ContactEmail        string    `json:"contact_email"`
	Phone               *string   `json:"phone,omitempty"`
	Address             *string   `json:"address,omitempty"`
	City                *string   `json:"city,omitempty"`
	State               *string   `json:"state,omitempty"`
	Country             *string   `json:"country,omitempty"`
	PostalCode          *string   `json:"postal_code,omitempty"`
	BankType            *string   `json:"bank_type,omitempty"`
	CEOName             *string   `json:"ceo_name,omitempty"`
	CEOEmail            *string   `json:"ceo_email,omitempty"`
	CTOName             *string   `json:"cto_name,omitempty"`
	CTOEmail            *string   `json:"cto_email,omitempty"`
	LicenseNumber       *string   `json:"license_number,omitempty"`
	BranchCount         *int      `json:"branch_count,omitempty"`
	IsKYCCompliant      bool      `json:"is_kyc_compliant"`
	IsAMLCompliant      bool      `json:"is_aml_compliant"`
	SupportedCurrencies []string  `json:"supported_currencies"`
	SwiftCode           *string   `json:"swift_code,omitempty"`
	Notes               *string   `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type ListBanksParams struct {
	Page         int
	PageSize     int
	Search       string
	BankType     string
	KYCCompliant *bool
}

func (p *ListBanksParams) Normalize() {
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

func (p *ListBanksParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToBankResponse(b *Bank) BankResponse {
	currencies := []string(b.SupportedCurrencies)
	if currencies == nil {
		currencies = []string{}
	}

	return BankResponse{
		ID:                  b.ID,
		Name:                b.Name,
		RegistrationNumber:  b.RegistrationNumber,
		TaxID:               b.TaxID,
		ContactEmail:        b.ContactEmail,
		Phone:               b.Phone,
		Address:             b.Address,
		City:                b.City,
		State:               b.State,
		Country:             b.Country,
		PostalCode:          b.PostalCode,
		BankType:            b.BankType,
		CEOName:             b.CEOName,
		CEOEmail:            b.CEOEmail,
		CTOName:             b.CTOName,
		CTOEmail:            b.CTOEmail,
		LicenseNumber:       b.LicenseNumber,
		BranchCount:         b.BranchCount,
		IsKYCCompliant:      b.IsKYCCompliant,
		IsAMLCompliant:      b.IsAMLCompliant,
		SupportedCurrencies: currencies,
		SwiftCode:           b.SwiftCode,
		Notes:               b.Notes,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

func ToBankResponseList(banks []Bank) []BankResponse {
	responses := make([]BankResponse, 0, len(banks))
	for _, b := range banks {
		responses = append(responses, ToBankResponse(&b))
	}
	return responses
}
