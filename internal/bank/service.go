// AngelaMos | 2026
// service.go

package bank

import (
	"context"
	"log/slog"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Create(
	ctx context.Context,
	req CreateBankRequest,
) (*Bank, error) {
	b := &Bank{
		Name:                req.Name,
		RegistrationNumber:  req.RegistrationNumber,
		TaxID:               req.TaxID,
		ContactEmail:        req.ContactEmail,
		Phone:               req.Phone,
		Address:             req.Address,
		City:                req.City,
		State:               req.State,
		Country:             req.Country,
		PostalCode:          req.PostalCode,
		BankType:            req.BankType,
		CEOName:             req.CEOName,
		CEOEmail:            req.CEOEmail,
		CTOName:             req.CTOName,
		CTOEmail:            req.CTOEmail,
		LicenseNumber:       req.LicenseNumber,
		BranchCount:         req.BranchCount,
		SupportedCurrencies: req.SupportedCurrencies,
		SwiftCode:           req.SwiftCode,
		Notes:               req.Notes,
	}

	if req.IsKYCCompliant != nil {
		b.IsKYCCompliant = *req.IsKYCCompliant
	}
	if req.IsAMLCompliant != nil {
		b.IsAMLCompliant = *req.IsAMLCompliant
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("bank created", "bank_id", b.ID, "name", b.Name)
	return b, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Bank, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListBanksParams,
) ([]Bank, int, error) {
	return s.repo.List(ctx, params)
}

// Update applies the patch over the stored record; only fields present in
// the request change. The currency list uses replace-set semantics.
func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateBankRequest,
) (*Bank, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyPatch(b, req)

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("bank deleted", "bank_id", id)
	return nil
}

func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	s.logger.Warn("all banks deleted", "count", deleted)
	return deleted, nil
}

func applyPatch(b *Bank, req UpdateBankRequest) {
	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.RegistrationNumber != nil {
		b.RegistrationNumber = req.RegistrationNumber
	}
	if req.TaxID != nil {
		b.TaxID = req.TaxID
	}
	if req.ContactEmail != nil {
		b.ContactEmail = *req.ContactEmail
	}
	if req.Phone != nil {
		b.Phone = req.Phone
	}
	if req.Address != nil {
		b.Address = req.Address
	}
	if req.City != nil {
		b.City = req.City
	}
	if req.State != nil {
		b.State = req.State
	}
	if req.Country != nil {
		b.Country = req.Country
	}
	if req.PostalCode != nil {
		b.PostalCode = req.PostalCode
	}
	if req.BankType != nil {
		b.BankType = req.BankType
	}
	if req.CEOName != nil {
		b.CEOName = req.CEOName
	}
	if req.CEOEmail != nil {
		b.CEOEmail = req.CEOEmail
	}
	if req.CTOName != nil {
		b.CTOName = req.CTOName
	}
	if req.CTOEmail != nil {
		b.CTOEmail = req.CTOEmail
	}
	if req.LicenseNumber != nil {
		b.LicenseNumber = req.LicenseNumber
	}
	if req.BranchCount != nil {
		b.BranchCount = req.BranchCount
	}
	if req.IsKYCCompliant != nil {
		b.IsKYCCompliant = *req.IsKYCCompliant
	}
	if req.IsAMLCompliant != nil {
		b.IsAMLCompliant = *req.IsAMLCompliant
	}
	if req.SupportedCurrencies != nil {
		b.SupportedCurrencies = *req.SupportedCurrencies
	}
	if req.SwiftCode != nil {
		b.SwiftCode = req.SwiftCode
	}
	if req.Notes != nil {
		b.Notes = req.Notes
	}
}
