// AngelaMos | 2026
// service.go

package agreement

import (
	"context"
	"log/slog"
	"time"

	"github.com/partnerdesk/agreements-api/internal/bank"
	"github.com/partnerdesk/agreements-api/internal/core"
	"github.com/partnerdesk/agreements-api/internal/storage"
)

// BankDirectory is the slice of the bank repository this service needs to
// verify referenced banks exist before linking.
type BankDirectory interface {
	GetByIDs(ctx context.Context, ids []int64) ([]bank.Bank, error)
}

type Service struct {
	repo     Repository
	banks    BankDirectory
	uploader storage.Uploader
	logger   *slog.Logger
}

func NewService(
	repo Repository,
	banks BankDirectory,
	uploader storage.Uploader,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		banks:    banks,
		uploader: uploader,
		logger:   logger,
	}
}

// Create persists a new agreement owned by the acting user. Referenced
// banks must exist; the record and its links are written in one
// transaction.
func (s *Service) Create(
	ctx context.Context,
	req CreateAgreementRequest,
	actorID int64,
) (*Agreement, error) {
	agreementDate, err := time.Parse(dateLayout, req.AgreementDate)
	if err != nil {
		return nil, core.InvalidInputError(
			"agreement_date must be a valid date",
			"agreement_date",
		)
	}

	expiryDate, err := parseExpiry(req.ExpiryDate, agreementDate)
	if err != nil {
		return nil, err
	}

	bankIDs := dedupeIDs(req.BankIDs)
	if err := s.verifyBanksExist(ctx, bankIDs); err != nil {
		return nil, err
	}

	status := StatusPending
	if req.Status != nil {
		status = *req.Status
	}

	a := &Agreement{
		Title:         req.Title,
		Description:   req.Description,
		AgreementDate: agreementDate,
		ExpiryDate:    expiryDate,
		Status:        status,
		AgreementType: req.AgreementType,
		CreatedByID:   actorID,
	}

	if err := s.repo.CreateWithLinks(ctx, a, bankIDs); err != nil {
		return nil, err
	}

	s.logger.Info("agreement created",
		"agreement_id", a.ID,
		"created_by", actorID,
		"banks", len(bankIDs),
	)

	return s.Get(ctx, a.ID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Agreement, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.attachBanks(ctx, []Agreement{}, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) List(
	ctx context.Context,
	params ListAgreementsParams,
) ([]Agreement, int, error) {
	agreements, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	if err := s.attachBanks(ctx, agreements, nil); err != nil {
		return nil, 0, err
	}

	return agreements, total, nil
}

func (s *Service) ListByStatus(
	ctx context.Context,
	status string,
	params ListAgreementsParams,
) ([]Agreement, int, error) {
	if !ValidStatus(status) {
		return nil, 0, core.InvalidInputError("invalid status", "status")
	}

	params.Status = status
	return s.List(ctx, params)
}

func (s *Service) ListByUser(
	ctx context.Context,
	userID int64,
	params ListAgreementsParams,
) ([]Agreement, int, error) {
	params.CreatedByID = userID
	return s.List(ctx, params)
}

func (s *Service) ListByType(
	ctx context.Context,
	agreementType string,
	params ListAgreementsParams,
) ([]Agreement, int, error) {
	if !ValidType(agreementType) {
		return nil, 0, core.InvalidInputError(
			"invalid agreement type",
			"agreement_type",
		)
	}

	params.Type = agreementType
	return s.List(ctx, params)
}

// Update applies a partial patch. The creator never changes. A bank_ids
// field in the patch replaces the full link set; omitting it leaves the
// links untouched.
func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateAgreementRequest,
) (*Agreement, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = req.Description
	}
	if req.AgreementDate != nil {
		parsed, err := time.Parse(dateLayout, *req.AgreementDate)
		if err != nil {
			return nil, core.InvalidInputError(
				"agreement_date must be a valid date",
				"agreement_date",
			)
		}
		a.AgreementDate = parsed
	}
	if req.ExpiryDate != nil {
		parsed, err := time.Parse(dateLayout, *req.ExpiryDate)
		if err != nil {
			return nil, core.InvalidInputError(
				"expiry_date must be a valid date",
				"expiry_date",
			)
		}
		a.ExpiryDate = &parsed
	}
	if req.Status != nil {
		a.Status = *req.Status
	}
	if req.AgreementType != nil {
		a.AgreementType = *req.AgreementType
	}

	if a.ExpiryDate != nil && !a.ExpiryDate.After(a.AgreementDate) {
		return nil, core.InvalidInputError(
			"expiry_date must be after agreement_date",
			"expiry_date",
		)
	}

	var bankIDs *[]int64
	if req.BankIDs != nil {
		ids := dedupeIDs(*req.BankIDs)
		if err := s.verifyBanksExist(ctx, ids); err != nil {
			return nil, err
		}
		bankIDs = &ids
	}

	if err := s.repo.UpdateWithLinks(ctx, a, bankIDs); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("agreement deleted", "agreement_id", id)
	return nil
}

func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	s.logger.Warn("all agreements deleted", "count", deleted)
	return deleted, nil
}

// AttachSignature stores a signature image externally, then links its URL.
// The URL is only written after a successful upload; if the record
// vanishes between the two steps the blob is destroyed best-effort.
func (s *Service) AttachSignature(
	ctx context.Context,
	id int64,
	filename string,
	data []byte,
) (*Agreement, *storage.UploadResult, error) {
	return s.attachFile(
		ctx,
		id,
		filename,
		data,
		storage.FolderSignatures,
		storage.ResourceImage,
		s.repo.SetSignatureURL,
	)
}

// AttachPDF stores an agreement document externally, then links its URL.
func (s *Service) AttachPDF(
	ctx context.Context,
	id int64,
	filename string,
	data []byte,
) (*Agreement, *storage.UploadResult, error) {
	return s.attachFile(
		ctx,
		id,
		filename,
		data,
		storage.FolderAgreements,
		storage.ResourceRaw,
		s.repo.SetPDFURL,
	)
}

func (s *Service) attachFile(
	ctx context.Context,
	id int64,
	filename string,
	data []byte,
	folder, resourceType string,
	link func(ctx context.Context, id int64, url string) error,
) (*Agreement, *storage.UploadResult, error) {
	if len(data) == 0 {
		return nil, nil, core.InvalidInputError("missing file", "file")
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, nil, err
	}

	result, err := s.uploader.Upload(ctx, storage.UploadInput{
		Data:         data,
		Filename:     filename,
		Folder:       folder,
		ResourceType: resourceType,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := link(ctx, id, result.URL); err != nil {
		// The blob is orphaned if this cleanup fails; provider-side
		// lifecycle rules are the backstop.
		if destroyErr := s.uploader.Destroy(
			ctx,
			result.PublicID,
			resourceType,
		); destroyErr != nil {
			s.logger.Warn("orphaned upload cleanup failed",
				"public_id", result.PublicID,
				"error", destroyErr,
			)
		}
		return nil, nil, err
	}

	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("file attached to agreement",
		"agreement_id", id,
		"folder", folder,
		"public_id", result.PublicID,
	)

	return a, result, nil
}

func (s *Service) attachBanks(
	ctx context.Context,
	agreements []Agreement,
	single *Agreement,
) error {
	ids := make([]int64, 0, len(agreements)+1)
	for i := range agreements {
		ids = append(ids, agreements[i].ID)
	}
	if single != nil {
		ids = append(ids, single.ID)
	}

	banksByID, err := s.repo.LoadBanks(ctx, ids)
	if err != nil {
		return err
	}

	for i := range agreements {
		agreements[i].Banks = banksOrEmpty(banksByID[agreements[i].ID])
	}
	if single != nil {
		single.Banks = banksOrEmpty(banksByID[single.ID])
	}

	return nil
}

func (s *Service) verifyBanksExist(
	ctx context.Context,
	bankIDs []int64,
) error {
	if len(bankIDs) == 0 {
		return nil
	}

	found, err := s.banks.GetByIDs(ctx, bankIDs)
	if err != nil {
		return err
	}

	if len(found) != len(bankIDs) {
		return &core.AppError{
			Status:  404,
			Message: "one or more referenced banks not found",
			Err:     core.ErrNotFound,
		}
	}

	return nil
}

func parseExpiry(
	raw *string,
	agreementDate time.Time,
) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}

	parsed, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, core.InvalidInputError(
			"expiry_date must be a valid date",
			"expiry_date",
		)
	}

	if !parsed.After(agreementDate) {
		return nil, core.InvalidInputError(
			"expiry_date must be after agreement_date",
			"expiry_date",
		)
	}

	return &parsed, nil
}

func dedupeIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return []int64{}
	}

	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func banksOrEmpty(banks []bank.Bank) []bank.Bank {
	if banks == nil {
		return []bank.Bank{}
	}
	return banks
}
