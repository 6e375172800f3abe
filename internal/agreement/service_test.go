// AngelaMos | 2026
// service_test.go

package agreement

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/partnerdesk/agreements-api/internal/bank"
	"github.com/partnerdesk/agreements-api/internal/core"
	"github.com/partnerdesk/agreements-api/internal/storage"
)

type fakeRepo struct {
	agreements map[int64]*Agreement
	nextID     int64

	signatureURLs map[int64]string
	pdfURLs       map[int64]string
	linkErr       error
	deleteAllN    int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		agreements:    make(map[int64]*Agreement),
		nextID:        1,
		signatureURLs: make(map[int64]string),
		pdfURLs:       make(map[int64]string),
	}
}

func (f *fakeRepo) CreateWithLinks(
	_ context.Context,
	a *Agreement,
	bankIDs []int64,
) error {
	a.ID = f.nextID
	f.nextID++
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	a.Creator = CreatorSummary{ID: a.CreatedByID, Role: "PARTNER_USER"}
	copied := *a
	f.agreements[a.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Agreement, error) {
	a, ok := f.agreements[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeRepo) List(
	_ context.Context,
	params ListAgreementsParams,
) ([]Agreement, int, error) {
	var out []Agreement
	for _, a := range f.agreements {
		if params.Status != "" && a.Status != params.Status {
			continue
		}
		if params.Type != "" && a.AgreementType != params.Type {
			continue
		}
		if params.CreatedByID != 0 && a.CreatedByID != params.CreatedByID {
			continue
		}
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateWithLinks(
	_ context.Context,
	a *Agreement,
	_ *[]int64,
) error {
	if _, ok := f.agreements[a.ID]; !ok {
		return core.ErrNotFound
	}
	copied := *a
	f.agreements[a.ID] = &copied
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.agreements[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.agreements, id)
	return nil
}

func (f *fakeRepo) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(f.agreements))
	f.agreements = make(map[int64]*Agreement)
	f.deleteAllN = n
	return n, nil
}

func (f *fakeRepo) SetSignatureURL(
	_ context.Context,
	id int64,
	url string,
) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	a, ok := f.agreements[id]
	if !ok {
		return core.ErrNotFound
	}
	a.SignatureURL = &url
	f.signatureURLs[id] = url
	return nil
}

func (f *fakeRepo) SetPDFURL(_ context.Context, id int64, url string) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	a, ok := f.agreements[id]
	if !ok {
		return core.ErrNotFound
	}
	a.PDFURL = &url
	f.pdfURLs[id] = url
	return nil
}

func (f *fakeRepo) LoadBanks(
	_ context.Context,
	_ []int64,
) (map[int64][]bank.Bank, error) {
	return map[int64][]bank.Bank{}, nil
}

func (f *fakeRepo) Count(_ context.Context) (int, error) {
	return len(f.agreements), nil
}

func (f *fakeRepo) CountByStatus(_ context.Context) (map[string]int, error) {
	return map[string]int{}, nil
}

type fakeBankDirectory struct {
	existing map[int64]bank.Bank
}

func (f *fakeBankDirectory) GetByIDs(
	_ context.Context,
	ids []int64,
) ([]bank.Bank, error) {
	var out []bank.Bank
	for _, id := range ids {
		if b, ok := f.existing[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeUploader struct {
	uploadErr error
	uploads   int
	destroyed []string
}

func (f *fakeUploader) Upload(
	_ context.Context,
	in storage.UploadInput,
) (*storage.UploadResult, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads++
	return &storage.UploadResult{
		URL:      "https://cdn.example.com/" + in.Folder + "/" + in.Filename,
		PublicID: in.Folder + "/" + storage.PublicIDFromFilename(in.Filename),
	}, nil
}

func (f *fakeUploader) Destroy(
	_ context.Context,
	publicID, _ string,
) error {
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

func newTestService(
	repo *fakeRepo,
	banks *fakeBankDirectory,
	uploader *fakeUploader,
) *Service {
	if banks == nil {
		banks = &fakeBankDirectory{existing: map[int64]bank.Bank{}}
	}
	if uploader == nil {
		uploader = &fakeUploader{}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, banks, uploader, logger)
}

func TestCreateRejectsExpiryBeforeAgreementDate(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil, nil)

	expiry := "2024-01-01"
	_, err := svc.Create(context.Background(), CreateAgreementRequest{
		Title:         "Backdated",
		AgreementDate: "2024-06-01",
		ExpiryDate:    &expiry,
		AgreementType: TypeCommercial,
	}, 1)

	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCreateRejectsExpiryEqualToAgreementDate(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil, nil)

	expiry := "2024-06-01"
	_, err := svc.Create(context.Background(), CreateAgreementRequest{
		Title:         "Same day",
		AgreementDate: "2024-06-01",
		ExpiryDate:    &expiry,
		AgreementType: TypeCommercial,
	}, 1)

	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCreateRejectsMissingBank(t *testing.T) {
	banks := &fakeBankDirectory{existing: map[int64]bank.Bank{
		1: {ID: 1, Name: "First Partner"},
	}}
	svc := newTestService(newFakeRepo(), banks, nil)

	_, err := svc.Create(context.Background(), CreateAgreementRequest{
		Title:         "Missing bank link",
		AgreementDate: "2024-06-01",
		AgreementType: TypeCommercial,
		BankIDs:       []int64{1, 99},
	}, 1)

	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateDefaultsStatusToPending(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, nil)

	a, err := svc.Create(context.Background(), CreateAgreementRequest{
		Title:         "New deal",
		AgreementDate: "2024-06-01",
		AgreementType: TypeOther,
	}, 42)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if a.Status != StatusPending {
		t.Errorf("status = %q, want %q", a.Status, StatusPending)
	}
	if a.CreatedByID != 42 {
		t.Errorf("created_by = %d, want 42", a.CreatedByID)
	}
	if a.Banks == nil {
		t.Error("banks should be an empty slice, not nil")
	}
}

func TestListByStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil, nil)

	_, _, err := svc.ListByStatus(
		context.Background(),
		"SIGNED",
		ListAgreementsParams{},
	)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateRejectsInvariantViolationOnMergedRecord(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, nil)

	a, err := svc.Create(context.Background(), CreateAgreementRequest{
		Title:         "Patch target",
		AgreementDate: "2024-06-01",
		AgreementType: TypeCommercial,
	}, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Expiry in the patch lands before the stored agreement date.
	badExpiry := "2024-01-01"
	_, err = svc.Update(context.Background(), a.ID, UpdateAgreementRequest{
		ExpiryDate: &badExpiry,
	})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestAttachPDFLinksOnlyAfterUpload(t *testing.T) {
	repo := newFakeRepo()
	uploader := &fakeUploader{}
	svc := newTestService(repo, nil, uploader)

	a, err := svc.Create(context.Background(), CreateAgreementRequest{
		Title:         "Contract",
		AgreementDate: "2024-06-01",
		AgreementType: TypeCommercial,
	}, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, result, err := svc.AttachPDF(
		context.Background(),
		a.ID,
		"contract.pdf",
		[]byte("%PDF-1.4"),
	)
	if err != nil {
		t.Fatalf("attach pdf: %v", err)
	}

	if updated.PDFURL == nil || *updated.PDFURL != result.URL {
		t.Errorf("pdf url = %v, want %q", updated.PDFURL, result.URL)
	}
	if repo.pdfURLs[a.ID] != result.URL {
		t.Errorf("stored url = %q, want %q", repo.pdfURLs[a.ID], result.URL)
	}
	if uploader.uploads != 1 {
		t.Errorf("uploads = %d, want 1", uploader.uploads)
	}
}

func TestAttachPDFMissingAgreementDoesNotUpload(t *testing.T) {
	repo := newFakeRepo()
	uploader := &fakeUploader{}
	svc := newTestService(repo, nil, uploader)

	_, _, err := svc.AttachPDF(
		context.Background(),
		99,
		"contract.pdf",
		[]byte("%PDF-1.4"),
	)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if uploader.uploads != 0 {
		t.Errorf("uploads = %d, want 0", uploader.uploads)
	}
}

func TestAttachPDFMissingFileIsInvalidInput(t *testing.T) {
	repo := newFakeRepo()
	uploader := &fakeUploader{}
	svc := newTestService(repo, nil, uploader)

	_, _, err := svc.AttachPDF(context.Background(), 1, "contract.pdf", nil)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if uploader.uploads != 0 {
		t.Errorf("uploads = %d, want 0", uploader.uploads)
	}
}

func TestAttachPDFUploadFailurePropagatesWithoutLink(t *testing.T) {
	repo := newFakeRepo()
	uploader := &fakeUploader{
		uploadErr: core.UploadFailedError(errors.New("provider down")),
	}
	svc := newTestService(repo, nil, uploader)

	a, err := svc.Create(context.Background(), CreateAgreementRequest{
		Title:         "Contract",
		AgreementDate: "2024-06-01",
		AgreementType: TypeCommercial,
	}, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, _, err = svc.AttachPDF(
		context.Background(),
		a.ID,
		"contract.pdf",
		[]byte("%PDF-1.4"),
	)
	if !errors.Is(err, core.ErrUploadFailed) {
		t.Fatalf("err = %v, want ErrUploadFailed", err)
	}
	if len(repo.pdfURLs) != 0 {
		t.Error("no url should be linked after a failed upload")
	}
}

func TestAttachSignatureVanishedRecordDestroysBlob(t *testing.T) {
	repo := newFakeRepo()
	uploader := &fakeUploader{}
	svc := newTestService(repo, nil, uploader)

	a, err := svc.Create(context.Background(), CreateAgreementRequest{
		Title:         "Contract",
		AgreementDate: "2024-06-01",
		AgreementType: TypeCommercial,
	}, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Record exists for the pre-check but vanishes before the link step.
	repo.linkErr = core.ErrNotFound

	_, _, err = svc.AttachSignature(
		context.Background(),
		a.ID,
		"sig.png",
		[]byte{0x89, 0x50},
	)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(uploader.destroyed) != 1 {
		t.Errorf("destroyed = %d blobs, want 1", len(uploader.destroyed))
	}
}

func TestDeleteAllReturnsCount(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), CreateAgreementRequest{
			Title:         "Bulk",
			AgreementDate: "2024-06-01",
			AgreementType: TypeOther,
		}, 1)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	deleted, err := svc.DeleteAll(context.Background())
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	_, total, err := svc.List(context.Background(), ListAgreementsParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 {
		t.Errorf("total after delete-all = %d, want 0", total)
	}
}
