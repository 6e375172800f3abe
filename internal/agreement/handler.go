// AngelaMos | 2026
// handler.go

package agreement

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/partnerdesk/agreements-api/internal/core"
	"github.com/partnerdesk/agreements-api/internal/middleware"
)

// maxUploadBytes caps the in-memory multipart buffer for signature and
// document uploads.
const maxUploadBytes = 20 << 20

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/agreements", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.With(adminOnly).Get("/", h.List)
		r.With(adminOnly).Delete("/", h.DeleteAll)

		r.With(adminOnly).Get("/status/{status}", h.ListByStatus)
		r.With(adminOnly).Get("/user/{userID}", h.ListByUser)
		r.With(adminOnly).Get("/type/{agreementType}", h.ListByType)

		r.Get("/{agreementID}", h.Get)
		r.Put("/{agreementID}", h.Update)
		r.Delete("/{agreementID}", h.Delete)

		r.Post("/{agreementID}/signature", h.UploadSignature)
		r.Post("/{agreementID}/pdf", h.UploadPDF)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAgreementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(
			w,
			"validation failed",
			core.FormatValidationErrors(err)...,
		)
		return
	}

	actorID := middleware.GetUserID(r.Context())

	a, err := h.service.Create(r.Context(), req, actorID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "agreement created", ToAgreementResponse(a))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "agreementID")
	if !ok {
		return
	}

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "agreement retrieved", ToAgreementResponse(a))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params, ok := listParamsFromQuery(w, r)
	if !ok {
		return
	}

	agreements, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(
		w,
		"agreements retrieved",
		ToAgreementResponseList(agreements),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := chi.URLParam(r, "status")
	params, ok := listParamsFromQuery(w, r)
	if !ok {
		return
	}

	agreements, total, err := h.service.ListByStatus(
		r.Context(),
		status,
		params,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(
		w,
		"agreements retrieved",
		ToAgreementResponseList(agreements),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "userID")
	if !ok {
		return
	}
	params, ok := listParamsFromQuery(w, r)
	if !ok {
		return
	}

	agreements, total, err := h.service.ListByUser(
		r.Context(),
		userID,
		params,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(
		w,
		"agreements retrieved",
		ToAgreementResponseList(agreements),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) ListByType(w http.ResponseWriter, r *http.Request) {
	agreementType := chi.URLParam(r, "agreementType")
	params, ok := listParamsFromQuery(w, r)
	if !ok {
		return
	}

	agreements, total, err := h.service.ListByType(
		r.Context(),
		agreementType,
		params,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(
		w,
		"agreements retrieved",
		ToAgreementResponseList(agreements),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "agreementID")
	if !ok {
		return
	}

	var req UpdateAgreementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(
			w,
			"validation failed",
			core.FormatValidationErrors(err)...,
		)
		return
	}

	a, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "agreement updated", ToAgreementResponse(a))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "agreementID")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "agreement deleted", nil)
}

func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.DeleteAll(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "all agreements deleted", map[string]int64{"deleted": deleted})
}

func (h *Handler) UploadSignature(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "agreementID")
	if !ok {
		return
	}

	filename, data, ok := readUpload(w, r, "signature")
	if !ok {
		return
	}

	a, result, err := h.service.AttachSignature(
		r.Context(),
		id,
		filename,
		data,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "signature uploaded", UploadResponse{
		Agreement: ToAgreementResponse(a),
		File:      *result,
	})
}

func (h *Handler) UploadPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "agreementID")
	if !ok {
		return
	}

	filename, data, ok := readUpload(w, r, "file", "pdf")
	if !ok {
		return
	}

	a, result, err := h.service.AttachPDF(r.Context(), id, filename, data)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "document uploaded", UploadResponse{
		Agreement: ToAgreementResponse(a),
		File:      *result,
	})
}

// readUpload pulls the file out of a multipart form, trying the given
// field names in order.
func readUpload(
	w http.ResponseWriter,
	r *http.Request,
	fields ...string,
) (string, []byte, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		core.BadRequest(w, "invalid multipart form")
		return "", nil, false
	}

	var (
		file   multipart.File
		header *multipart.FileHeader
	)
	for _, field := range fields {
		f, h, err := r.FormFile(field)
		if err == nil {
			file, header = f, h
			break
		}
	}

	if file == nil {
		core.BadRequest(w, "missing file")
		return "", nil, false
	}
	defer file.Close() //nolint:errcheck // read-only temp file

	data, err := io.ReadAll(file)
	if err != nil {
		core.BadRequest(w, "unreadable file payload")
		return "", nil, false
	}

	return header.Filename, data, true
}

func listParamsFromQuery(
	w http.ResponseWriter,
	r *http.Request,
) (ListAgreementsParams, bool) {
	q := r.URL.Query()

	params := ListAgreementsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "pageSize", 20),
		Query:    q.Get("q"),
		Status:   q.Get("status"),
		Type:     q.Get("type"),
	}

	// Date filters hit the DB as typed args; malformed values must be
	// rejected here, same as the body DTOs do.
	for _, filter := range []struct {
		key  string
		dest *string
	}{
		{"dateFrom", &params.DateFrom},
		{"dateTo", &params.DateTo},
	} {
		raw := q.Get(filter.key)
		if raw == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, raw); err != nil {
			core.BadRequest(
				w,
				"validation failed",
				filter.key+": must be a date in YYYY-MM-DD format",
			)
			return ListAgreementsParams{}, false
		}
		*filter.dest = raw
	}

	if raw := q.Get("bankId"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			params.BankID = parsed
		}
	}

	params.Normalize()
	return params, true
}

func parseIDParam(
	w http.ResponseWriter,
	r *http.Request,
	key string,
) (int64, bool) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		core.BadRequest(w, "invalid id parameter")
		return 0, false
	}
	return id, true
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
