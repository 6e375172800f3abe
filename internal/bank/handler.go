// AngelaMos | 2026
// handler.go

package bank

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/partnerdesk/agreements-api/internal/core"
)

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
	r.Route("/banks", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.With(adminOnly).Get("/", h.List)
		r.With(adminOnly).Delete("/", h.DeleteAll)
		r.Get("/{bankID}", h.Get)
		r.Put("/{bankID}", h.Update)
		r.Delete("/{bankID}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBankRequest
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

	b, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "bank created", ToBankResponse(b))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "bankID")
	if !ok {
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "bank retrieved", ToBankResponse(b))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListBanksParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("q"),
		BankType: r.URL.Query().Get("bank_type"),
	}

	if raw := r.URL.Query().Get("kyc_compliant"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			params.KYCCompliant = &parsed
		}
	}

	params.Normalize()

	banks, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(
		w,
		"banks retrieved",
		ToBankResponseList(banks),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "bankID")
	if !ok {
		return
	}

	var req UpdateBankRequest
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

	b, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "bank updated", ToBankResponse(b))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "bankID")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "bank deleted", nil)
}

func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.DeleteAll(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "all banks deleted", map[string]int64{"deleted": deleted})
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
