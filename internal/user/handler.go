// AngelaMos | 2026
// handler.go

package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/partnerdesk/agreements-api/internal/config"
	"github.com/partnerdesk/agreements-api/internal/core"
	"github.com/partnerdesk/agreements-api/internal/identity"
	"github.com/partnerdesk/agreements-api/internal/middleware"
)

// StateStore issues and redeems the single-use OAuth state tokens that tie
// a login redirect to its callback.
type StateStore interface {
	Issue(ctx context.Context) (string, error)
	Redeem(ctx context.Context, token string) error
}

type Handler struct {
	service     *Service
	idClient    *identity.Client
	states      StateStore
	auth0       config.Auth0Config
	frontendURL string
	validator   *validator.Validate
}

func NewHandler(
	service *Service,
	idClient *identity.Client,
	states StateStore,
	auth0 config.Auth0Config,
	frontendURL string,
) *Handler {
	return &Handler{
		service:     service,
		idClient:    idClient,
		states:      states,
		auth0:       auth0,
		frontendURL: frontendURL,
		validator:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	verifyOnly, authenticator func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", h.LoginRedirect)
		r.With(verifyOnly).Post("/login", h.Login)
		r.Get("/callback", h.AuthCallback)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me", h.GetMe)
	})
}

// LoginRedirect starts the authorization-code flow: issue a state token
// and send the browser to the provider's authorize endpoint.
func (h *Handler) LoginRedirect(w http.ResponseWriter, r *http.Request) {
	state, err := h.states.Issue(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", h.auth0.ClientID)
	params.Set("redirect_uri", h.auth0.CallbackURL)
	params.Set("scope", "openid profile email")
	params.Set("audience", h.auth0.Audience)
	params.Set("state", state)

	http.Redirect(
		w,
		r,
		h.auth0.AuthorizeURL()+"?"+params.Encode(),
		http.StatusFound,
	)
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListUsers)
		r.Delete("/", h.DeleteAllUsers)
		r.Get("/{userID}", h.GetUser)
		r.Put("/{userID}/role", h.UpdateUserRole)
		r.Delete("/{userID}", h.DeleteUser)
	})
}

// Login provisions or refreshes the account behind the verified bearer
// token. The VerifyOnly gate has already checked the token; the claims on
// the context are the trusted input.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		core.Unauthorized(w, "missing token claims")
		return
	}

	var extras *ProfileExtras
	var body ProfileExtras
	switch err := json.NewDecoder(r.Body).Decode(&body); {
	case err == nil:
		if err := h.validator.Struct(body); err != nil {
			core.BadRequest(
				w,
				"validation failed",
				core.FormatValidationErrors(err)...,
			)
			return
		}
		extras = &body
	case errors.Is(err, io.EOF):
		// no body; claims alone drive the upsert
	default:
		core.BadRequest(w, "invalid request body")
		return
	}

	u, err := h.service.SyncFromClaims(r.Context(), claims, extras)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "login successful", LoginResponse{User: ToUserResponse(u)})
}

// AuthCallback completes the authorization-code flow: redeem the state,
// exchange the code, fetch the profile, provision the account, then
// redirect back to the frontend with the access token in the fragment.
func (h *Handler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		core.BadRequest(w, "missing authorization code")
		return
	}

	if err := h.states.Redeem(
		r.Context(),
		r.URL.Query().Get("state"),
	); err != nil {
		core.JSONError(w, err)
		return
	}

	tokens, err := h.idClient.ExchangeCode(r.Context(), code)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	claims, err := h.idClient.UserInfo(r.Context(), tokens.AccessToken)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if _, err := h.service.SyncFromClaims(r.Context(), claims, nil); err != nil {
		core.JSONError(w, err)
		return
	}

	redirect := fmt.Sprintf(
		"%s/auth/callback#access_token=%s",
		h.frontendURL,
		url.QueryEscape(tokens.AccessToken),
	)
	http.Redirect(w, r, redirect, http.StatusFound)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	u, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "user retrieved", ToUserResponse(u))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
		Role:     r.URL.Query().Get("role"),
	}
	params.Normalize()

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(
		w,
		"users retrieved",
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "userID")
	if !ok {
		return
	}

	u, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "user retrieved", ToUserResponse(u))
}

func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "userID")
	if !ok {
		return
	}

	var req UpdateUserRoleRequest
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

	u, err := h.service.UpdateUserRole(r.Context(), id, req.Role)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "user role updated", ToUserResponse(u))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "userID")
	if !ok {
		return
	}

	requesterID := middleware.GetUserID(r.Context())

	if err := h.service.DeleteUser(r.Context(), requesterID, id); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "user deleted", nil)
}

func (h *Handler) DeleteAllUsers(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.DeleteAllUsers(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "all users deleted", map[string]int64{"deleted": deleted})
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
