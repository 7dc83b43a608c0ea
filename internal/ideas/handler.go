package ideas

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mvo-platform/mvo/internal/api"
	"github.com/mvo-platform/mvo/internal/auth"
)

type Handler struct {
	svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	var req CreateIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	ownerID, err := uuid.Parse(claims.UserID)
	if err != nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	idea, err := h.svc.Create(r.Context(), ownerID, &req)
	if err != nil {
		slog.Error("creating idea", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusCreated, idea)
}

func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	params := DefaultListParams()
	if p := r.URL.Query().Get("page"); p != "" {
		if page, err := strconv.Atoi(p); err == nil && page > 0 {
			params.Page = page
		}
	}
	if ps := r.URL.Query().Get("page_size"); ps != "" {
		if pageSize, err := strconv.Atoi(ps); err == nil && pageSize > 0 && pageSize <= 100 {
			params.PageSize = pageSize
		}
	}
	if sort := r.URL.Query().Get("sort"); sort == SortTop || sort == SortNew {
		params.Sort = sort
	}

	items, totalCount, err := h.svc.Feed(r.Context(), params)
	if err != nil {
		slog.Error("listing idea feed", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	if items == nil {
		items = []*FeedItem{}
	}
	api.JSONPaginated(w, http.StatusOK, items, totalCount, params.Page, params.PageSize)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	idea := GetIdeaFromContext(r.Context())
	if idea == nil {
		api.HandleError(w, api.ErrNotFound)
		return
	}

	api.JSON(w, http.StatusOK, idea)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	idea := GetIdeaFromContext(r.Context())
	if idea == nil {
		api.HandleError(w, api.ErrNotFound)
		return
	}

	claims := auth.GetUserClaims(r.Context())
	if claims == nil || idea.OwnerUserID.String() != claims.UserID {
		api.HandleError(w, api.ErrOwnershipViolation)
		return
	}

	var req UpdateIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	updated, err := h.svc.Update(r.Context(), idea, &req)
	if err != nil {
		slog.Error("updating idea", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	idea := GetIdeaFromContext(r.Context())
	if idea == nil {
		api.HandleError(w, api.ErrNotFound)
		return
	}

	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}
	if idea.OwnerUserID.String() != claims.UserID {
		slog.Warn("ownership violation attempt",
			"idea_id", idea.ID,
			"idea_owner", idea.OwnerUserID,
			"requester", claims.UserID,
			"path", r.URL.Path,
			"method", r.Method,
		)
		api.HandleError(w, api.ErrOwnershipViolation)
		return
	}

	if err := h.svc.Delete(r.Context(), idea.ID); err != nil {
		slog.Error("deleting idea", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSONMessage(w, http.StatusOK, "idea deleted successfully")
}

// IdeaCtx resolves the {ideaID} URL parameter and stores the idea in the
// request context. Any authenticated user may read an idea; mutating
// handlers do their own ownership checks.
func (h *Handler) IdeaCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ideaIDStr := chi.URLParam(r, "ideaID")
		ideaID, err := uuid.Parse(ideaIDStr)
		if err != nil {
			api.HandleError(w, api.NewBadRequestError("invalid idea ID"))
			return
		}

		idea, err := h.svc.GetByID(r.Context(), ideaID)
		if err != nil {
			slog.Error("fetching idea", "error", err)
			api.HandleError(w, api.ErrInternalServer)
			return
		}
		if idea == nil {
			api.HandleError(w, api.NewNotFoundError("idea not found"))
			return
		}

		ctx := SetIdeaInContext(r.Context(), idea)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
