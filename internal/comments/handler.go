package comments

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
	"github.com/mvo-platform/mvo/internal/ideas"
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
	idea := ideas.GetIdeaFromContext(r.Context())
	if idea == nil {
		api.HandleError(w, api.ErrNotFound)
		return
	}

	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	authorID, err := uuid.Parse(claims.UserID)
	if err != nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	comment, err := h.svc.Create(r.Context(), idea.ID, authorID, &req)
	if err != nil {
		slog.Error("creating comment", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusCreated, comment)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	idea := ideas.GetIdeaFromContext(r.Context())
	if idea == nil {
		api.HandleError(w, api.ErrNotFound)
		return
	}

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

	comments, totalCount, err := h.svc.ListByIdea(r.Context(), idea.ID, params)
	if err != nil {
		slog.Error("listing comments", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	if comments == nil {
		comments = []*Comment{}
	}
	api.JSONPaginated(w, http.StatusOK, comments, int64(totalCount), params.Page, params.PageSize)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	commentIDStr := chi.URLParam(r, "commentID")
	commentID, err := uuid.Parse(commentIDStr)
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid comment ID"))
		return
	}

	comment, err := h.svc.GetByID(r.Context(), commentID)
	if err != nil {
		slog.Error("fetching comment for delete", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if comment == nil {
		api.HandleError(w, api.NewNotFoundError("comment not found"))
		return
	}

	if comment.AuthorID.String() != claims.UserID {
		slog.Warn("ownership violation attempt",
			"comment_id", commentID,
			"comment_author", comment.AuthorID,
			"requester", claims.UserID,
			"path", r.URL.Path,
			"method", r.Method,
		)
		api.HandleError(w, api.ErrOwnershipViolation)
		return
	}

	if err := h.svc.Delete(r.Context(), commentID); err != nil {
		slog.Error("deleting comment", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSONMessage(w, http.StatusOK, "comment deleted successfully")
}
