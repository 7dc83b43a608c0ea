package analysis

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mvo-platform/mvo/internal/api"
	"github.com/mvo-platform/mvo/internal/auth"
	"github.com/mvo-platform/mvo/internal/credits"
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

// RefusalResponse is returned with 402 when the requester cannot cover the
// analysis cost.
type RefusalResponse struct {
	Error     string `json:"error"`
	Required  int    `json:"required"`
	Remaining int    `json:"remaining"`
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

	var req CreateAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	kind, err := ParseKind(req.Kind)
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid analysis kind"))
		return
	}

	requesterID, err := uuid.Parse(claims.UserID)
	if err != nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	created, authz, err := h.svc.Request(r.Context(), requesterID, idea.ID, kind)
	if err != nil {
		var storageErr *credits.StorageError
		if errors.As(err, &storageErr) {
			slog.Error("analysis credit check unavailable", "error", err)
			api.HandleError(w, api.ErrStorageUnavailable)
			return
		}
		slog.Error("creating analysis request", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	if !authz.Granted {
		api.JSON(w, http.StatusPaymentRequired, RefusalResponse{
			Error:     "insufficient credits",
			Required:  authz.Required,
			Remaining: authz.Remaining,
		})
		return
	}

	api.JSON(w, http.StatusAccepted, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	idea := ideas.GetIdeaFromContext(r.Context())
	if idea == nil {
		api.HandleError(w, api.ErrNotFound)
		return
	}

	reqs, err := h.svc.ListByIdea(r.Context(), idea.ID)
	if err != nil {
		slog.Error("listing analysis requests", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	if reqs == nil {
		reqs = []*Request{}
	}
	api.JSON(w, http.StatusOK, reqs)
}
