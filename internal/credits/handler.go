package credits

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mvo-platform/mvo/internal/api"
	"github.com/mvo-platform/mvo/internal/auth"
)

// Handler provides HTTP handlers for the credit ledger endpoints.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandler creates a credits Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

type ChangePlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=free starter builder operator"`
}

// GetBalance returns the authenticated user's current balance.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	balance, err := h.svc.Balance(r.Context(), userID)
	if err != nil {
		handleLedgerError(w, "getting balance", err)
		return
	}

	api.JSON(w, http.StatusOK, balance)
}

// ChangePlan updates the authenticated user's plan tier. The change resets
// today's usage.
func (h *Handler) ChangePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	var req ChangePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	plan, err := ParsePlan(req.Plan)
	if err != nil {
		api.HandleError(w, api.NewBadRequestError(err.Error()))
		return
	}

	balance, err := h.svc.SetPlan(r.Context(), userID, plan)
	if err != nil {
		handleLedgerError(w, "changing plan", err)
		return
	}

	api.JSON(w, http.StatusOK, balance)
}

func requesterID(r *http.Request) (uuid.UUID, bool) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func handleLedgerError(w http.ResponseWriter, op string, err error) {
	var se *StorageError
	switch {
	case errors.As(err, &se):
		slog.Error(op, "error", err)
		api.HandleError(w, api.ErrStorageUnavailable)
	case errors.Is(err, ErrInvalidPlan):
		api.HandleError(w, api.NewBadRequestError(err.Error()))
	default:
		slog.Error(op, "error", err)
		api.HandleError(w, api.ErrInternalServer)
	}
}
