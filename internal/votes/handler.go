package votes

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mvo-platform/mvo/internal/api"
	"github.com/mvo-platform/mvo/internal/auth"
)

// CommentCounter supplies per-idea comment counts for the engagement tier.
type CommentCounter interface {
	CountByIdea(ctx context.Context, ideaID uuid.UUID) (int, error)
}

// Handler provides HTTP handlers for vote endpoints. Routes are mounted
// under an idea-scoped router, so {ideaID} is validated upstream.
type Handler struct {
	svc      *Service
	comments CommentCounter
}

// NewHandler creates a votes Handler.
func NewHandler(svc *Service, comments CommentCounter) *Handler {
	return &Handler{svc: svc, comments: comments}
}

// TallyResponse is the GET response: raw counters plus derived metrics and
// the requester's own active votes.
type TallyResponse struct {
	Tally     Tally      `json:"tally"`
	Metrics   Metrics    `json:"metrics"`
	UserVotes []VoteType `json:"user_votes"`
}

// Toggle flips the authenticated user's vote of the type named in the URL.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	ideaID, err := uuid.Parse(chi.URLParam(r, "ideaID"))
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid idea ID"))
		return
	}

	vt, err := ParseVoteType(chi.URLParam(r, "voteType"))
	if err != nil {
		api.HandleError(w, api.NewBadRequestError(err.Error()))
		return
	}

	result, err := h.svc.Toggle(r.Context(), userID, ideaID, vt)
	if err != nil {
		slog.Error("toggling vote", "error", err, "idea_id", ideaID)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, result)
}

// GetTally returns the idea's tally, derived metrics, and the requester's
// active votes.
func (h *Handler) GetTally(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	ideaID, err := uuid.Parse(chi.URLParam(r, "ideaID"))
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid idea ID"))
		return
	}

	tally, err := h.svc.Tally(r.Context(), ideaID)
	if err != nil {
		slog.Error("reading tally", "error", err, "idea_id", ideaID)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	commentCount := 0
	if h.comments != nil {
		if n, err := h.comments.CountByIdea(r.Context(), ideaID); err == nil {
			commentCount = n
		} else {
			slog.Warn("counting comments for metrics", "error", err, "idea_id", ideaID)
		}
	}

	userVotes, err := h.svc.UserVotes(r.Context(), userID, ideaID)
	if err != nil {
		slog.Warn("reading user votes", "error", err, "idea_id", ideaID)
	}
	if userVotes == nil {
		userVotes = []VoteType{}
	}

	api.JSON(w, http.StatusOK, TallyResponse{
		Tally:     *tally,
		Metrics:   ComputeMetrics(*tally, commentCount),
		UserVotes: userVotes,
	})
}
