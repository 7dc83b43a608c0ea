package ideas

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvo-platform/mvo/internal/votes"
)

type Idea struct {
	ID          uuid.UUID  `json:"id"`
	OwnerUserID uuid.UUID  `json:"owner_user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// FeedItem is an idea enriched with its vote tally, derived metrics and
// comment count, as rendered on the public feed.
type FeedItem struct {
	Idea
	AuthorName   string        `json:"author_name"`
	Tally        votes.Tally   `json:"tally"`
	CommentCount int           `json:"comment_count"`
	Metrics      votes.Metrics `json:"metrics"`
}

type CreateIdeaRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=5000"`
}

type UpdateIdeaRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
}

const (
	SortNew = "new"
	SortTop = "top"
)

type ListParams struct {
	Page     int
	PageSize int
	Sort     string
}

func DefaultListParams() ListParams {
	return ListParams{
		Page:     1,
		PageSize: 20,
		Sort:     SortNew,
	}
}
