package votes

import "math"

// Tier is the coarse engagement bucket derived from total interactions
// (votes plus comments).
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Metrics is the presentation-ready view of a tally. Derived, never stored.
type Metrics struct {
	TotalVotes     int      `json:"total_votes"`
	Sentiment      int      `json:"sentiment"`
	DominantType   VoteType `json:"dominant_type"`
	DominantColor  string   `json:"dominant_color"`
	EngagementTier Tier     `json:"engagement_tier"`
}

// Total returns the sum of all three counters.
func Total(t Tally) int {
	return t.DislikeCount + t.UseCount + t.PayCount
}

// Sentiment maps a tally onto [-100, 100]: positive votes (use, pay) minus
// negative votes (dislike), as a share of the total. Zero when there are no
// votes.
func Sentiment(t Tally) int {
	total := Total(t)
	if total == 0 {
		return 0
	}
	score := float64(t.UseCount+t.PayCount-t.DislikeCount) / float64(total) * 100
	return int(math.Round(score))
}

// Dominant returns the vote type with the highest count. Exact ties resolve
// by the fixed priority pay > use > dislike; with no votes at all the
// priority alone decides (pay).
func Dominant(t Tally) VoteType {
	dominant := AllVoteTypes[0]
	for _, vt := range AllVoteTypes[1:] {
		if t.Count(vt) >= t.Count(dominant) {
			dominant = vt
		}
	}
	return dominant
}

// EngagementTier buckets total interactions (votes + comments) into three
// levels: fewer than 10 is low, fewer than 20 is medium, 20 and above is
// high.
func EngagementTier(totalInteractions int) Tier {
	switch {
	case totalInteractions < 10:
		return TierLow
	case totalInteractions < 20:
		return TierMedium
	default:
		return TierHigh
	}
}

// ComputeMetrics derives the full presentation metrics for a tally and the
// idea's comment count.
func ComputeMetrics(t Tally, commentCount int) Metrics {
	dominant := Dominant(t)
	return Metrics{
		TotalVotes:     Total(t),
		Sentiment:      Sentiment(t),
		DominantType:   dominant,
		DominantColor:  dominant.Color(),
		EngagementTier: EngagementTier(Total(t) + commentCount),
	}
}
