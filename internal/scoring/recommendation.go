package scoring

const (
	RecommendContactImmediately = "Contact immediately"
	RecommendFollowUpSoon       = "Follow up soon"
	RecommendLowPriority        = "Low priority"
	RecommendReviewManually     = "Review manually"
)

// Recommend maps a category to the next sales action. Any category other than
// Hot, Warm or Cold gets RecommendReviewManually.
func Recommend(c Category) string {
	switch c {
	case CategoryHot:
		return RecommendContactImmediately
	case CategoryWarm:
		return RecommendFollowUpSoon
	case CategoryCold:
		return RecommendLowPriority
	default:
		return RecommendReviewManually
	}
}
