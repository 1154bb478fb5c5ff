package dto

type UpdateGuidelinesRequest struct {
	Content string `json:"content"`
}

type DashboardStats struct {
	TotalReviews     int64            `json:"total_reviews"`
	AvgBrandScore    *float64         `json:"avg_brand_score"`
	ReviewsThisWeek  int64            `json:"reviews_this_week"`
	TopIssues        []string         `json:"top_issues"`
	RatingDist       map[string]int   `json:"rating_distribution"`
	SentimentDist    map[string]int   `json:"sentiment_distribution"`
	ContentTypeDist  map[string]int   `json:"content_type_distribution"`
	RecentReviews    []ReviewResponse `json:"recent_reviews"`
}
