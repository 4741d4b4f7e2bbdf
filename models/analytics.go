package models

import "time"

// ViewEntry is one recorded view in the per-listing history.
type ViewEntry struct {
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Count     int64     `bson:"count" json:"count"`
}

type ViewStats struct {
	Total   int64       `bson:"total" json:"total"`
	History []ViewEntry `bson:"history" json:"history"`
}

type ReviewStats struct {
	Total         int64   `bson:"total" json:"total"`
	AverageRating float64 `bson:"averageRating" json:"averageRating"`
}

type EngagementStats struct {
	Bookmarks int64 `bson:"bookmarks" json:"bookmarks"`
	Inquiries int64 `bson:"inquiries" json:"inquiries"`
}

// Analytics accumulates per-listing counters. One document per listing,
// created lazily on the first recorded view.
type Analytics struct {
	ID          string          `bson:"id" json:"id"`
	Listing     string          `bson:"listing" json:"listing"`
	Owner       string          `bson:"owner" json:"owner"`
	Views       ViewStats       `bson:"views" json:"views"`
	Reviews     ReviewStats     `bson:"reviews" json:"reviews"`
	Engagement  EngagementStats `bson:"engagement" json:"engagement"`
	LastUpdated time.Time       `bson:"lastUpdated" json:"lastUpdated"`
}

// ListingStats is one row of the owner's aggregated analytics summary.
type ListingStats struct {
	ListingID  string          `json:"listingId"`
	Title      string          `json:"title"`
	Views      int64           `json:"views"`
	Reviews    int64           `json:"reviews"`
	Rating     float64         `json:"rating"`
	Engagement EngagementStats `json:"engagement"`
}

// OwnerAnalytics aggregates across all listings owned by one user.
type OwnerAnalytics struct {
	TotalViews    int64          `json:"totalViews"`
	TotalReviews  int64          `json:"totalReviews"`
	AverageRating float64        `json:"averageRating"`
	ListingStats  []ListingStats `json:"listingStats"`
}
