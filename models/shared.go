package models

// ListingSummary is the display projection of a listing used when resolving
// weak references (notifications, bookmarks). Listings themselves are owned
// by the listing service; we only read these fields.
type ListingSummary struct {
	ID     string   `bson:"id" json:"id"`
	Title  string   `bson:"title" json:"title"`
	Images []string `bson:"images,omitempty" json:"images,omitempty"`
}

// UserSummary is the display projection of a user.
type UserSummary struct {
	ID     string `bson:"id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}
