package models

import "time"

// NotificationType is the closed set of notification kinds the platform
// emits. The backend enum is authoritative; clients style unknown values
// with a default entry instead of growing their own list.
type NotificationType string

const (
	NotificationReview  NotificationType = "REVIEW"
	NotificationBooking NotificationType = "BOOKING"
	NotificationInquiry NotificationType = "INQUIRY"
	NotificationSystem  NotificationType = "SYSTEM"
)

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationReview, NotificationBooking, NotificationInquiry, NotificationSystem:
		return true
	}
	return false
}

// Notification is one fact a recipient should be informed of. It is created
// once, flipped to read at most once, and never deleted.
type Notification struct {
	ID             string           `bson:"id" json:"id"`
	Recipient      string           `bson:"recipient" json:"recipient"`
	Type           NotificationType `bson:"type" json:"type"`
	Title          string           `bson:"title" json:"title"`
	Message        string           `bson:"message" json:"message"`
	RelatedListing string           `bson:"relatedListing,omitempty" json:"relatedListing,omitempty"`
	RelatedUser    string           `bson:"relatedUser,omitempty" json:"relatedUser,omitempty"`
	Read           bool             `bson:"read" json:"read"`
	ActionURL      string           `bson:"actionUrl,omitempty" json:"actionUrl,omitempty"`
	CreatedAt      time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// NotificationView is the list projection: the stored notification with its
// weak references resolved to display summaries.
type NotificationView struct {
	ID             string           `json:"id"`
	Recipient      string           `json:"recipient"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	RelatedListing *ListingSummary  `json:"relatedListing,omitempty"`
	RelatedUser    *UserSummary     `json:"relatedUser,omitempty"`
	Read           bool             `json:"read"`
	ActionURL      string           `json:"actionUrl,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// NotificationPush is the trimmed payload sent over the realtime channel for
// a freshly created notification. Clients pick up the resolved references on
// their next fetch.
type NotificationPush struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"createdAt"`
}
