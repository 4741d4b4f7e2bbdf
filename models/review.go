package models

import "time"

// Review is the thin collaborator entity whose creation triggers an owner
// notification and an analytics update.
type Review struct {
	ID        string    `bson:"id" json:"id"`
	Listing   string    `bson:"listing" json:"listing"`
	Owner     string    `bson:"owner" json:"owner"`
	Rating    int       `bson:"rating" json:"rating"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
