// shared/models/review.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ReviewFields are the attributes a review payload must carry.
var ReviewFields = []string{"username", "comment", "rating"}

// Review is a user's rating of a player, embedded in the player's review sequence.
type Review struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Username Value              `bson:"username" json:"username"`
	Comment  Value              `bson:"comment" json:"comment"`
	Rating   Value              `bson:"rating" json:"rating"`
}

// NewReview creates a review with a freshly generated identifier.
func NewReview(username, comment, rating string) Review {
	return Review{
		ID:       primitive.NewObjectID(),
		Username: Value(username),
		Comment:  Value(comment),
		Rating:   Value(rating),
	}
}
