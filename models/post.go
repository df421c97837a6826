package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type MediaItem struct {
	URL  string `bson:"url" json:"url"`
	Type string `bson:"type" json:"type"` // IMAGE or VIDEO
}

type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Headline  string             `bson:"headline" json:"headline"`
	Caption   string             `bson:"caption" json:"caption"`
	Media     []MediaItem        `bson:"media" json:"media"`
	LikedBy   []string           `bson:"likedBy" json:"likedBy"`
	Likes     int                `bson:"likes" json:"likes"`
	SavedBy   []string           `bson:"savedBy" json:"savedBy"`
	Saves     int                `bson:"saves" json:"saves"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}
