package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FromUserID primitive.ObjectID `bson:"fromUserId" json:"fromUserId"`
	ToUserID   primitive.ObjectID `bson:"toUserId" json:"toUserId"`
	PostID     string             `bson:"postId" json:"postId"` // empty for follow notifications
	Type       string             `bson:"type" json:"type"`
	CreatedAt  int64              `bson:"createdAt" json:"createdAt"`
}
