package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email                string             `bson:"email" json:"email"`
	PasswordHash         string             `bson:"passwordHash" json:"-"`
	FullName             string             `bson:"fullName" json:"fullName"`
	Username             string             `bson:"username" json:"username"`
	Bio                  string             `bson:"bio" json:"bio"`
	ProfilePictureURL    string             `bson:"profilePictureUrl" json:"profilePictureUrl"`
	Followers            []string           `bson:"followers" json:"followers"` // user id hex strings
	Following            []string           `bson:"following" json:"following"`
	NotificationsEnabled bool               `bson:"notificationsEnabled" json:"notificationsEnabled"`
	CreatedAt            int64              `bson:"createdAt" json:"createdAt"`
}

// PublicProfile is the shape of a user document exposed to other users.
type PublicProfile struct {
	ID                string `json:"id"`
	FullName          string `json:"fullName"`
	Username          string `json:"username"`
	Bio               string `json:"bio"`
	ProfilePictureURL string `json:"profilePictureUrl"`
	FollowerCount     int    `json:"followerCount"`
	FollowingCount    int    `json:"followingCount"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:                u.ID.Hex(),
		FullName:          u.FullName,
		Username:          u.Username,
		Bio:               u.Bio,
		ProfilePictureURL: u.ProfilePictureURL,
		FollowerCount:     len(u.Followers),
		FollowingCount:    len(u.Following),
	}
}
