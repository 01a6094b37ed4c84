package model

import "time"

// Profile holds the public, editable part of a user
type Profile struct {
	Avatar    string `json:"avatar"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio"`
}

// User is the user document. Followers and Followings are derived
// from follow edges, and counts always equal their lengths.
type User struct {
	Id             string    `json:"_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	Profile        Profile   `json:"profile"`
	Followers      []string  `json:"followers"`
	Followings     []string  `json:"followings"`
	FollowerCount  int64     `json:"followerCount"`
	FollowingCount int64     `json:"followingCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Summary returns the populated author shape of the user
func (u User) Summary() *UserSummary {
	return &UserSummary{
		Id:       u.Id,
		Username: u.Username,
		Profile:  u.Profile,
	}
}

// UserSummary is the populated form of an author reference
type UserSummary struct {
	Id       string  `json:"_id"`
	Username string  `json:"username"`
	Profile  Profile `json:"profile"`
}
