package model

// RequestError represents the structure of the response, in case of error
// or for simple acknowledgements
type RequestError struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// SetBody define the body of follow and unfollow routes
type SetBody struct {
	Id string `json:"id"`
}

// LoginBody is the body expected by /auth/login
type LoginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterBody is the body expected by /auth/register
type RegisterBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is sent back once an account is created
type RegisterResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenResponse holds the bearer token granted on login
type TokenResponse struct {
	Token string `json:"token"`
}

// UpdateBody define the body struct of the profile update route.
// Nil fields are left untouched.
type UpdateBody struct {
	Username *string        `json:"username,omitempty"`
	Email    *string        `json:"email,omitempty"`
	Profile  *ProfileUpdate `json:"profile,omitempty"`
}

// ProfileUpdate is the writable part of a profile
type ProfileUpdate struct {
	Avatar    *string `json:"avatar,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// PostBody defines the body when publishing a new post
type PostBody struct {
	Caption string   `json:"caption"`
	Media   []string `json:"media"`
}

// PostUpdate defines the body of the post edit route
type PostUpdate struct {
	Caption *string  `json:"caption,omitempty"`
	Media   []string `json:"media,omitempty"`
}

// CommentBody is the body of a new comment
type CommentBody struct {
	Text string `json:"text"`
}

// LikeResponse is returned after a like
type LikeResponse struct {
	LikeCount int64 `json:"likeCount"`
}
