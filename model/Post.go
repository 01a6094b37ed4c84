package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Post defines how a post is stored and sent
type Post struct {
	Id        string    `json:"_id"`
	CreatedBy AuthorRef `json:"createdBy"`
	Caption   string    `json:"caption"`
	Media     []string  `json:"media"`
	LikeCount int64     `json:"likeCount"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a text left by a user under a post
type Comment struct {
	Id        string    `json:"_id"`
	User      AuthorRef `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthorRef references a user either by bare id or as a populated
// summary. On the wire it is a string or an object.
type AuthorRef struct {
	Id   string
	User *UserSummary
}

// Ref builds a bare author reference
func Ref(id string) AuthorRef {
	return AuthorRef{Id: id}
}

// Populated builds an author reference carrying the user summary
func Populated(user *UserSummary) AuthorRef {
	if user == nil {
		return AuthorRef{}
	}
	return AuthorRef{Id: user.Id, User: user}
}

// MarshalJSON writes the object form when populated, the id otherwise
func (a AuthorRef) MarshalJSON() ([]byte, error) {
	if a.User != nil {
		return json.Marshal(a.User)
	}
	if a.Id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(a.Id)
}

// UnmarshalJSON accepts null, a bare id or a populated object
func (a *AuthorRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*a = AuthorRef{}
		return nil
	case data[0] == '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*a = AuthorRef{Id: id}
		return nil
	}

	var user UserSummary
	if err := json.Unmarshal(data, &user); err != nil {
		return err
	}
	*a = AuthorRef{Id: user.Id, User: &user}
	return nil
}
