package model

// FeedItem is the render record of a post
type FeedItem struct {
	Id         string        `json:"id"`
	User       string        `json:"user"`
	Name       string        `json:"name,omitempty"`
	Handle     string        `json:"handle"`
	Avatar     string        `json:"avatar"`
	Time       string        `json:"time"`
	MediaCount int           `json:"mediaCount"`
	Image      string        `json:"image"`
	Likes      int64         `json:"likes"`
	Caption    string        `json:"caption"`
	Tags       []string      `json:"tags"`
	Comments   []FeedComment `json:"comments"`
	Pending    bool          `json:"pending,omitempty"`
}

// FeedComment is a comment with its author name resolved
type FeedComment struct {
	Id      string `json:"id,omitempty"`
	User    string `json:"user"`
	Text    string `json:"text"`
	Pending bool   `json:"pending,omitempty"`
}
