// Package feed turns raw post documents into render records.
//
// Formatting never fails: author references may be populated objects,
// bare ids or missing, and every absent field falls back to a
// placeholder.
package feed

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/omkar2711/mediaConnect-b7/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	PlaceholderAvatar = "https://images.unsplash.com/photo-1524504388940-b1c1722653e1?auto=format&fit=crop&w=200&q=80"
	PlaceholderImage  = "https://images.unsplash.com/photo-1521737604893-d14cc237f11d?auto=format&fit=crop&w=1600&q=80"

	UnknownCreator   = "Unknown creator"
	UnknownCommenter = "User"
	JustNow          = "just now"
)

var hashtag = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// Format builds the render records of posts, keeping their order.
// Relative times are computed against now.
func Format(posts []model.Post, now time.Time) []model.FeedItem {
	items := make([]model.FeedItem, 0, len(posts))
	for idx, post := range posts {
		items = append(items, Item(post, idx, now))
	}

	return items
}

// Item builds the render record of one post, idx is used as id when
// the post has none
func Item(post model.Post, idx int, now time.Time) model.FeedItem {
	username := AuthorName(post.CreatedBy)

	id := post.Id
	if id == "" {
		id = strconv.Itoa(idx)
	}

	avatar := PlaceholderAvatar
	var name string
	if user := post.CreatedBy.User; user != nil {
		if user.Profile.Avatar != "" {
			avatar = user.Profile.Avatar
		}
		name = DisplayName(user.Profile)
	}

	image := PlaceholderImage
	if len(post.Media) > 0 && post.Media[0] != "" {
		image = post.Media[0]
	}

	comments := make([]model.FeedComment, 0, len(post.Comments))
	for _, comment := range post.Comments {
		comments = append(comments, model.FeedComment{
			Id:   comment.Id,
			User: CommenterName(comment.User),
			Text: comment.Text,
		})
	}

	return model.FeedItem{
		Id:         id,
		User:       username,
		Name:       name,
		Handle:     "@" + username,
		Avatar:     avatar,
		Time:       TimeAgo(post.CreatedAt, now),
		MediaCount: len(post.Media),
		Image:      image,
		Likes:      post.LikeCount,
		Caption:    post.Caption,
		Tags:       Tags(post.Caption),
		Comments:   comments,
	}
}

// AuthorName resolves the display username of a post author
func AuthorName(ref model.AuthorRef) string {
	switch {
	case ref.User != nil && ref.User.Username != "":
		return ref.User.Username
	case ref.Id != "":
		id := ref.Id
		if len(id) > 4 {
			id = id[len(id)-4:]
		}
		return "user_" + id
	}

	return UnknownCreator
}

// CommenterName resolves the name shown next to a comment
func CommenterName(ref model.AuthorRef) string {
	switch {
	case ref.User != nil && ref.User.Username != "":
		return ref.User.Username
	case ref.Id != "":
		return ref.Id
	}

	return UnknownCommenter
}

// DisplayName is the title-cased full name, empty without names
func DisplayName(profile model.Profile) string {
	full := strings.TrimSpace(strings.TrimSpace(profile.FirstName) + " " + strings.TrimSpace(profile.LastName))
	if full == "" {
		return ""
	}

	return cases.Title(language.English).String(full)
}

// TimeAgo renders createdAt relative to now
func TimeAgo(createdAt, now time.Time) string {
	if createdAt.IsZero() || now.Sub(createdAt) < time.Minute {
		return JustNow
	}

	return humanize.RelTime(createdAt, now, "ago", "from now")
}

// Tags lists the distinct hashtags of a caption in order
func Tags(caption string) []string {
	tags := make([]string, 0)
	seen := make(map[string]bool)

	for _, tag := range hashtag.FindAllString(caption, -1) {
		lower := strings.ToLower(tag)
		if !seen[lower] {
			seen[lower] = true
			tags = append(tags, tag)
		}
	}

	return tags
}
