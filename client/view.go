package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/omkar2711/mediaConnect-b7/feed"
	"github.com/omkar2711/mediaConnect-b7/helpers"
	"github.com/omkar2711/mediaConnect-b7/model"
)

var (
	ErrLikeInFlight = errors.New("like already in flight")
	ErrEmptyComment = errors.New("comment text is required")
	ErrUnknownPost  = errors.New("post is not in the feed")
)

// Backend is the part of the API the feed view needs, *Client
// satisfies it
type Backend interface {
	Posts(ctx context.Context) ([]model.Post, error)
	Like(ctx context.Context, id string) (int64, error)
	Comment(ctx context.Context, postID, text string) (model.Comment, error)
}

// FeedView holds the posts shown to a user. Likes and comments are
// applied locally first, then reconciled with the server answer.
// It is safe for concurrent use.
type FeedView struct {
	api Backend
	// Viewer authors pending comments, optional
	Viewer *model.UserSummary

	mu      sync.Mutex
	posts   []model.Post
	err     error
	liking  map[string]bool
	pending map[string]bool

	// loads counts Load calls, an optimistic like belongs to one load
	loads int
}

// NewFeedView creates an empty view, Load fills it
func NewFeedView(api Backend) *FeedView {
	return &FeedView{
		api:     api,
		liking:  make(map[string]bool),
		pending: make(map[string]bool),
	}
}

// Load fetches every post. On failure the error is kept and the view
// falls back to demo posts.
func (v *FeedView) Load(ctx context.Context) error {
	posts, err := v.api.Posts(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.loads++
	v.err = err
	if err != nil {
		v.posts = nil
		return err
	}

	v.posts = posts
	return nil
}

// Err returns the error of the last Load
func (v *FeedView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.err
}

// Posts returns a copy of the loaded posts sharing no slice with
// the view
func (v *FeedView) Posts() []model.Post {
	v.mu.Lock()
	defer v.mu.Unlock()

	posts := make([]model.Post, len(v.posts))
	for i, post := range v.posts {
		post.Media = append([]string(nil), post.Media...)
		post.Comments = append([]model.Comment(nil), post.Comments...)
		posts[i] = post
	}
	return posts
}

// Like adds one like right away and replaces it with the server count,
// or removes it if the server refuses
func (v *FeedView) Like(ctx context.Context, id string) (int64, error) {
	v.mu.Lock()
	if v.liking[id] {
		v.mu.Unlock()
		return 0, ErrLikeInFlight
	}
	idx := v.index(id)
	if idx < 0 {
		v.mu.Unlock()
		return 0, ErrUnknownPost
	}
	v.liking[id] = true
	v.posts[idx].LikeCount++
	optimistic, loads := v.posts[idx].LikeCount, v.loads
	v.mu.Unlock()

	count, err := v.api.Like(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.liking, id)
	idx = v.index(id)
	if err != nil {
		// a Load during the call already replaced the optimistic count
		if idx >= 0 && v.loads == loads {
			v.posts[idx].LikeCount--
		}
		return optimistic - 1, err
	}

	if idx >= 0 {
		v.posts[idx].LikeCount = count
	}
	return count, nil
}

// Comment shows a pending comment right away, replaced by the server
// comment on success and removed on failure
func (v *FeedView) Comment(ctx context.Context, postID, text string) (model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Comment{}, ErrEmptyComment
	}

	temp := model.Comment{
		Id:        "pending-" + helpers.Generate(),
		User:      model.Populated(v.Viewer),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	v.mu.Lock()
	idx := v.index(postID)
	if idx < 0 {
		v.mu.Unlock()
		return model.Comment{}, ErrUnknownPost
	}
	v.posts[idx].Comments = append(v.posts[idx].Comments, temp)
	v.pending[temp.Id] = true
	v.mu.Unlock()

	comment, err := v.api.Comment(ctx, postID, text)

	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.pending, temp.Id)
	idx = v.index(postID)
	if idx < 0 {
		return comment, err
	}

	comments := v.posts[idx].Comments
	for i := range comments {
		if comments[i].Id != temp.Id {
			continue
		}
		if err != nil {
			v.posts[idx].Comments = append(comments[:i:i], comments[i+1:]...)
		} else {
			comments[i] = comment
		}
		break
	}

	return comment, err
}

// Items renders the view, demo posts when nothing is loaded
func (v *FeedView) Items(now time.Time) []model.FeedItem {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.posts) == 0 {
		return Demo()
	}

	items := feed.Format(v.posts, now)
	for i := range items {
		items[i].Pending = v.liking[items[i].Id]
		for j := range items[i].Comments {
			items[i].Comments[j].Pending = v.pending[items[i].Comments[j].Id]
		}
	}

	return items
}

func (v *FeedView) index(id string) int {
	for i := range v.posts {
		if v.posts[i].Id == id {
			return i
		}
	}
	return -1
}

// Demo returns the posts shown while the feed is empty or unreachable
func Demo() []model.FeedItem {
	return []model.FeedItem{
		{
			Id:      "demo-1",
			User:    "Luna Studio",
			Handle:  "@luna.designs",
			Avatar:  feed.PlaceholderAvatar,
			Time:    "2 hours ago",
			Image:   feed.PlaceholderImage,
			Likes:   1842,
			Caption: "Morning light and quiet corners. Designing a space that breathes.",
			Tags:    []string{"#interiors", "#minimal", "#sunrise"},
			Comments: []model.FeedComment{
				{User: "Kai", Text: "The tones are so calming"},
				{User: "Zoe", Text: "Need this vibe in my studio."},
			},
		},
		{
			Id:      "demo-2",
			User:    "Urban Stories",
			Handle:  "@urbanstories",
			Avatar:  "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?auto=format&fit=crop&w=200&q=80",
			Time:    "5 hours ago",
			Image:   "https://images.unsplash.com/photo-1526402464764-8cbb60c7c54e?auto=format&fit=crop&w=1600&q=80",
			Likes:   956,
			Caption: "Golden hour reflections downtown.",
			Tags:    []string{"#city", "#photography", "#goldenhour"},
			Comments: []model.FeedComment{
				{User: "Mila", Text: "That symmetry"},
				{User: "Arlo", Text: "Frames within frames. Love it."},
			},
		},
	}
}
