package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/omkar2711/mediaConnect-b7/model"
)

// Error classes, handlers map them to status codes with errors.Is
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrValidation       = errors.New("validation error")
	ErrConflict         = errors.New("conflict")
	ErrForbidden        = errors.New("forbidden")
)

var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrPostNotFound     = fmt.Errorf("post %w", ErrNotFound)
	ErrSelfFollow       = fmt.Errorf("%w: cannot follow yourself", ErrInvalidOperation)
	ErrSelfUnfollow     = fmt.Errorf("%w: cannot unfollow yourself", ErrInvalidOperation)
	ErrAlreadyFollowing = fmt.Errorf("%w: already following", ErrConflict)
	ErrNotFollowing     = fmt.Errorf("%w: not following", ErrConflict)
	ErrUserTaken        = fmt.Errorf("%w: username or email already used", ErrConflict)
	ErrEmptyComment     = fmt.Errorf("%w: comment text is empty", ErrValidation)
	ErrNotAuthor        = fmt.Errorf("%w: not the author of this post", ErrForbidden)
)

// Store is the persistence contract shared by the graph database and
// the in-memory implementation.
type Store interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	// GetUserByUsername also returns the password hash.
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	UpdateUser(ctx context.Context, id string, update model.UpdateBody) (model.User, error)

	// Follow makes actor follow subject. The edge and both counts are
	// written in one transaction.
	Follow(ctx context.Context, subjectID, actorID string) error
	Unfollow(ctx context.Context, subjectID, actorID string) error
	Suggestions(ctx context.Context, actorID string, limit int) ([]model.User, error)
	// RecountFollows recomputes denormalized counts and returns how
	// many users were repaired.
	RecountFollows(ctx context.Context) (int, error)

	CreatePost(ctx context.Context, post model.Post) (model.Post, error)
	GetPost(ctx context.Context, id string) (model.Post, error)
	UpdatePost(ctx context.Context, id, authorID string, update model.PostUpdate) (model.Post, error)
	DeletePost(ctx context.Context, id, authorID string) error
	ListPosts(ctx context.Context) ([]model.Post, error)
	UserPosts(ctx context.Context, userID string) ([]model.Post, error)
	FeedPosts(ctx context.Context, viewerID string, limit int) ([]model.Post, error)
	LikePost(ctx context.Context, id string) (int64, error)
	AddComment(ctx context.Context, postID, authorID, text string) (model.Comment, error)

	Close(ctx context.Context) error
}

// checkPair validates a follow pair before touching the store, self
// is returned when both ids are the same
func checkPair(subjectID, actorID string, self error) error {
	if subjectID == "" || actorID == "" {
		return ErrUserNotFound
	}
	if subjectID == actorID {
		return self
	}
	return nil
}
