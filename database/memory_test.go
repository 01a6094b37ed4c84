package database

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/omkar2711/mediaConnect-b7/model"
)

func newUser(t *testing.T, m *Memory, id, username string) model.User {
	t.Helper()

	user, err := m.CreateUser(context.Background(), model.User{
		Id:       id,
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
	})
	if err != nil {
		t.Fatalf("CreateUser(%q) got error: %v", username, err)
	}

	return user
}

func getUser(t *testing.T, m *Memory, id string) model.User {
	t.Helper()

	user, err := m.GetUser(context.Background(), id)
	if err != nil {
		t.Fatalf("GetUser(%q) got error: %v", id, err)
	}

	return user
}

func TestFollowSymmetry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	newUser(t, m, "u1", "alice")
	newUser(t, m, "u2", "bob")

	if err := m.Follow(ctx, "u2", "u1"); err != nil {
		t.Fatalf("Follow(u2, u1) got error: %v", err)
	}

	alice, bob := getUser(t, m, "u1"), getUser(t, m, "u2")
	if !reflect.DeepEqual(alice.Followings, []string{"u2"}) || alice.FollowingCount != 1 {
		t.Fatalf("alice followings = %v (%d), want [u2] (1)", alice.Followings, alice.FollowingCount)
	}
	if !reflect.DeepEqual(bob.Followers, []string{"u1"}) || bob.FollowerCount != 1 {
		t.Fatalf("bob followers = %v (%d), want [u1] (1)", bob.Followers, bob.FollowerCount)
	}
	if len(alice.Followers) != 0 || alice.FollowerCount != 0 {
		t.Fatalf("alice followers = %v (%d), want none", alice.Followers, alice.FollowerCount)
	}
}

func TestFollowErrors(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	newUser(t, m, "u1", "alice")
	newUser(t, m, "u2", "bob")

	tests := []struct {
		name    string
		subject string
		actor   string
		want    error
		class   error
	}{
		{"self", "u1", "u1", ErrSelfFollow, ErrInvalidOperation},
		{"unknown subject", "u9", "u1", ErrUserNotFound, ErrNotFound},
		{"unknown actor", "u2", "u9", ErrUserNotFound, ErrNotFound},
		{"empty subject", "", "u1", ErrUserNotFound, ErrNotFound},
	}

	for _, test := range tests {
		err := m.Follow(ctx, test.subject, test.actor)
		if !errors.Is(err, test.want) || !errors.Is(err, test.class) {
			t.Errorf("%s: Follow() = %v, want %v", test.name, err, test.want)
		}
	}

	if err := m.Follow(ctx, "u2", "u1"); err != nil {
		t.Fatalf("Follow(u2, u1) got error: %v", err)
	}
	if err := m.Follow(ctx, "u2", "u1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("second Follow(u2, u1) = %v, want conflict", err)
	}

	// no partial write
	bob := getUser(t, m, "u2")
	if bob.FollowerCount != 1 || len(bob.Followers) != 1 {
		t.Fatalf("bob followers = %v (%d), want one", bob.Followers, bob.FollowerCount)
	}
}

func TestUnfollowRestores(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	newUser(t, m, "u1", "alice")
	newUser(t, m, "u2", "bob")

	before1, before2 := getUser(t, m, "u1"), getUser(t, m, "u2")

	if err := m.Follow(ctx, "u2", "u1"); err != nil {
		t.Fatalf("Follow() got error: %v", err)
	}
	if err := m.Unfollow(ctx, "u2", "u1"); err != nil {
		t.Fatalf("Unfollow() got error: %v", err)
	}

	if after := getUser(t, m, "u1"); !reflect.DeepEqual(before1, after) {
		t.Fatalf("alice = %+v, want %+v", after, before1)
	}
	if after := getUser(t, m, "u2"); !reflect.DeepEqual(before2, after) {
		t.Fatalf("bob = %+v, want %+v", after, before2)
	}

	if err := m.Unfollow(ctx, "u2", "u1"); !errors.Is(err, ErrNotFollowing) {
		t.Fatalf("Unfollow() without edge = %v, want %v", err, ErrNotFollowing)
	}
	if err := m.Unfollow(ctx, "u1", "u1"); !errors.Is(err, ErrSelfUnfollow) || !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("Unfollow() self = %v, want %v", err, ErrSelfUnfollow)
	}
}

func TestCreateUserTaken(t *testing.T) {
	m := NewMemory()
	newUser(t, m, "u1", "alice")

	_, err := m.CreateUser(context.Background(), model.User{Username: "Alice", Email: "other@example.com"})
	if !errors.Is(err, ErrUserTaken) {
		t.Fatalf("CreateUser() same username = %v, want %v", err, ErrUserTaken)
	}

	_, err = m.CreateUser(context.Background(), model.User{Username: "carol", Email: "ALICE@example.com"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("CreateUser() same email = %v, want conflict", err)
	}
}

func TestUpdateUserKeepsRelations(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	newUser(t, m, "u1", "alice")
	newUser(t, m, "u2", "bob")
	if err := m.Follow(ctx, "u2", "u1"); err != nil {
		t.Fatalf("Follow() got error: %v", err)
	}

	bio, name := "hello", "alicia"
	user, err := m.UpdateUser(ctx, "u1", model.UpdateBody{
		Username: &name,
		Profile:  &model.ProfileUpdate{Bio: &bio},
	})
	if err != nil {
		t.Fatalf("UpdateUser() got error: %v", err)
	}
	if user.Username != "alicia" || user.Profile.Bio != "hello" {
		t.Fatalf("UpdateUser() = %+v", user)
	}
	if user.FollowingCount != 1 {
		t.Fatalf("UpdateUser() following count = %d, want 1", user.FollowingCount)
	}

	if _, err := m.GetUserByUsername(ctx, "alice"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("GetUserByUsername(old) = %v, want not found", err)
	}
	found, err := m.GetUserByUsername(ctx, "ALICIA")
	if err != nil || found.Password != "hash" {
		t.Fatalf("GetUserByUsername(new) = %+v, %v", found, err)
	}

	taken := "bob"
	if _, err := m.UpdateUser(ctx, "u1", model.UpdateBody{Username: &taken}); !errors.Is(err, ErrUserTaken) {
		t.Fatalf("UpdateUser() taken = %v, want %v", err, ErrUserTaken)
	}
}

func TestLikeCount(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	newUser(t, m, "u1", "alice")

	post, err := m.CreatePost(ctx, model.Post{CreatedBy: model.Ref("u1"), Caption: "hello"})
	if err != nil {
		t.Fatalf("CreatePost() got error: %v", err)
	}

	for i := 1; i <= 5; i++ {
		count, err := m.LikePost(ctx, post.Id)
		if err != nil {
			t.Fatalf("LikePost() got error: %v", err)
		}
		if count != int64(i) {
			t.Fatalf("LikePost() = %d, want %d", count, i)
		}
	}

	if _, err := m.LikePost(ctx, "missing"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("LikePost(missing) = %v, want %v", err, ErrPostNotFound)
	}
}

func TestAddComment(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	newUser(t, m, "u1", "alice")

	post, err := m.CreatePost(ctx, model.Post{CreatedBy: model.Ref("u1"), Caption: "hello"})
	if err != nil {
		t.Fatalf("CreatePost() got error: %v", err)
	}

	if _, err := m.AddComment(ctx, post.Id, "u1", "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("AddComment(blank) = %v, want validation error", err)
	}
	if _, err := m.AddComment(ctx, "missing", "u1", "nice!"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("AddComment(missing post) = %v, want %v", err, ErrPostNotFound)
	}

	comment, err := m.AddComment(ctx, post.Id, "u1", " nice! ")
	if err != nil {
		t.Fatalf("AddComment() got error: %v", err)
	}
	if comment.Text != "nice!" || comment.User.Id != "u1" || comment.Id == "" {
		t.Fatalf("AddComment() = %+v", comment)
	}

	got, err := m.GetPost(ctx, post.Id)
	if err != nil {
		t.Fatalf("GetPost() got error: %v", err)
	}
	if len(got.Comments) != 1 || got.Comments[0].Text != "nice!" {
		t.Fatalf("GetPost() comments = %+v", got.Comments)
	}
	if got.CreatedBy.User == nil || got.CreatedBy.User.Username != "alice" {
		t.Fatalf("GetPost() author = %+v, want populated alice", got.CreatedBy)
	}
}

func TestPostAuthorOnly(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	newUser(t, m, "u1", "alice")
	newUser(t, m, "u2", "bob")

	post, err := m.CreatePost(ctx, model.Post{CreatedBy: model.Ref("u1"), Caption: "hello"})
	if err != nil {
		t.Fatalf("CreatePost() got error: %v", err)
	}

	caption := "edited"
	if _, err := m.UpdatePost(ctx, post.Id, "u2", model.PostUpdate{Caption: &caption}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("UpdatePost() by other = %v, want forbidden", err)
	}
	updated, err := m.UpdatePost(ctx, post.Id, "u1", model.PostUpdate{Caption: &caption})
	if err != nil || updated.Caption != "edited" {
		t.Fatalf("UpdatePost() = %+v, %v", updated, err)
	}

	if err := m.DeletePost(ctx, post.Id, "u2"); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("DeletePost() by other = %v, want %v", err, ErrNotAuthor)
	}
	if err := m.DeletePost(ctx, post.Id, "u1"); err != nil {
		t.Fatalf("DeletePost() got error: %v", err)
	}
	if _, err := m.GetPost(ctx, post.Id); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("GetPost() after delete = %v, want %v", err, ErrPostNotFound)
	}
}

func TestFeedPosts(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	newUser(t, m, "u1", "alice")
	newUser(t, m, "u2", "bob")
	newUser(t, m, "u3", "carol")

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.Now = func() time.Time { return now }

	create := func(author, caption string) {
		now = now.Add(time.Minute)
		if _, err := m.CreatePost(ctx, model.Post{CreatedBy: model.Ref(author), Caption: caption}); err != nil {
			t.Fatalf("CreatePost() got error: %v", err)
		}
	}
	create("u1", "mine")
	create("u2", "followed")
	create("u3", "stranger")

	if err := m.Follow(ctx, "u2", "u1"); err != nil {
		t.Fatalf("Follow() got error: %v", err)
	}

	posts, err := m.FeedPosts(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("FeedPosts() got error: %v", err)
	}
	if len(posts) != 2 || posts[0].Caption != "followed" || posts[1].Caption != "mine" {
		t.Fatalf("FeedPosts() = %+v", posts)
	}

	posts, err = m.FeedPosts(ctx, "u1", 1)
	if err != nil || len(posts) != 1 {
		t.Fatalf("FeedPosts(limit 1) = %d posts, %v", len(posts), err)
	}

	all, err := m.ListPosts(ctx)
	if err != nil || len(all) != 3 || all[0].Caption != "stranger" {
		t.Fatalf("ListPosts() = %+v, %v", all, err)
	}
}

func TestSuggestions(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	newUser(t, m, "u1", "alice")
	newUser(t, m, "u2", "bob")
	newUser(t, m, "u3", "carol")
	newUser(t, m, "u4", "dave")
	newUser(t, m, "u5", "erin")

	// dave is the most followed, alice follows bob
	for _, actor := range []string{"u2", "u3", "u5"} {
		if err := m.Follow(ctx, "u4", actor); err != nil {
			t.Fatalf("Follow(u4, %s) got error: %v", actor, err)
		}
	}
	if err := m.Follow(ctx, "u2", "u1"); err != nil {
		t.Fatalf("Follow(u2, u1) got error: %v", err)
	}

	users, err := m.Suggestions(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("Suggestions() got error: %v", err)
	}

	var names []string
	for _, user := range users {
		names = append(names, user.Username)
	}
	if want := []string{"dave", "carol", "erin"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("Suggestions() = %v, want %v", names, want)
	}

	users, err = m.Suggestions(ctx, "u1", 2)
	if err != nil || len(users) != 2 {
		t.Fatalf("Suggestions(limit 2) = %d users, %v", len(users), err)
	}
}

func TestRecountFollows(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	newUser(t, m, "u1", "alice")
	newUser(t, m, "u2", "bob")
	if err := m.Follow(ctx, "u2", "u1"); err != nil {
		t.Fatalf("Follow() got error: %v", err)
	}

	m.users["u2"].FollowerCount = 7

	repaired, err := m.RecountFollows(ctx)
	if err != nil {
		t.Fatalf("RecountFollows() got error: %v", err)
	}
	if repaired != 1 {
		t.Fatalf("RecountFollows() = %d, want 1", repaired)
	}
	if bob := getUser(t, m, "u2"); bob.FollowerCount != 1 {
		t.Fatalf("bob follower count = %d, want 1", bob.FollowerCount)
	}

	if repaired, _ := m.RecountFollows(ctx); repaired != 0 {
		t.Fatalf("second RecountFollows() = %d, want 0", repaired)
	}
}
