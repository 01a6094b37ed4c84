//go:build integration

package database

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/omkar2711/mediaConnect-b7/helpers"
	"github.com/omkar2711/mediaConnect-b7/model"
)

// Run with: GRAPH_URL=bolt://localhost:7687 go test -tags integration ./database
func newGraph(t *testing.T) *Graph {
	t.Helper()

	url := os.Getenv("GRAPH_URL")
	if url == "" {
		t.Skip("GRAPH_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	g, err := NewGraph(ctx, url, os.Getenv("GRAPH_USERNAME"), os.Getenv("GRAPH_PASSWORD"))
	if err != nil {
		t.Fatalf("NewGraph() got error: %v", err)
	}
	t.Cleanup(func() { g.Close(context.Background()) })

	return g
}

func graphUser(t *testing.T, g *Graph, name string) model.User {
	t.Helper()

	id := strings.ToLower(helpers.Generate())
	username := name + id[len(id)-8:]
	user, err := g.CreateUser(context.Background(), model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
	})
	if err != nil {
		t.Fatalf("CreateUser(%q) got error: %v", username, err)
	}
	t.Cleanup(func() {
		g.MakeRequest(context.Background(),
			"MATCH (u:User {id: $id}) OPTIONAL MATCH (u)-[:Create]->(p:Post) OPTIONAL MATCH (u)-[:Wrote]->(c:Comment) DETACH DELETE c, p, u;",
			map[string]any{"id": user.Id})
	})

	return user
}

func TestGraphFollowUnfollow(t *testing.T) {
	g := newGraph(t)
	ctx := context.Background()

	alice := graphUser(t, g, "alice")
	bob := graphUser(t, g, "bob")

	if err := g.Follow(ctx, bob.Id, alice.Id); err != nil {
		t.Fatalf("Follow() got error: %v", err)
	}
	if err := g.Follow(ctx, bob.Id, alice.Id); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("second Follow() = %v, want ErrAlreadyFollowing", err)
	}

	subject, err := g.GetUser(ctx, bob.Id)
	if err != nil {
		t.Fatal(err)
	}
	actor, err := g.GetUser(ctx, alice.Id)
	if err != nil {
		t.Fatal(err)
	}
	if subject.FollowerCount != 1 || len(subject.Followers) != 1 || subject.Followers[0] != alice.Id {
		t.Fatalf("subject after follow = %+v", subject)
	}
	if actor.FollowingCount != 1 || len(actor.Followings) != 1 || actor.Followings[0] != bob.Id {
		t.Fatalf("actor after follow = %+v", actor)
	}

	if err := g.Unfollow(ctx, bob.Id, alice.Id); err != nil {
		t.Fatalf("Unfollow() got error: %v", err)
	}
	if err := g.Unfollow(ctx, bob.Id, alice.Id); !errors.Is(err, ErrNotFollowing) {
		t.Fatalf("second Unfollow() = %v, want ErrNotFollowing", err)
	}
	if err := g.Follow(ctx, "missing-"+bob.Id, alice.Id); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("Follow(missing) = %v, want ErrUserNotFound", err)
	}

	subject, _ = g.GetUser(ctx, bob.Id)
	if subject.FollowerCount != 0 || len(subject.Followers) != 0 {
		t.Fatalf("subject after unfollow = %+v", subject)
	}
}

func TestGraphPostLifecycle(t *testing.T) {
	g := newGraph(t)
	ctx := context.Background()

	alice := graphUser(t, g, "alice")
	bob := graphUser(t, g, "bob")

	post, err := g.CreatePost(ctx, model.Post{CreatedBy: model.Ref(alice.Id), Caption: "hello #graph"})
	if err != nil {
		t.Fatalf("CreatePost() got error: %v", err)
	}
	if post.CreatedBy.User == nil || post.CreatedBy.User.Username != alice.Username || len(post.Comments) != 0 {
		t.Fatalf("CreatePost() = %+v", post)
	}

	if count, err := g.LikePost(ctx, post.Id); err != nil || count != 1 {
		t.Fatalf("LikePost() = %d, %v", count, err)
	}
	if _, err := g.AddComment(ctx, post.Id, bob.Id, " nice "); err != nil {
		t.Fatalf("AddComment() got error: %v", err)
	}

	if err := g.Follow(ctx, alice.Id, bob.Id); err != nil {
		t.Fatal(err)
	}
	feed, err := g.FeedPosts(ctx, bob.Id, 10)
	if err != nil || len(feed) != 1 {
		t.Fatalf("FeedPosts() = %d posts, %v", len(feed), err)
	}
	if c := feed[0].Comments; len(c) != 1 || c[0].Text != "nice" || c[0].User.Id != bob.Id {
		t.Fatalf("comments = %+v", c)
	}

	if err := g.DeletePost(ctx, post.Id, bob.Id); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("DeletePost() by another user = %v, want ErrNotAuthor", err)
	}
	if err := g.DeletePost(ctx, post.Id, alice.Id); err != nil {
		t.Fatalf("DeletePost() got error: %v", err)
	}
	if _, err := g.GetPost(ctx, post.Id); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("GetPost() after delete = %v, want ErrPostNotFound", err)
	}
}
