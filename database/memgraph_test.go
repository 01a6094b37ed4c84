package database

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// userCollect and recountPair are appended after CREATE, SET or DELETE
// clauses, an OPTIONAL MATCH may not follow those without a WITH
func TestQueryFragments(t *testing.T) {
	for name, tt := range map[string]struct {
		query  string
		prefix string
		suffix string
	}{
		"userCollect": {userCollect, "WITH u\n", "AS followings"},
		"postCollect": {postCollect, "OPTIONAL MATCH (p)", "RETURN p, a, comments"},
		"recountPair": {recountPair, "WITH s, a\n", ";"},
	} {
		query := strings.TrimLeft(tt.query, "\n")
		if !strings.HasPrefix(query, tt.prefix) {
			t.Errorf("%s starts with %q, want %q", name, strings.SplitN(query, "\n", 2)[0], tt.prefix)
		}
		if !strings.HasSuffix(query, tt.suffix) {
			t.Errorf("%s does not end with %q", name, tt.suffix)
		}
	}

	// a post is created with WITH a, p, every other caller MATCHes both
	if strings.Contains(postCollect, "MATCH (a") {
		t.Error("postCollect must reuse the matched author a")
	}

	// ORDER BY must follow the RETURN of postCollect
	if !strings.HasPrefix(newestFirst, " ORDER BY p.createdAt DESC") {
		t.Errorf("newestFirst = %q", newestFirst)
	}
}

func TestToUser(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	record := &neo4j.Record{
		Keys: []string{"u", "followers", "followings"},
		Values: []any{
			neo4j.Node{Props: map[string]any{
				"id":             "u1",
				"username":       "alice",
				"email":          "alice@example.com",
				"password":       "hash",
				"bio":            "hello",
				"followerCount":  int64(1),
				"followingCount": int64(0),
				"createdAt":      created.UnixMilli(),
			}},
			[]any{"u2"},
			[]any{},
		},
	}

	user := toUser(record)
	if user.Id != "u1" || user.Username != "alice" || user.Profile.Bio != "hello" {
		t.Fatalf("toUser() = %+v", user)
	}
	if user.Password != "" {
		t.Fatal("toUser() must not read the password hash")
	}
	if !reflect.DeepEqual(user.Followers, []string{"u2"}) || user.Followings == nil || len(user.Followings) != 0 {
		t.Fatalf("followers = %v, followings = %#v", user.Followers, user.Followings)
	}
	if user.FollowerCount != 1 || !user.CreatedAt.Equal(created) {
		t.Fatalf("count = %d, created = %v", user.FollowerCount, user.CreatedAt)
	}
}

func TestSingleUserMissing(t *testing.T) {
	if _, err := singleUser(nil); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("singleUser(nil) = %v, want ErrUserNotFound", err)
	}
}

func TestToPost(t *testing.T) {
	author := neo4j.Node{Props: map[string]any{"id": "u1", "username": "alice", "avatar": "a.png"}}
	record := &neo4j.Record{
		Keys: []string{"p", "a", "comments"},
		Values: []any{
			neo4j.Node{Props: map[string]any{
				"id":        "p1",
				"caption":   "hello #world",
				"media":     []any{"https://cdn.example.com/1.png"},
				"likeCount": int64(3),
				"createdAt": int64(1700000000000),
			}},
			author,
			[]any{
				map[string]any{
					"id":        "c1",
					"text":      "nice",
					"createdAt": int64(1700000001000),
					"user":      neo4j.Node{Props: map[string]any{"id": "u2", "username": "bob"}},
				},
				// a NULL entry is skipped
				nil,
			},
		},
	}

	post := toPost(record)
	if post.Id != "p1" || post.Caption != "hello #world" || post.LikeCount != 3 {
		t.Fatalf("toPost() = %+v", post)
	}
	if post.CreatedBy.Id != "u1" || post.CreatedBy.User == nil || post.CreatedBy.User.Profile.Avatar != "a.png" {
		t.Fatalf("author = %+v", post.CreatedBy)
	}
	if !reflect.DeepEqual(post.Media, []string{"https://cdn.example.com/1.png"}) {
		t.Fatalf("media = %v", post.Media)
	}
	if len(post.Comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(post.Comments))
	}

	comment := post.Comments[0]
	if comment.Id != "c1" || comment.User.Id != "u2" || comment.User.User.Username != "bob" {
		t.Fatalf("comment = %+v", comment)
	}
	if !comment.CreatedAt.Equal(time.UnixMilli(1700000001000)) {
		t.Fatalf("comment created at %v", comment.CreatedAt)
	}
}

func TestToPostWithoutComments(t *testing.T) {
	record := &neo4j.Record{
		Keys:   []string{"p", "a", "comments"},
		Values: []any{neo4j.Node{Props: map[string]any{"id": "p1"}}, nil, []any{}},
	}

	post := toPost(record)
	if post.Comments == nil || len(post.Comments) != 0 {
		t.Fatalf("comments = %#v, want empty list", post.Comments)
	}
	if post.Media == nil || len(post.Media) != 0 {
		t.Fatalf("media = %#v, want empty list", post.Media)
	}
	if post.CreatedBy.User != nil || !post.CreatedAt.IsZero() {
		t.Fatalf("post = %+v", post)
	}
}

func TestPropertyReaders(t *testing.T) {
	p := map[string]any{"s": "text", "i": int64(7), "f": 1.5, "ms": int64(0)}

	if str(p, "s") != "text" || str(p, "i") != "" || str(nil, "s") != "" {
		t.Error("str() mismatch")
	}
	if integer(p, "i") != 7 || integer(p, "f") != 0 {
		t.Error("integer() mismatch")
	}
	if !millis(p, "ms").Equal(time.UnixMilli(0)) || !millis(p, "missing").IsZero() {
		t.Error("millis() mismatch")
	}
	if got := stringList([]any{"a", int64(1), "b"}); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("stringList() = %v", got)
	}
	if props("node") != nil || summary(nil) != nil {
		t.Error("props() or summary() accepted a non map")
	}
	if got := nonNil(nil); got == nil {
		t.Error("nonNil(nil) = nil")
	}
}
