package database

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/omkar2711/mediaConnect-b7/helpers"
	"github.com/omkar2711/mediaConnect-b7/model"
)

// Graph is the Store backed by a Neo4j/Memgraph database.
// A follow is a single (actor)-[:Subscriber]->(subject) edge, posts
// hang off (author)-[:Create]->(post) and comments are
// (user)-[:Wrote]->(comment)-[:Comment]->(post).
type Graph struct {
	driver neo4j.DriverWithContext
}

// userCollect gathers follower and following ids of the matched u
const userCollect = `
WITH u
OPTIONAL MATCH (f:User)-[fs:Subscriber]->(u)
WITH u, f, fs ORDER BY fs.since, f.id
WITH u, collect(f.id) AS followers
OPTIONAL MATCH (u)-[gs:Subscriber]->(g:User)
WITH u, followers, g, gs ORDER BY gs.since, g.id
WITH u, followers, collect(g.id) AS followings`

// postCollect gathers the comments of the matched (a)-[:Create]->(p)
const postCollect = `
OPTIONAL MATCH (p)<-[:Comment]-(c:Comment)<-[:Wrote]-(cu:User)
WITH a, p, c, cu ORDER BY c.createdAt, c.id
WITH a, p, collect(CASE WHEN c IS NULL THEN NULL ELSE {id: c.id, text: c.text, createdAt: c.createdAt, user: cu} END) AS comments
RETURN p, a, comments`

const newestFirst = " ORDER BY p.createdAt DESC, p.id DESC"

// NewGraph connects to the graph database and makes sure the schema
// constraints exist
func NewGraph(ctx context.Context, url, username, password string) (*Graph, error) {
	driver, err := neo4j.NewDriverWithContext(url, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	g := &Graph{driver: driver}
	g.ensureSchema(ctx)

	return g, nil
}

func (g *Graph) ensureSchema(ctx context.Context) {
	for _, query := range []string{
		"CREATE CONSTRAINT user_id IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
		"CREATE CONSTRAINT post_id IF NOT EXISTS FOR (p:Post) REQUIRE p.id IS UNIQUE",
		"CREATE CONSTRAINT comment_id IF NOT EXISTS FOR (c:Comment) REQUIRE c.id IS UNIQUE",
	} {
		if _, err := g.MakeRequest(ctx, query, nil); err != nil {
			log.Printf("(ensureSchema) %v", err)
		}
	}
}

func (g *Graph) write(ctx context.Context, work neo4j.ManagedTransactionWork) (any, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	return session.ExecuteWrite(ctx, work)
}

func (g *Graph) read(ctx context.Context, work neo4j.ManagedTransactionWork) (any, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	return session.ExecuteRead(ctx, work)
}

// MakeRequest is a simple way to send a query, it returns the first
// value of the first record
func (g *Graph) MakeRequest(ctx context.Context, query string, params map[string]any) (any, error) {
	return g.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return first(ctx, tx, query, params)
	})
}

func first(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) (any, error) {
	result, err := tx.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	if result.Next(ctx) {
		return result.Record().Values[0], nil
	}

	return nil, result.Err()
}

func collect(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) ([]*neo4j.Record, error) {
	result, err := tx.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	return result.Collect(ctx)
}

func (g *Graph) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	if user.Id == "" {
		user.Id = helpers.GenerateUser()
	}

	data, err := g.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		taken, err := first(ctx, tx,
			"MATCH (u:User) WHERE u.id = $id OR toLower(u.username) = toLower($username) OR toLower(u.email) = toLower($email) RETURN count(u);",
			map[string]any{"id": user.Id, "username": user.Username, "email": user.Email})
		if err != nil {
			return nil, err
		}
		if n, _ := taken.(int64); n > 0 {
			return nil, ErrUserTaken
		}

		records, err := collect(ctx, tx,
			"CREATE (u:User {id: $id, username: $username, email: $email, password: $password, avatar: $avatar, firstName: $firstName, lastName: $lastName, bio: $bio, followerCount: 0, followingCount: 0, createdAt: $createdAt})"+
				userCollect+" RETURN u, followers, followings;",
			map[string]any{
				"id":        user.Id,
				"username":  user.Username,
				"email":     user.Email,
				"password":  user.Password,
				"avatar":    user.Profile.Avatar,
				"firstName": user.Profile.FirstName,
				"lastName":  user.Profile.LastName,
				"bio":       user.Profile.Bio,
				"createdAt": time.Now().UTC().UnixMilli(),
			})
		if err != nil {
			return nil, err
		}

		return singleUser(records)
	})
	if err != nil {
		return model.User{}, err
	}

	return data.(model.User), nil
}

func (g *Graph) GetUser(ctx context.Context, id string) (model.User, error) {
	data, err := g.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := collect(ctx, tx,
			"MATCH (u:User {id: $id})"+userCollect+" RETURN u, followers, followings;",
			map[string]any{"id": id})
		if err != nil {
			return nil, err
		}

		return singleUser(records)
	})
	if err != nil {
		return model.User{}, err
	}

	return data.(model.User), nil
}

func (g *Graph) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	data, err := g.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := collect(ctx, tx,
			"MATCH (u:User) WHERE toLower(u.username) = toLower($username)"+userCollect+" RETURN u, followers, followings;",
			map[string]any{"username": username})
		if err != nil {
			return nil, err
		}

		user, err := singleUser(records)
		if err != nil {
			return nil, err
		}
		node, _ := records[0].Get("u")
		user.Password = str(props(node), "password")

		return user, nil
	})
	if err != nil {
		return model.User{}, err
	}

	return data.(model.User), nil
}

func (g *Graph) UpdateUser(ctx context.Context, id string, update model.UpdateBody) (model.User, error) {
	params := map[string]any{"id": id}
	var sets []string

	if update.Username != nil {
		sets = append(sets, "u.username = $username")
		params["username"] = *update.Username
	}
	if update.Email != nil {
		sets = append(sets, "u.email = $email")
		params["email"] = *update.Email
	}
	if p := update.Profile; p != nil {
		for name, value := range map[string]*string{
			"avatar":    p.Avatar,
			"firstName": p.FirstName,
			"lastName":  p.LastName,
			"bio":       p.Bio,
		} {
			if value != nil {
				sets = append(sets, "u."+name+" = $"+name)
				params[name] = *value
			}
		}
	}

	data, err := g.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		exists, err := first(ctx, tx, "MATCH (u:User {id: $id}) RETURN u.id;", params)
		if err != nil {
			return nil, err
		} else if exists == nil {
			return nil, ErrUserNotFound
		}

		if update.Username != nil || update.Email != nil {
			taken, err := first(ctx, tx,
				"MATCH (u:User) WHERE u.id <> $id AND (toLower(u.username) = toLower($username) OR toLower(u.email) = toLower($email)) RETURN count(u);",
				map[string]any{"id": id, "username": deref(update.Username), "email": deref(update.Email)})
			if err != nil {
				return nil, err
			}
			if n, _ := taken.(int64); n > 0 {
				return nil, ErrUserTaken
			}
		}

		query := "MATCH (u:User {id: $id})"
		if len(sets) > 0 {
			query += " SET " + strings.Join(sets, ", ")
		}

		records, err := collect(ctx, tx, query+userCollect+" RETURN u, followers, followings;", params)
		if err != nil {
			return nil, err
		}

		return singleUser(records)
	})
	if err != nil {
		return model.User{}, err
	}

	return data.(model.User), nil
}

// relation checks both users and returns whether actor already
// follows subject
func relation(ctx context.Context, tx neo4j.ManagedTransaction, subjectID, actorID string) (bool, error) {
	result, err := tx.Run(ctx,
		"MATCH (s:User {id: $subject}) MATCH (a:User {id: $actor}) OPTIONAL MATCH (a)-[r:Subscriber]->(s) RETURN s.id, count(r);",
		map[string]any{"subject": subjectID, "actor": actorID})
	if err != nil {
		return false, err
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return false, err
		}
		return false, ErrUserNotFound
	}

	count, _ := result.Record().Values[1].(int64)
	return count > 0, nil
}

// recountPair rewrites the denormalized counts of both ends of an edge
const recountPair = `
WITH s, a
OPTIONAL MATCH (x:User)-[:Subscriber]->(s)
WITH s, a, count(x) AS followers
SET s.followerCount = followers
WITH a
OPTIONAL MATCH (a)-[:Subscriber]->(y:User)
WITH a, count(y) AS followings
SET a.followingCount = followings;`

func (g *Graph) Follow(ctx context.Context, subjectID, actorID string) error {
	if err := checkPair(subjectID, actorID, ErrSelfFollow); err != nil {
		return err
	}

	_, err := g.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		following, err := relation(ctx, tx, subjectID, actorID)
		if err != nil {
			return nil, err
		} else if following {
			return nil, ErrAlreadyFollowing
		}

		result, err := tx.Run(ctx,
			"MATCH (s:User {id: $subject}), (a:User {id: $actor}) MERGE (a)-[r:Subscriber]->(s) ON CREATE SET r.since = $since"+recountPair,
			map[string]any{"subject": subjectID, "actor": actorID, "since": time.Now().UTC().UnixMilli()})
		if err != nil {
			return nil, err
		}

		return result.Consume(ctx)
	})

	return err
}

func (g *Graph) Unfollow(ctx context.Context, subjectID, actorID string) error {
	if err := checkPair(subjectID, actorID, ErrSelfUnfollow); err != nil {
		return err
	}

	_, err := g.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		following, err := relation(ctx, tx, subjectID, actorID)
		if err != nil {
			return nil, err
		} else if !following {
			return nil, ErrNotFollowing
		}

		result, err := tx.Run(ctx,
			"MATCH (a:User {id: $actor})-[r:Subscriber]->(s:User {id: $subject}) DELETE r"+recountPair,
			map[string]any{"subject": subjectID, "actor": actorID})
		if err != nil {
			return nil, err
		}

		return result.Consume(ctx)
	})

	return err
}

func (g *Graph) Suggestions(ctx context.Context, actorID string, limit int) ([]model.User, error) {
	data, err := g.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		exists, err := first(ctx, tx, "MATCH (u:User {id: $id}) RETURN u.id;", map[string]any{"id": actorID})
		if err != nil {
			return nil, err
		} else if exists == nil {
			return nil, ErrUserNotFound
		}

		records, err := collect(ctx, tx,
			"MATCH (me:User {id: $id}) MATCH (u:User) WHERE u.id <> me.id AND NOT (me)-[:Subscriber]->(u) WITH u ORDER BY coalesce(u.followerCount, 0) DESC, u.username LIMIT $limit"+
				userCollect+" RETURN u, followers, followings ORDER BY coalesce(u.followerCount, 0) DESC, u.username;",
			map[string]any{"id": actorID, "limit": int64(limit)})
		if err != nil {
			return nil, err
		}

		list := make([]model.User, 0, len(records))
		for _, record := range records {
			list = append(list, toUser(record))
		}

		return list, nil
	})
	if err != nil {
		return nil, err
	}

	return data.([]model.User), nil
}

func (g *Graph) RecountFollows(ctx context.Context) (int, error) {
	res, err := g.MakeRequest(ctx,
		`MATCH (u:User)
OPTIONAL MATCH (x:User)-[:Subscriber]->(u)
WITH u, count(x) AS followers
OPTIONAL MATCH (u)-[:Subscriber]->(y:User)
WITH u, followers, count(y) AS followings
WHERE coalesce(u.followerCount, -1) <> followers OR coalesce(u.followingCount, -1) <> followings
SET u.followerCount = followers, u.followingCount = followings
RETURN count(u);`, nil)
	if err != nil {
		return 0, err
	}

	repaired, _ := res.(int64)
	return int(repaired), nil
}

func (g *Graph) CreatePost(ctx context.Context, post model.Post) (model.Post, error) {
	data, err := g.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := collect(ctx, tx,
			"MATCH (a:User {id: $author}) CREATE (a)-[:Create]->(p:Post {id: $id, caption: $caption, media: $media, likeCount: 0, createdAt: $createdAt}) WITH a, p"+postCollect+";",
			map[string]any{
				"author":    post.CreatedBy.Id,
				"id":        helpers.Generate(),
				"caption":   post.Caption,
				"media":     nonNil(post.Media),
				"createdAt": time.Now().UTC().UnixMilli(),
			})
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, ErrUserNotFound
		}

		return toPost(records[0]), nil
	})
	if err != nil {
		return model.Post{}, err
	}

	return data.(model.Post), nil
}

func (g *Graph) GetPost(ctx context.Context, id string) (model.Post, error) {
	data, err := g.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return onePost(ctx, tx, id)
	})
	if err != nil {
		return model.Post{}, err
	}

	return data.(model.Post), nil
}

func onePost(ctx context.Context, tx neo4j.ManagedTransaction, id string) (model.Post, error) {
	records, err := collect(ctx, tx,
		"MATCH (a:User)-[:Create]->(p:Post {id: $id})"+postCollect+";",
		map[string]any{"id": id})
	if err != nil {
		return model.Post{}, err
	}
	if len(records) == 0 {
		return model.Post{}, ErrPostNotFound
	}

	return toPost(records[0]), nil
}

// checkAuthor fails unless the post exists and was created by authorID
func checkAuthor(ctx context.Context, tx neo4j.ManagedTransaction, id, authorID string) error {
	author, err := first(ctx, tx,
		"MATCH (a:User)-[:Create]->(p:Post {id: $id}) RETURN a.id;",
		map[string]any{"id": id})
	if err != nil {
		return err
	} else if author == nil {
		return ErrPostNotFound
	} else if author.(string) != authorID {
		return ErrNotAuthor
	}

	return nil
}

func (g *Graph) UpdatePost(ctx context.Context, id, authorID string, update model.PostUpdate) (model.Post, error) {
	data, err := g.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := checkAuthor(ctx, tx, id, authorID); err != nil {
			return nil, err
		}

		var caption, media any
		if update.Caption != nil {
			caption = *update.Caption
		}
		if update.Media != nil {
			media = update.Media
		}

		result, err := tx.Run(ctx,
			"MATCH (p:Post {id: $id}) SET p.caption = coalesce($caption, p.caption), p.media = coalesce($media, p.media);",
			map[string]any{"id": id, "caption": caption, "media": media})
		if err != nil {
			return nil, err
		}
		if _, err := result.Consume(ctx); err != nil {
			return nil, err
		}

		return onePost(ctx, tx, id)
	})
	if err != nil {
		return model.Post{}, err
	}

	return data.(model.Post), nil
}

func (g *Graph) DeletePost(ctx context.Context, id, authorID string) error {
	_, err := g.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := checkAuthor(ctx, tx, id, authorID); err != nil {
			return nil, err
		}

		result, err := tx.Run(ctx,
			"MATCH (p:Post {id: $id}) OPTIONAL MATCH (p)<-[:Comment]-(c:Comment) DETACH DELETE c, p;",
			map[string]any{"id": id})
		if err != nil {
			return nil, err
		}

		return result.Consume(ctx)
	})

	return err
}

func (g *Graph) posts(ctx context.Context, query string, params map[string]any) ([]model.Post, error) {
	data, err := g.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := collect(ctx, tx, query, params)
		if err != nil {
			return nil, err
		}

		list := make([]model.Post, 0, len(records))
		for _, record := range records {
			list = append(list, toPost(record))
		}

		return list, nil
	})
	if err != nil {
		return nil, err
	}

	return data.([]model.Post), nil
}

func (g *Graph) ListPosts(ctx context.Context) ([]model.Post, error) {
	return g.posts(ctx, "MATCH (a:User)-[:Create]->(p:Post)"+postCollect+newestFirst+";", nil)
}

func (g *Graph) UserPosts(ctx context.Context, userID string) ([]model.Post, error) {
	if _, err := g.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	return g.posts(ctx,
		"MATCH (a:User {id: $id})-[:Create]->(p:Post)"+postCollect+newestFirst+";",
		map[string]any{"id": userID})
}

func (g *Graph) FeedPosts(ctx context.Context, viewerID string, limit int) ([]model.Post, error) {
	if _, err := g.GetUser(ctx, viewerID); err != nil {
		return nil, err
	}

	query := "MATCH (v:User {id: $id}) MATCH (a:User)-[:Create]->(p:Post) WHERE a = v OR (v)-[:Subscriber]->(a) WITH a, p" +
		postCollect + newestFirst
	if limit > 0 {
		query += " LIMIT $limit"
	}

	return g.posts(ctx, query+";", map[string]any{"id": viewerID, "limit": int64(limit)})
}

func (g *Graph) LikePost(ctx context.Context, id string) (int64, error) {
	res, err := g.MakeRequest(ctx,
		"MATCH (p:Post {id: $id}) SET p.likeCount = coalesce(p.likeCount, 0) + 1 RETURN p.likeCount;",
		map[string]any{"id": id})
	if err != nil {
		return 0, err
	} else if res == nil {
		return 0, ErrPostNotFound
	}

	return res.(int64), nil
}

func (g *Graph) AddComment(ctx context.Context, postID, authorID, text string) (model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Comment{}, ErrEmptyComment
	}

	data, err := g.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		post, err := first(ctx, tx, "MATCH (p:Post {id: $id}) RETURN p.id;", map[string]any{"id": postID})
		if err != nil {
			return nil, err
		} else if post == nil {
			return nil, ErrPostNotFound
		}

		records, err := collect(ctx, tx,
			"MATCH (p:Post {id: $post}) MATCH (u:User {id: $user}) CREATE (c:Comment {id: $id, text: $text, createdAt: $createdAt}) CREATE (c)-[:Comment]->(p) CREATE (u)-[:Wrote]->(c) RETURN c, u;",
			map[string]any{
				"post":      postID,
				"user":      authorID,
				"id":        helpers.Generate(),
				"text":      text,
				"createdAt": time.Now().UTC().UnixMilli(),
			})
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, ErrUserNotFound
		}

		c, _ := records[0].Get("c")
		u, _ := records[0].Get("u")
		comment := props(c)

		return model.Comment{
			Id:        str(comment, "id"),
			User:      model.Populated(summary(props(u))),
			Text:      str(comment, "text"),
			CreatedAt: millis(comment, "createdAt"),
		}, nil
	})
	if err != nil {
		return model.Comment{}, err
	}

	return data.(model.Comment), nil
}

func (g *Graph) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

func singleUser(records []*neo4j.Record) (model.User, error) {
	if len(records) == 0 {
		return model.User{}, ErrUserNotFound
	}

	return toUser(records[0]), nil
}

func toUser(record *neo4j.Record) model.User {
	node, _ := record.Get("u")
	followers, _ := record.Get("followers")
	followings, _ := record.Get("followings")
	p := props(node)

	return model.User{
		Id:       str(p, "id"),
		Username: str(p, "username"),
		Email:    str(p, "email"),
		Profile: model.Profile{
			Avatar:    str(p, "avatar"),
			FirstName: str(p, "firstName"),
			LastName:  str(p, "lastName"),
			Bio:       str(p, "bio"),
		},
		Followers:      stringList(followers),
		Followings:     stringList(followings),
		FollowerCount:  integer(p, "followerCount"),
		FollowingCount: integer(p, "followingCount"),
		CreatedAt:      millis(p, "createdAt"),
	}
}

func summary(p map[string]any) *model.UserSummary {
	if p == nil {
		return nil
	}

	return &model.UserSummary{
		Id:       str(p, "id"),
		Username: str(p, "username"),
		Profile: model.Profile{
			Avatar:    str(p, "avatar"),
			FirstName: str(p, "firstName"),
			LastName:  str(p, "lastName"),
			Bio:       str(p, "bio"),
		},
	}
}

func toPost(record *neo4j.Record) model.Post {
	node, _ := record.Get("p")
	author, _ := record.Get("a")
	raw, _ := record.Get("comments")
	p := props(node)

	comments := make([]model.Comment, 0)
	if list, ok := raw.([]any); ok {
		for _, item := range list {
			c := props(item)
			if c == nil {
				continue
			}
			comments = append(comments, model.Comment{
				Id:        str(c, "id"),
				User:      model.Populated(summary(props(c["user"]))),
				Text:      str(c, "text"),
				CreatedAt: millis(c, "createdAt"),
			})
		}
	}

	return model.Post{
		Id:        str(p, "id"),
		CreatedBy: model.Populated(summary(props(author))),
		Caption:   str(p, "caption"),
		Media:     stringList(p["media"]),
		LikeCount: integer(p, "likeCount"),
		Comments:  comments,
		CreatedAt: millis(p, "createdAt"),
	}
}

func props(v any) map[string]any {
	switch value := v.(type) {
	case neo4j.Node:
		return value.Props
	case map[string]any:
		return value
	}

	return nil
}

func str(p map[string]any, k string) string {
	s, _ := p[k].(string)
	return s
}

func integer(p map[string]any, k string) int64 {
	i, _ := p[k].(int64)
	return i
}

func millis(p map[string]any, k string) time.Time {
	ms, ok := p[k].(int64)
	if !ok {
		return time.Time{}
	}

	return time.UnixMilli(ms).UTC()
}

func stringList(v any) []string {
	list := make([]string, 0)
	items, _ := v.([]any)
	for _, item := range items {
		if s, ok := item.(string); ok {
			list = append(list, s)
		}
	}

	return list
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}

	return list
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
