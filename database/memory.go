package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/omkar2711/mediaConnect-b7/helpers"
	"github.com/omkar2711/mediaConnect-b7/model"
)

type edge struct {
	actor   string
	subject string
}

type memPost struct {
	id        string
	author    string
	caption   string
	media     []string
	likes     int64
	comments  []memComment
	createdAt time.Time
}

type memComment struct {
	id        string
	author    string
	text      string
	createdAt time.Time
}

// Memory is a Store kept in process memory. It backs local runs
// without a graph database and the tests. Every mutation holds the
// write lock, so an edge and its counts change together.
type Memory struct {
	mu sync.RWMutex

	// Now is the clock used for creation times
	Now func() time.Time

	users   map[string]*model.User
	byName  map[string]string
	byEmail map[string]string
	edges   map[edge]time.Time
	posts   map[string]*memPost
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		Now:     time.Now,
		users:   make(map[string]*model.User),
		byName:  make(map[string]string),
		byEmail: make(map[string]string),
		edges:   make(map[edge]time.Time),
		posts:   make(map[string]*memPost),
	}
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (m *Memory) CreateUser(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byName[key(user.Username)]; ok {
		return model.User{}, ErrUserTaken
	}
	if _, ok := m.byEmail[key(user.Email)]; ok {
		return model.User{}, ErrUserTaken
	}
	if user.Id == "" {
		user.Id = helpers.GenerateUser()
	}
	if _, ok := m.users[user.Id]; ok {
		return model.User{}, ErrUserTaken
	}

	user.CreatedAt = m.Now().UTC()
	user.Followers, user.Followings = nil, nil
	user.FollowerCount, user.FollowingCount = 0, 0

	stored := user
	m.users[user.Id] = &stored
	m.byName[key(user.Username)] = user.Id
	m.byEmail[key(user.Email)] = user.Id

	return m.document(user.Id), nil
}

func (m *Memory) GetUser(_ context.Context, id string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.users[id]; !ok {
		return model.User{}, ErrUserNotFound
	}
	return m.document(id), nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byName[key(username)]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	user := m.document(id)
	user.Password = m.users[id].Password
	return user, nil
}

func (m *Memory) UpdateUser(_ context.Context, id string, update model.UpdateBody) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}

	if update.Username != nil && key(*update.Username) != key(user.Username) {
		if _, taken := m.byName[key(*update.Username)]; taken {
			return model.User{}, ErrUserTaken
		}
	}
	if update.Email != nil && key(*update.Email) != key(user.Email) {
		if _, taken := m.byEmail[key(*update.Email)]; taken {
			return model.User{}, ErrUserTaken
		}
	}

	if update.Username != nil {
		delete(m.byName, key(user.Username))
		user.Username = *update.Username
		m.byName[key(user.Username)] = id
	}
	if update.Email != nil {
		delete(m.byEmail, key(user.Email))
		user.Email = *update.Email
		m.byEmail[key(user.Email)] = id
	}
	if p := update.Profile; p != nil {
		if p.Avatar != nil {
			user.Profile.Avatar = *p.Avatar
		}
		if p.FirstName != nil {
			user.Profile.FirstName = *p.FirstName
		}
		if p.LastName != nil {
			user.Profile.LastName = *p.LastName
		}
		if p.Bio != nil {
			user.Profile.Bio = *p.Bio
		}
	}

	return m.document(id), nil
}

func (m *Memory) Follow(_ context.Context, subjectID, actorID string) error {
	if err := checkPair(subjectID, actorID, ErrSelfFollow); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.bothExist(subjectID, actorID); err != nil {
		return err
	}
	e := edge{actor: actorID, subject: subjectID}
	if _, ok := m.edges[e]; ok {
		return ErrAlreadyFollowing
	}

	m.edges[e] = m.Now().UTC()
	m.recount(subjectID)
	m.recount(actorID)
	return nil
}

func (m *Memory) Unfollow(_ context.Context, subjectID, actorID string) error {
	if err := checkPair(subjectID, actorID, ErrSelfUnfollow); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.bothExist(subjectID, actorID); err != nil {
		return err
	}
	e := edge{actor: actorID, subject: subjectID}
	if _, ok := m.edges[e]; !ok {
		return ErrNotFollowing
	}

	delete(m.edges, e)
	m.recount(subjectID)
	m.recount(actorID)
	return nil
}

func (m *Memory) Suggestions(_ context.Context, actorID string, limit int) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.users[actorID]; !ok {
		return nil, ErrUserNotFound
	}

	candidates := make([]*model.User, 0, len(m.users))
	for id, user := range m.users {
		if id == actorID {
			continue
		}
		if _, following := m.edges[edge{actor: actorID, subject: id}]; following {
			continue
		}
		candidates = append(candidates, user)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].FollowerCount != candidates[j].FollowerCount {
			return candidates[i].FollowerCount > candidates[j].FollowerCount
		}
		return candidates[i].Username < candidates[j].Username
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	list := make([]model.User, 0, len(candidates))
	for _, user := range candidates {
		list = append(list, m.document(user.Id))
	}
	return list, nil
}

func (m *Memory) RecountFollows(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	repaired := 0
	for id, user := range m.users {
		followers, following := user.FollowerCount, user.FollowingCount
		m.recount(id)
		if user.FollowerCount != followers || user.FollowingCount != following {
			repaired++
		}
	}
	return repaired, nil
}

func (m *Memory) CreatePost(_ context.Context, post model.Post) (model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[post.CreatedBy.Id]; !ok {
		return model.Post{}, ErrUserNotFound
	}

	p := &memPost{
		id:        helpers.Generate(),
		author:    post.CreatedBy.Id,
		caption:   post.Caption,
		media:     append([]string{}, post.Media...),
		createdAt: m.Now().UTC(),
	}
	m.posts[p.id] = p

	return m.post(p), nil
}

func (m *Memory) GetPost(_ context.Context, id string) (model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return model.Post{}, ErrPostNotFound
	}
	return m.post(p), nil
}

func (m *Memory) UpdatePost(_ context.Context, id, authorID string, update model.PostUpdate) (model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return model.Post{}, ErrPostNotFound
	}
	if p.author != authorID {
		return model.Post{}, ErrNotAuthor
	}

	if update.Caption != nil {
		p.caption = *update.Caption
	}
	if update.Media != nil {
		p.media = append([]string{}, update.Media...)
	}
	return m.post(p), nil
}

func (m *Memory) DeletePost(_ context.Context, id, authorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	if p.author != authorID {
		return ErrNotAuthor
	}
	delete(m.posts, id)
	return nil
}

func (m *Memory) ListPosts(_ context.Context) ([]model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.collect(func(*memPost) bool { return true }, 0), nil
}

func (m *Memory) UserPosts(_ context.Context, userID string) ([]model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.users[userID]; !ok {
		return nil, ErrUserNotFound
	}
	return m.collect(func(p *memPost) bool { return p.author == userID }, 0), nil
}

func (m *Memory) FeedPosts(_ context.Context, viewerID string, limit int) ([]model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.users[viewerID]; !ok {
		return nil, ErrUserNotFound
	}
	return m.collect(func(p *memPost) bool {
		if p.author == viewerID {
			return true
		}
		_, following := m.edges[edge{actor: viewerID, subject: p.author}]
		return following
	}, limit), nil
}

func (m *Memory) LikePost(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return 0, ErrPostNotFound
	}
	p.likes++
	return p.likes, nil
}

func (m *Memory) AddComment(_ context.Context, postID, authorID, text string) (model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Comment{}, ErrEmptyComment
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postID]
	if !ok {
		return model.Comment{}, ErrPostNotFound
	}
	if _, ok := m.users[authorID]; !ok {
		return model.Comment{}, ErrUserNotFound
	}

	c := memComment{
		id:        helpers.Generate(),
		author:    authorID,
		text:      text,
		createdAt: m.Now().UTC(),
	}
	p.comments = append(p.comments, c)

	return m.comment(c), nil
}

func (m *Memory) Close(context.Context) error {
	return nil
}

func (m *Memory) bothExist(subjectID, actorID string) error {
	if _, ok := m.users[subjectID]; !ok {
		return ErrUserNotFound
	}
	if _, ok := m.users[actorID]; !ok {
		return ErrUserNotFound
	}
	return nil
}

// recount writes the denormalized counts of a user from its edges
func (m *Memory) recount(id string) {
	user := m.users[id]
	user.FollowerCount = int64(len(m.related(id, true)))
	user.FollowingCount = int64(len(m.related(id, false)))
}

// related lists the followers (incoming) or followings of a user,
// oldest edge first
func (m *Memory) related(id string, incoming bool) []string {
	type entry struct {
		id    string
		since time.Time
	}

	entries := make([]entry, 0)
	for e, since := range m.edges {
		if incoming && e.subject == id {
			entries = append(entries, entry{e.actor, since})
		} else if !incoming && e.actor == id {
			entries = append(entries, entry{e.subject, since})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].since.Equal(entries[j].since) {
			return entries[i].since.Before(entries[j].since)
		}
		return entries[i].id < entries[j].id
	})

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.id)
	}
	return ids
}

// document builds the public user document, password excluded
func (m *Memory) document(id string) model.User {
	user := *m.users[id]
	user.Password = ""
	user.Followers = m.related(id, true)
	user.Followings = m.related(id, false)
	return user
}

func (m *Memory) author(id string) model.AuthorRef {
	if user, ok := m.users[id]; ok {
		return model.Populated(user.Summary())
	}
	return model.Ref(id)
}

func (m *Memory) comment(c memComment) model.Comment {
	return model.Comment{
		Id:        c.id,
		User:      m.author(c.author),
		Text:      c.text,
		CreatedAt: c.createdAt,
	}
}

func (m *Memory) post(p *memPost) model.Post {
	comments := make([]model.Comment, 0, len(p.comments))
	for _, c := range p.comments {
		comments = append(comments, m.comment(c))
	}

	return model.Post{
		Id:        p.id,
		CreatedBy: m.author(p.author),
		Caption:   p.caption,
		Media:     append([]string{}, p.media...),
		LikeCount: p.likes,
		Comments:  comments,
		CreatedAt: p.createdAt,
	}
}

// collect returns matching posts newest first
func (m *Memory) collect(match func(*memPost) bool, limit int) []model.Post {
	selected := make([]*memPost, 0)
	for _, p := range m.posts {
		if match(p) {
			selected = append(selected, p)
		}
	}
	sort.Slice(selected, func(i, j int) bool {
		if !selected[i].createdAt.Equal(selected[j].createdAt) {
			return selected[i].createdAt.After(selected[j].createdAt)
		}
		return selected[i].id > selected[j].id
	})
	if limit > 0 && len(selected) > limit {
		selected = selected[:limit]
	}

	list := make([]model.Post, 0, len(selected))
	for _, p := range selected {
		list = append(list, m.post(p))
	}
	return list
}
