package handlers

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/vaughan-dsouza/BeSocial/internal/models"
	"github.com/vaughan-dsouza/BeSocial/internal/store"
)

type likeKey struct{ post, user int64 }

// memStore is an in-memory Store. Like the database, it keeps at most one
// like per (post, user) pair.
type memStore struct {
	mu sync.Mutex

	nextID   int64
	clock    time.Time
	users    map[int64]models.User
	posts    map[int64]models.Post
	comments map[int64]models.Comment
	likes    map[likeKey]models.Like
	tokens   map[string]int64

	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		clock:    time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
		users:    map[int64]models.User{},
		posts:    map[int64]models.Post{},
		comments: map[int64]models.Comment{},
		likes:    map[likeKey]models.Like{},
		tokens:   map[string]int64{},
	}
}

// tick hands out strictly increasing ids and timestamps.
func (m *memStore) tick() (int64, time.Time) {
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	return m.nextID, m.clock
}

func (m *memStore) Ping(ctx context.Context) error { return m.failWith }

// ---- users & tokens ----

func (m *memStore) CreateUser(ctx context.Context, username, email, hash string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.User{}, m.failWith
	}
	for _, u := range m.users {
		if u.Username == username {
			return models.User{}, store.ErrDuplicate
		}
	}
	id, now := m.tick()
	u := models.User{ID: id, Username: username, Email: email, Password: hash, CreatedAt: now}
	m.users[id] = u
	return u, nil
}

func (m *memStore) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m *memStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (m *memStore) SaveRefreshToken(ctx context.Context, userID int64, token string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = userID
	return nil
}

func (m *memStore) RotateRefreshToken(ctx context.Context, userID int64, oldToken, newToken string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if owner, ok := m.tokens[oldToken]; !ok || owner != userID {
		return store.ErrNotFound
	}
	delete(m.tokens, oldToken)
	m.tokens[newToken] = userID
	return nil
}

func (m *memStore) DeleteRefreshToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

// ---- posts ----

// hydrate fills the derived fields. Callers hold mu.
func (m *memStore) hydrate(p models.Post) models.Post {
	p.Author = m.users[p.AuthorID].Summary()
	p.LikesCount = 0
	for k := range m.likes {
		if k.post == p.ID {
			p.LikesCount++
		}
	}
	p.Comments = []models.Comment{}
	for _, c := range m.sortedComments() {
		if c.PostID == p.ID {
			p.Comments = append(p.Comments, c)
		}
	}
	return p
}

func (m *memStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	posts := []models.Post{}
	for _, p := range m.posts {
		posts = append(posts, m.hydrate(p))
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (m *memStore) GetPost(ctx context.Context, id int64) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.Post{}, m.failWith
	}
	p, ok := m.posts[id]
	if !ok {
		return models.Post{}, store.ErrNotFound
	}
	return m.hydrate(p), nil
}

func (m *memStore) CreatePost(ctx context.Context, authorID int64, title, body string, image *string) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.Post{}, m.failWith
	}
	id, now := m.tick()
	p := models.Post{ID: id, AuthorID: authorID, Title: title, Body: body, Image: image, CreatedAt: now, UpdatedAt: now}
	m.posts[id] = p
	return m.hydrate(p), nil
}

func (m *memStore) UpdatePost(ctx context.Context, id int64, title, body string) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return models.Post{}, store.ErrNotFound
	}
	_, now := m.tick()
	p.Title, p.Body, p.UpdatedAt = title, body, now
	m.posts[id] = p
	return m.hydrate(p), nil
}

func (m *memStore) DeletePost(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.posts, id)
	for cid, c := range m.comments {
		if c.PostID == id {
			delete(m.comments, cid)
		}
	}
	for k := range m.likes {
		if k.post == id {
			delete(m.likes, k)
		}
	}
	return nil
}

// ---- comments ----

func (m *memStore) sortedComments() []models.Comment {
	out := make([]models.Comment, 0, len(m.comments))
	for _, c := range m.comments {
		c.Author = m.users[c.AuthorID].Summary()
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) CreateComment(ctx context.Context, postID, authorID int64, body string) (models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[postID]; !ok {
		return models.Comment{}, store.ErrNotFound
	}
	id, now := m.tick()
	c := models.Comment{ID: id, PostID: postID, AuthorID: authorID, Body: body, CreatedAt: now}
	m.comments[id] = c
	c.Author = m.users[authorID].Summary()
	return c, nil
}

func (m *memStore) ListComments(ctx context.Context) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedComments(), nil
}

func (m *memStore) GetComment(ctx context.Context, id int64) (models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return models.Comment{}, store.ErrNotFound
	}
	c.Author = m.users[c.AuthorID].Summary()
	return c, nil
}

func (m *memStore) UpdateComment(ctx context.Context, id int64, body string) (models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return models.Comment{}, store.ErrNotFound
	}
	c.Body = body
	m.comments[id] = c
	c.Author = m.users[c.AuthorID].Summary()
	return c, nil
}

func (m *memStore) DeleteComment(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

// ---- likes ----

func (m *memStore) ToggleLike(ctx context.Context, postID, userID int64) (models.ToggleResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.ToggleResult{}, m.failWith
	}
	if _, ok := m.posts[postID]; !ok {
		return models.ToggleResult{}, store.ErrNotFound
	}
	k := likeKey{postID, userID}
	if _, ok := m.likes[k]; ok {
		delete(m.likes, k)
		return models.ToggleResult{State: models.Unliked}, nil
	}
	id, now := m.tick()
	l := models.Like{ID: id, PostID: postID, UserID: userID, User: m.users[userID].Summary(), CreatedAt: now}
	m.likes[k] = l
	return models.ToggleResult{State: models.Liked, Like: &l}, nil
}

func (m *memStore) ListLikes(ctx context.Context) ([]models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	likes := []models.Like{}
	for _, l := range m.likes {
		likes = append(likes, l)
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].ID < likes[j].ID })
	return likes, nil
}

func (m *memStore) GetLike(ctx context.Context, id int64) (models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.likes {
		if l.ID == id {
			return l, nil
		}
	}
	return models.Like{}, store.ErrNotFound
}

func (m *memStore) likeCount(postID, userID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.likes[likeKey{postID, userID}]; ok {
		return 1
	}
	return 0
}

var errBoom = errors.New("connection refused")
