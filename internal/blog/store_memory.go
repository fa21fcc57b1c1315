package blog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"recordhub/pkg/domain"
	"recordhub/pkg/platform/sentinel"
)

// InMemoryStore holds the three related collections behind one RWMutex so
// creation-time referential checks and cascading deletes are atomic across
// collections. The blog domain's deletion policy is cascading hard delete:
// removing a user removes their posts and comments, and comments on those
// posts; removing a post removes its comments.
type InMemoryStore struct {
	mu           sync.RWMutex
	users        map[domain.UserID]*User
	posts        map[domain.PostID]*Post
	comments     map[domain.CommentID]*Comment
	userOrder    []domain.UserID
	postOrder    []domain.PostID
	commentOrder []domain.CommentID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:    make(map[domain.UserID]*User),
		posts:    make(map[domain.PostID]*Post),
		comments: make(map[domain.CommentID]*Comment),
	}
}

// CreateUser stores the user if its email is not taken by a stored user.
func (s *InMemoryStore) CreateUser(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return fmt.Errorf("email: %w", sentinel.ErrAlreadyUsed)
		}
	}
	s.users[user.ID] = user
	s.userOrder = append(s.userOrder, user.ID)
	return nil
}

func (s *InMemoryStore) FindUser(_ context.Context, id domain.UserID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

// UpdateUser merges a pre-validated patch under the lock, re-checking email
// uniqueness against the other stored users. Nothing changes on conflict.
func (s *InMemoryStore) UpdateUser(_ context.Context, id domain.UserID, patch UserPatch, now time.Time) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if patch.Email != nil {
		addr, err := domain.ParseEmailAddress(*patch.Email)
		if err != nil {
			return nil, err
		}
		for otherID, other := range s.users {
			if otherID != id && other.Email == addr {
				return nil, fmt.Errorf("email: %w", sentinel.ErrAlreadyUsed)
			}
		}
	}
	patch.apply(u, now)
	copied := *u
	return &copied, nil
}

// DeleteUser removes the user and cascades: the user's posts, comments on
// those posts, and the user's own comments elsewhere all go. Returns the
// pre-deletion snapshot.
func (s *InMemoryStore) DeleteUser(_ context.Context, id domain.UserID) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	snapshot := *u
	delete(s.users, id)
	s.userOrder = removeID(s.userOrder, id)

	for postID, post := range s.posts {
		if post.AuthorID == id {
			s.removePostLocked(postID)
		}
	}
	for commentID, comment := range s.comments {
		if comment.AuthorID == id {
			delete(s.comments, commentID)
			s.commentOrder = removeID(s.commentOrder, commentID)
		}
	}
	return &snapshot, nil
}

func (s *InMemoryStore) ListUsers(_ context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*User
	for _, id := range s.userOrder {
		copied := *s.users[id]
		out = append(out, &copied)
	}
	return out, nil
}

// CreatePost stores the post if its author exists at this moment. The check
// and the insert share the lock, so a concurrent user deletion cannot slip
// between them.
func (s *InMemoryStore) CreatePost(_ context.Context, post *Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[post.AuthorID]; !ok {
		return fmt.Errorf("author: %w", sentinel.ErrNotFound)
	}
	s.posts[post.ID] = post
	s.postOrder = append(s.postOrder, post.ID)
	return nil
}

func (s *InMemoryStore) FindPost(_ context.Context, id domain.PostID) (*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

// DeletePost removes the post and cascades to its comments.
func (s *InMemoryStore) DeletePost(_ context.Context, id domain.PostID) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	snapshot := *p
	s.removePostLocked(id)
	return &snapshot, nil
}

// ListPosts returns posts in insertion order, optionally restricted to one
// author.
func (s *InMemoryStore) ListPosts(_ context.Context, authorID *domain.UserID) ([]*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Post
	for _, id := range s.postOrder {
		p := s.posts[id]
		if authorID != nil && p.AuthorID != *authorID {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

// CreateComment stores the comment if both referenced records exist.
func (s *InMemoryStore) CreateComment(_ context.Context, comment *Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[comment.PostID]; !ok {
		return fmt.Errorf("post: %w", sentinel.ErrNotFound)
	}
	if _, ok := s.users[comment.AuthorID]; !ok {
		return fmt.Errorf("author: %w", sentinel.ErrNotFound)
	}
	s.comments[comment.ID] = comment
	s.commentOrder = append(s.commentOrder, comment.ID)
	return nil
}

// ListComments returns comments in insertion order, optionally restricted to
// one post.
func (s *InMemoryStore) ListComments(_ context.Context, postID *domain.PostID) ([]*Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Comment
	for _, id := range s.commentOrder {
		c := s.comments[id]
		if postID != nil && c.PostID != *postID {
			continue
		}
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

// Counts reports stored record counts for the health endpoint.
func (s *InMemoryStore) Counts(_ context.Context) (users, posts, comments int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.userOrder), len(s.postOrder), len(s.commentOrder)
}

// removePostLocked removes a post and its comments. Caller holds the write
// lock.
func (s *InMemoryStore) removePostLocked(id domain.PostID) {
	delete(s.posts, id)
	s.postOrder = removeID(s.postOrder, id)
	for commentID, comment := range s.comments {
		if comment.PostID == id {
			delete(s.comments, commentID)
			s.commentOrder = removeID(s.commentOrder, commentID)
		}
	}
}

func removeID[T comparable](order []T, id T) []T {
	for i, oid := range order {
		if oid == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
