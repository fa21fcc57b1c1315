package blog

import (
	"context"
	"errors"
	"strings"
	"time"

	"recordhub/internal/platform/metrics"
	"recordhub/pkg/domain"
	dErrors "recordhub/pkg/domain-errors"
	"recordhub/pkg/platform/sentinel"
	"recordhub/pkg/requestcontext"
)

// Store is the persistence port for the blog domain.
type Store interface {
	ReadStore
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, id domain.UserID, patch UserPatch, now time.Time) (*User, error)
	DeleteUser(ctx context.Context, id domain.UserID) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	CreatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id domain.PostID) (*Post, error)
	CreateComment(ctx context.Context, comment *Comment) error
	Counts(ctx context.Context) (users, posts, comments int)
}

// Service orchestrates user/post/comment lifecycles and resolution.
type Service struct {
	store    Store
	resolver *Resolver
	metrics  *metrics.Metrics
}

func NewService(store Store, m *metrics.Metrics) *Service {
	return &Service{store: store, resolver: NewResolver(store), metrics: m}
}

// CreateUser validates and stores a new user. Email must be unique across
// stored users.
func (s *Service) CreateUser(ctx context.Context, name, email string, age *int) (*User, error) {
	user, err := NewUser(name, email, age, requestcontext.Now(ctx))
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordValidationFailure(metrics.DomainBlog)
		}
		return nil, err
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store user")
	}
	if s.metrics != nil {
		s.metrics.RecordCreated(metrics.DomainBlog)
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id domain.UserID, include Include) (*UserView, error) {
	user, err := s.store.FindUser(ctx, id)
	if err != nil {
		return nil, wrapBlogErr(err, "user not found")
	}
	return s.resolver.ResolveUser(ctx, user, include)
}

// UpdateUser merges the supplied fields. Only supplied fields are validated;
// the email uniqueness re-check happens inside the store's critical section.
func (s *Service) UpdateUser(ctx context.Context, id domain.UserID, patch UserPatch) (*User, error) {
	if err := patch.Validate(); err != nil {
		if s.metrics != nil {
			s.metrics.RecordValidationFailure(metrics.DomainBlog)
		}
		return nil, err
	}
	user, err := s.store.UpdateUser(ctx, id, patch, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, wrapBlogErr(err, "user not found")
	}
	return user, nil
}

// DeleteUser hard-deletes the user and cascades to dependent posts and
// comments. Returns the pre-deletion snapshot.
func (s *Service) DeleteUser(ctx context.Context, id domain.UserID) (*User, error) {
	user, err := s.store.DeleteUser(ctx, id)
	if err != nil {
		return nil, wrapBlogErr(err, "user not found")
	}
	if s.metrics != nil {
		s.metrics.RecordDeleted(metrics.DomainBlog)
	}
	return user, nil
}

// ListUsers returns users in insertion order, each with requested relations
// resolved.
func (s *Service) ListUsers(ctx context.Context, include Include) ([]*UserView, error) {
	if err := validateUserInclude(include); err != nil {
		return nil, err
	}
	start := time.Now()
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	if s.metrics != nil {
		s.metrics.ObserveSearch(metrics.DomainBlog, start)
	}
	views := make([]*UserView, 0, len(users))
	for _, u := range users {
		v, err := s.resolver.resolveUser(ctx, u, include)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// CreatePost validates and stores a new post. The author must exist at
// creation time.
func (s *Service) CreatePost(ctx context.Context, title, content string, authorID domain.UserID) (*Post, error) {
	post, err := NewPost(title, content, authorID, requestcontext.Now(ctx))
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordValidationFailure(metrics.DomainBlog)
		}
		return nil, err
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "author not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store post")
	}
	if s.metrics != nil {
		s.metrics.RecordCreated(metrics.DomainBlog)
	}
	return post, nil
}

func (s *Service) GetPost(ctx context.Context, id domain.PostID, include Include) (*PostView, error) {
	post, err := s.store.FindPost(ctx, id)
	if err != nil {
		return nil, wrapBlogErr(err, "post not found")
	}
	return s.resolver.ResolvePost(ctx, post, include)
}

// DeletePost hard-deletes the post and cascades to its comments.
func (s *Service) DeletePost(ctx context.Context, id domain.PostID) (*Post, error) {
	post, err := s.store.DeletePost(ctx, id)
	if err != nil {
		return nil, wrapBlogErr(err, "post not found")
	}
	if s.metrics != nil {
		s.metrics.RecordDeleted(metrics.DomainBlog)
	}
	return post, nil
}

// ListPosts returns posts in insertion order, optionally restricted to one
// author, each with requested relations resolved.
func (s *Service) ListPosts(ctx context.Context, authorID *domain.UserID, include Include) ([]*PostView, error) {
	if err := validatePostInclude(include); err != nil {
		return nil, err
	}
	start := time.Now()
	posts, err := s.store.ListPosts(ctx, authorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list posts")
	}
	if s.metrics != nil {
		s.metrics.ObserveSearch(metrics.DomainBlog, start)
	}
	views := make([]*PostView, 0, len(posts))
	for _, p := range posts {
		v, err := s.resolver.resolvePost(ctx, p, include)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// CreateComment validates and stores a new comment. Both referenced records
// must exist at creation time.
func (s *Service) CreateComment(ctx context.Context, text string, postID domain.PostID, authorID domain.UserID) (*Comment, error) {
	comment, err := NewComment(text, postID, authorID, requestcontext.Now(ctx))
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordValidationFailure(metrics.DomainBlog)
		}
		return nil, err
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// The store wraps the sentinel with the failing reference name.
			if strings.HasPrefix(err.Error(), "post:") {
				return nil, dErrors.New(dErrors.CodeNotFound, "post not found")
			}
			return nil, dErrors.New(dErrors.CodeNotFound, "author not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store comment")
	}
	if s.metrics != nil {
		s.metrics.RecordCreated(metrics.DomainBlog)
	}
	return comment, nil
}

// ListComments returns comments in insertion order, optionally restricted to
// one post, each with requested relations resolved.
func (s *Service) ListComments(ctx context.Context, postID *domain.PostID, include Include) ([]*CommentView, error) {
	if err := validateCommentInclude(include); err != nil {
		return nil, err
	}
	start := time.Now()
	comments, err := s.store.ListComments(ctx, postID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list comments")
	}
	if s.metrics != nil {
		s.metrics.ObserveSearch(metrics.DomainBlog, start)
	}
	views := make([]*CommentView, 0, len(comments))
	for _, c := range comments {
		v, err := s.resolver.resolveComment(ctx, c, include)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Resolve exposes the resolution engine for callers holding record
// snapshots, including records a cascade has since removed.
func (s *Service) Resolve() *Resolver {
	return s.resolver
}

// Counts reports stored record counts for the health endpoint.
func (s *Service) Counts(ctx context.Context) (users, posts, comments int) {
	return s.store.Counts(ctx)
}

func wrapBlogErr(err error, notFoundMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "operation failed")
}
