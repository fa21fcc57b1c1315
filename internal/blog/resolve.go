package blog

import (
	"context"
	"errors"
	"strings"

	"recordhub/pkg/domain"
	dErrors "recordhub/pkg/domain-errors"
	"recordhub/pkg/platform/sentinel"
)

// Relation names a resolvable related field. Each record type supports a
// fixed set: users expose "posts"; posts expose "author" and "comments";
// comments expose "author" and "post".
type Relation string

const (
	RelationAuthor   Relation = "author"
	RelationPosts    Relation = "posts"
	RelationComments Relation = "comments"
	RelationPost     Relation = "post"
)

// Include is the declarative resolution request: a tree of relation names to
// walk. Only listed relations are resolved; everything else stays a bare
// foreign key. Termination is by construction: each resolution step consumes
// one node of this finite tree, so transitive chains
// (post -> comments -> author) cannot loop.
type Include map[Relation]Include

// ParseInclude builds an Include tree from dotted path strings as they arrive
// on the wire, e.g. ["author", "comments.author"]. Relation names are not
// checked here; the resolver rejects names the record type does not expose.
//
// Errors: CodeBadRequest on an empty segment ("comments..author").
func ParseInclude(paths []string) (Include, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	root := Include{}
	for _, path := range paths {
		node := root
		for _, seg := range strings.Split(path, ".") {
			if seg == "" {
				return nil, dErrors.Newf(dErrors.CodeBadRequest, "invalid include path %q", path)
			}
			rel := Relation(seg)
			child, ok := node[rel]
			if !ok || child == nil {
				child = Include{}
				node[rel] = child
			}
			node = child
		}
	}
	return root, nil
}

// validateUserInclude checks an include tree rooted at a user. Every key must
// be a relation users expose, recursively through the target types.
func validateUserInclude(include Include) error {
	for rel, sub := range include {
		switch rel {
		case RelationPosts:
			if err := validatePostInclude(sub); err != nil {
				return err
			}
		default:
			return dErrors.Newf(dErrors.CodeBadRequest, "unknown relation %q for users", rel)
		}
	}
	return nil
}

func validatePostInclude(include Include) error {
	for rel, sub := range include {
		switch rel {
		case RelationAuthor:
			if err := validateUserInclude(sub); err != nil {
				return err
			}
		case RelationComments:
			if err := validateCommentInclude(sub); err != nil {
				return err
			}
		default:
			return dErrors.Newf(dErrors.CodeBadRequest, "unknown relation %q for posts", rel)
		}
	}
	return nil
}

func validateCommentInclude(include Include) error {
	for rel, sub := range include {
		switch rel {
		case RelationAuthor:
			if err := validateUserInclude(sub); err != nil {
				return err
			}
		case RelationPost:
			if err := validatePostInclude(sub); err != nil {
				return err
			}
		default:
			return dErrors.Newf(dErrors.CodeBadRequest, "unknown relation %q for comments", rel)
		}
	}
	return nil
}

// ResolvedUser is a to-one user reference after resolution. When the target
// is missing (a cascade removed it after this record was created), Orphaned
// is set and User stays nil; the query as a whole still succeeds. A present
// target carries a UserView so nested includes keep resolving through it.
type ResolvedUser struct {
	ID       domain.UserID `json:"id"`
	Orphaned bool          `json:"orphaned,omitempty"`
	User     *UserView     `json:"user,omitempty"`
}

// ResolvedPost is a to-one post reference after resolution, with the same
// orphan semantics as ResolvedUser.
type ResolvedPost struct {
	ID       domain.PostID `json:"id"`
	Orphaned bool          `json:"orphaned,omitempty"`
	Post     *PostView     `json:"post,omitempty"`
}

// UserView is a user with its requested relations resolved. Unrequested
// relations are nil and omitted from JSON.
type UserView struct {
	User
	Posts []PostView `json:"posts,omitempty"`
}

// PostView is a post with its requested relations resolved.
type PostView struct {
	Post
	Author   *ResolvedUser `json:"author,omitempty"`
	Comments []CommentView `json:"comments,omitempty"`
}

// CommentView is a comment with its requested relations resolved.
type CommentView struct {
	Comment
	Author *ResolvedUser `json:"author,omitempty"`
	Post   *ResolvedPost `json:"post,omitempty"`
}

// ReadStore is the read-only slice of the store the resolver walks.
type ReadStore interface {
	FindUser(ctx context.Context, id domain.UserID) (*User, error)
	FindPost(ctx context.Context, id domain.PostID) (*Post, error)
	ListPosts(ctx context.Context, authorID *domain.UserID) ([]*Post, error)
	ListComments(ctx context.Context, postID *domain.PostID) ([]*Comment, error)
}

// Resolver assembles nested result trees by walking foreign keys on demand.
// It operates on record values, not IDs: callers may resolve a snapshot that
// was since removed from the store, and dangling references come back as
// orphan markers instead of failures.
type Resolver struct {
	store ReadStore
}

func NewResolver(store ReadStore) *Resolver {
	return &Resolver{store: store}
}

// ResolveUser resolves the requested relations of one user.
//
// Errors: CodeBadRequest when the include names a relation users do not
// expose.
func (r *Resolver) ResolveUser(ctx context.Context, user *User, include Include) (*UserView, error) {
	if err := validateUserInclude(include); err != nil {
		return nil, err
	}
	return r.resolveUser(ctx, user, include)
}

// ResolvePost resolves the requested relations of one post.
//
// Errors: CodeBadRequest when the include names a relation posts do not
// expose.
func (r *Resolver) ResolvePost(ctx context.Context, post *Post, include Include) (*PostView, error) {
	if err := validatePostInclude(include); err != nil {
		return nil, err
	}
	return r.resolvePost(ctx, post, include)
}

// ResolveComment resolves the requested relations of one comment.
//
// Errors: CodeBadRequest when the include names a relation comments do not
// expose.
func (r *Resolver) ResolveComment(ctx context.Context, comment *Comment, include Include) (*CommentView, error) {
	if err := validateCommentInclude(include); err != nil {
		return nil, err
	}
	return r.resolveComment(ctx, comment, include)
}

func (r *Resolver) resolveUser(ctx context.Context, user *User, include Include) (*UserView, error) {
	view := &UserView{User: *user}
	if sub, ok := include[RelationPosts]; ok {
		posts, err := r.store.ListPosts(ctx, &user.ID)
		if err != nil {
			return nil, err
		}
		views, err := r.resolvePosts(ctx, posts, sub)
		if err != nil {
			return nil, err
		}
		view.Posts = views
	}
	return view, nil
}

func (r *Resolver) resolvePost(ctx context.Context, post *Post, include Include) (*PostView, error) {
	view := &PostView{Post: *post}
	if sub, ok := include[RelationAuthor]; ok {
		author, err := r.resolveAuthor(ctx, post.AuthorID, sub)
		if err != nil {
			return nil, err
		}
		view.Author = author
	}
	if sub, ok := include[RelationComments]; ok {
		comments, err := r.store.ListComments(ctx, &post.ID)
		if err != nil {
			return nil, err
		}
		views, err := r.resolveComments(ctx, comments, sub)
		if err != nil {
			return nil, err
		}
		view.Comments = views
	}
	return view, nil
}

func (r *Resolver) resolveComment(ctx context.Context, comment *Comment, include Include) (*CommentView, error) {
	view := &CommentView{Comment: *comment}
	if sub, ok := include[RelationAuthor]; ok {
		author, err := r.resolveAuthor(ctx, comment.AuthorID, sub)
		if err != nil {
			return nil, err
		}
		view.Author = author
	}
	if sub, ok := include[RelationPost]; ok {
		resolved := &ResolvedPost{ID: comment.PostID}
		post, err := r.store.FindPost(ctx, comment.PostID)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			resolved.Orphaned = true
		case err != nil:
			return nil, err
		default:
			postView, err := r.resolvePost(ctx, post, sub)
			if err != nil {
				return nil, err
			}
			resolved.Post = postView
		}
		view.Post = resolved
	}
	return view, nil
}

// resolveAuthor is the to-one user lookup. A missing target is data, not an
// error; anything else from the store propagates.
func (r *Resolver) resolveAuthor(ctx context.Context, id domain.UserID, include Include) (*ResolvedUser, error) {
	resolved := &ResolvedUser{ID: id}
	user, err := r.store.FindUser(ctx, id)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		resolved.Orphaned = true
	case err != nil:
		return nil, err
	default:
		view, err := r.resolveUser(ctx, user, include)
		if err != nil {
			return nil, err
		}
		resolved.User = view
	}
	return resolved, nil
}

func (r *Resolver) resolvePosts(ctx context.Context, posts []*Post, include Include) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		v, err := r.resolvePost(ctx, p, include)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func (r *Resolver) resolveComments(ctx context.Context, comments []*Comment, include Include) ([]CommentView, error) {
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		v, err := r.resolveComment(ctx, c, include)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}
