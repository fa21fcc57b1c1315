package blog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordhub/pkg/domain"
	dErrors "recordhub/pkg/domain-errors"
)

func TestParseInclude(t *testing.T) {
	t.Run("nil for no paths", func(t *testing.T) {
		include, err := ParseInclude(nil)
		require.NoError(t, err)
		assert.Nil(t, include)
	})

	t.Run("flat and nested paths merge into one tree", func(t *testing.T) {
		include, err := ParseInclude([]string{"author", "comments.author", "comments.post"})
		require.NoError(t, err)

		_, ok := include[RelationAuthor]
		assert.True(t, ok)
		comments, ok := include[RelationComments]
		require.True(t, ok)
		_, ok = comments[RelationAuthor]
		assert.True(t, ok)
		_, ok = comments[RelationPost]
		assert.True(t, ok)
	})

	t.Run("empty segment rejected", func(t *testing.T) {
		_, err := ParseInclude([]string{"comments..author"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func seedStore(t *testing.T) (*InMemoryStore, *User, *User, *Post, *Comment) {
	t.Helper()
	ctx := context.Background()
	store := NewInMemoryStore()
	now := time.Now().UTC()

	alice := &User{ID: domain.NewUserID(), Name: "Alice", Email: "alice@example.com", CreatedAt: now}
	bob := &User{ID: domain.NewUserID(), Name: "Bob", Email: "bob@example.com", CreatedAt: now}
	require.NoError(t, store.CreateUser(ctx, alice))
	require.NoError(t, store.CreateUser(ctx, bob))

	post := &Post{ID: domain.NewPostID(), Title: "Hello", Content: "world", AuthorID: alice.ID, CreatedAt: now}
	require.NoError(t, store.CreatePost(ctx, post))

	comment := &Comment{ID: domain.NewCommentID(), Text: "nice", PostID: post.ID, AuthorID: bob.ID, CreatedAt: now}
	require.NoError(t, store.CreateComment(ctx, comment))

	return store, alice, bob, post, comment
}

func TestResolvePost_AuthorAndComments(t *testing.T) {
	store, alice, bob, post, _ := seedStore(t)
	resolver := NewResolver(store)
	ctx := context.Background()

	include, err := ParseInclude([]string{"author", "comments.author"})
	require.NoError(t, err)

	view, err := resolver.ResolvePost(ctx, post, include)
	require.NoError(t, err)

	require.NotNil(t, view.Author)
	assert.False(t, view.Author.Orphaned)
	require.NotNil(t, view.Author.User)
	assert.Equal(t, alice.Name, view.Author.User.Name)

	require.Len(t, view.Comments, 1)
	require.NotNil(t, view.Comments[0].Author)
	assert.Equal(t, bob.Name, view.Comments[0].Author.User.Name)
}

func TestResolvePost_UnrequestedRelationsStayBare(t *testing.T) {
	store, _, _, post, _ := seedStore(t)
	resolver := NewResolver(store)

	view, err := resolver.ResolvePost(context.Background(), post, nil)
	require.NoError(t, err)
	assert.Nil(t, view.Author)
	assert.Nil(t, view.Comments)
	assert.False(t, view.AuthorID.IsZero(), "foreign key still present")
}

func TestResolveUser_TransitiveChain(t *testing.T) {
	store, alice, bob, _, _ := seedStore(t)
	resolver := NewResolver(store)
	ctx := context.Background()

	include, err := ParseInclude([]string{"posts.comments.author"})
	require.NoError(t, err)

	view, err := resolver.ResolveUser(ctx, alice, include)
	require.NoError(t, err)

	require.Len(t, view.Posts, 1)
	require.Len(t, view.Posts[0].Comments, 1)
	author := view.Posts[0].Comments[0].Author
	require.NotNil(t, author)
	assert.Equal(t, bob.ID, author.ID)
	assert.Equal(t, bob.Name, author.User.Name)
}

func TestResolvePost_AuthorSubIncludeResolves(t *testing.T) {
	store, alice, _, post, _ := seedStore(t)
	resolver := NewResolver(store)
	ctx := context.Background()

	include, err := ParseInclude([]string{"author.posts"})
	require.NoError(t, err)

	view, err := resolver.ResolvePost(ctx, post, include)
	require.NoError(t, err)

	require.NotNil(t, view.Author)
	require.NotNil(t, view.Author.User)
	assert.Equal(t, alice.Name, view.Author.User.Name)
	require.Len(t, view.Author.User.Posts, 1, "author's posts resolved through the to-one reference")
	assert.Equal(t, post.ID, view.Author.User.Posts[0].ID)
}

func TestResolve_UnknownRelationRejected(t *testing.T) {
	store, alice, _, post, comment := seedStore(t)
	resolver := NewResolver(store)
	ctx := context.Background()

	cases := []struct {
		name string
		path string
		run  func(include Include) error
	}{
		{"typo on post relation", "auhtor", func(include Include) error {
			_, err := resolver.ResolvePost(ctx, post, include)
			return err
		}},
		{"relation users do not expose", "comments", func(include Include) error {
			_, err := resolver.ResolveUser(ctx, alice, include)
			return err
		}},
		{"unknown nested relation", "author.comments", func(include Include) error {
			_, err := resolver.ResolveComment(ctx, comment, include)
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			include, err := ParseInclude([]string{tc.path})
			require.NoError(t, err)
			err = tc.run(include)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		})
	}
}

// faultyReadStore fails every user lookup with a non-sentinel error.
type faultyReadStore struct {
	ReadStore
	err error
}

func (f *faultyReadStore) FindUser(context.Context, domain.UserID) (*User, error) {
	return nil, f.err
}

func TestResolve_StoreFailureIsNotOrphaned(t *testing.T) {
	store, _, _, post, _ := seedStore(t)
	boom := errors.New("connection reset")
	resolver := NewResolver(&faultyReadStore{ReadStore: store, err: boom})

	include, err := ParseInclude([]string{"author"})
	require.NoError(t, err)

	_, err = resolver.ResolvePost(context.Background(), post, include)
	require.ErrorIs(t, err, boom, "infrastructure failures propagate instead of reading as orphans")
}

// A snapshot taken before a cascade still resolves afterwards: dangling
// references come back as orphan markers, never as errors.
func TestResolve_OrphanedReferenceAfterCascade(t *testing.T) {
	store, alice, _, post, comment := seedStore(t)
	resolver := NewResolver(store)
	ctx := context.Background()

	postSnapshot := *post
	commentSnapshot := *comment

	_, err := store.DeleteUser(ctx, alice.ID)
	require.NoError(t, err)

	include, err := ParseInclude([]string{"author"})
	require.NoError(t, err)

	view, err := resolver.ResolvePost(ctx, &postSnapshot, include)
	require.NoError(t, err)
	require.NotNil(t, view.Author)
	assert.True(t, view.Author.Orphaned)
	assert.Nil(t, view.Author.User)
	assert.Equal(t, alice.ID, view.Author.ID, "foreign key retained on the marker")

	commentInclude, err := ParseInclude([]string{"post"})
	require.NoError(t, err)
	commentView, err := resolver.ResolveComment(ctx, &commentSnapshot, commentInclude)
	require.NoError(t, err)
	require.NotNil(t, commentView.Post)
	assert.True(t, commentView.Post.Orphaned, "post removed by the cascade")
	assert.Nil(t, commentView.Post.Post)
}
