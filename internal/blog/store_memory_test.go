package blog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"recordhub/pkg/domain"
	"recordhub/pkg/platform/sentinel"
)

type BlogStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func (s *BlogStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func TestBlogStoreSuite(t *testing.T) {
	suite.Run(t, new(BlogStoreSuite))
}

func (s *BlogStoreSuite) newUser(name, email string) *User {
	return &User{
		ID:        domain.NewUserID(),
		Name:      name,
		Email:     domain.EmailAddress(email),
		CreatedAt: time.Now().UTC(),
	}
}

func (s *BlogStoreSuite) newPost(author domain.UserID, title string) *Post {
	return &Post{
		ID:        domain.NewPostID(),
		Title:     title,
		Content:   "content",
		AuthorID:  author,
		CreatedAt: time.Now().UTC(),
	}
}

func (s *BlogStoreSuite) newComment(post domain.PostID, author domain.UserID, text string) *Comment {
	return &Comment{
		ID:        domain.NewCommentID(),
		Text:      text,
		PostID:    post,
		AuthorID:  author,
		CreatedAt: time.Now().UTC(),
	}
}

func (s *BlogStoreSuite) TestUserEmailUniqueness() {
	first := s.newUser("Alice", "alice@example.com")
	s.Require().NoError(s.store.CreateUser(s.ctx, first))

	dup := s.newUser("Other Alice", "alice@example.com")
	err := s.store.CreateUser(s.ctx, dup)
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

	_, err = s.store.FindUser(s.ctx, dup.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound, "rejected user must not be stored")
}

func (s *BlogStoreSuite) TestCreatePostRequiresAuthor() {
	err := s.store.CreatePost(s.ctx, s.newPost(domain.NewUserID(), "No Author"))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	_, posts, _ := s.store.Counts(s.ctx)
	s.Equal(0, posts, "rejected post must not be stored")
}

func (s *BlogStoreSuite) TestCreateCommentRequiresPostAndAuthor() {
	author := s.newUser("Alice", "alice@example.com")
	s.Require().NoError(s.store.CreateUser(s.ctx, author))
	post := s.newPost(author.ID, "Hello")
	s.Require().NoError(s.store.CreatePost(s.ctx, post))

	s.Run("missing post", func() {
		err := s.store.CreateComment(s.ctx, s.newComment(domain.NewPostID(), author.ID, "hi"))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
		s.Require().ErrorContains(err, "post")
	})

	s.Run("missing author", func() {
		err := s.store.CreateComment(s.ctx, s.newComment(post.ID, domain.NewUserID(), "hi"))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
		s.Require().ErrorContains(err, "author")
	})

	s.Run("both present", func() {
		s.Require().NoError(s.store.CreateComment(s.ctx, s.newComment(post.ID, author.ID, "hi")))
	})
}

// Deleting a user removes the user's posts, the comments on those posts
// (whoever wrote them), and the user's own comments elsewhere, all in one
// atomic step.
func (s *BlogStoreSuite) TestDeleteUserCascades() {
	alice := s.newUser("Alice", "alice@example.com")
	bob := s.newUser("Bob", "bob@example.com")
	s.Require().NoError(s.store.CreateUser(s.ctx, alice))
	s.Require().NoError(s.store.CreateUser(s.ctx, bob))

	alicePost := s.newPost(alice.ID, "Alice writes")
	bobPost := s.newPost(bob.ID, "Bob writes")
	s.Require().NoError(s.store.CreatePost(s.ctx, alicePost))
	s.Require().NoError(s.store.CreatePost(s.ctx, bobPost))

	// Bob comments on Alice's post; Alice comments on Bob's post.
	bobOnAlice := s.newComment(alicePost.ID, bob.ID, "nice post")
	aliceOnBob := s.newComment(bobPost.ID, alice.ID, "thanks")
	bobOnBob := s.newComment(bobPost.ID, bob.ID, "self reply")
	s.Require().NoError(s.store.CreateComment(s.ctx, bobOnAlice))
	s.Require().NoError(s.store.CreateComment(s.ctx, aliceOnBob))
	s.Require().NoError(s.store.CreateComment(s.ctx, bobOnBob))

	snapshot, err := s.store.DeleteUser(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal("Alice", snapshot.Name)

	_, err = s.store.FindUser(s.ctx, alice.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindPost(s.ctx, alicePost.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound, "Alice's post removed")

	_, err = s.store.FindPost(s.ctx, bobPost.ID)
	s.Require().NoError(err, "Bob's post survives")

	comments, err := s.store.ListComments(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(comments, 1, "only Bob's comment on his own post survives")
	s.Equal(bobOnBob.ID, comments[0].ID)

	users, posts, total := s.store.Counts(s.ctx)
	s.Equal(1, users)
	s.Equal(1, posts)
	s.Equal(1, total)
}

func (s *BlogStoreSuite) TestDeletePostCascadesComments() {
	alice := s.newUser("Alice", "alice@example.com")
	s.Require().NoError(s.store.CreateUser(s.ctx, alice))
	post := s.newPost(alice.ID, "Hello")
	s.Require().NoError(s.store.CreatePost(s.ctx, post))
	s.Require().NoError(s.store.CreateComment(s.ctx, s.newComment(post.ID, alice.ID, "first")))
	s.Require().NoError(s.store.CreateComment(s.ctx, s.newComment(post.ID, alice.ID, "second")))

	_, err := s.store.DeletePost(s.ctx, post.ID)
	s.Require().NoError(err)

	comments, err := s.store.ListComments(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(comments)

	_, err = s.store.FindUser(s.ctx, alice.ID)
	s.Require().NoError(err, "author untouched by post cascade")
}

func (s *BlogStoreSuite) TestUpdateUserEmailUniqueness() {
	alice := s.newUser("Alice", "alice@example.com")
	bob := s.newUser("Bob", "bob@example.com")
	s.Require().NoError(s.store.CreateUser(s.ctx, alice))
	s.Require().NoError(s.store.CreateUser(s.ctx, bob))

	taken := "alice@example.com"
	_, err := s.store.UpdateUser(s.ctx, bob.ID, UserPatch{Email: &taken}, time.Now().UTC())
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

	free := "bob2@example.com"
	updated, err := s.store.UpdateUser(s.ctx, bob.ID, UserPatch{Email: &free}, time.Now().UTC())
	s.Require().NoError(err)
	s.Equal(domain.EmailAddress("bob2@example.com"), updated.Email)

	s.Run("keeping own email is not a conflict", func() {
		same := "bob2@example.com"
		_, err := s.store.UpdateUser(s.ctx, bob.ID, UserPatch{Email: &same}, time.Now().UTC())
		s.Require().NoError(err)
	})
}

func (s *BlogStoreSuite) TestListOrdering() {
	alice := s.newUser("Alice", "alice@example.com")
	bob := s.newUser("Bob", "bob@example.com")
	s.Require().NoError(s.store.CreateUser(s.ctx, alice))
	s.Require().NoError(s.store.CreateUser(s.ctx, bob))

	p1 := s.newPost(alice.ID, "one")
	p2 := s.newPost(bob.ID, "two")
	p3 := s.newPost(alice.ID, "three")
	for _, p := range []*Post{p1, p2, p3} {
		s.Require().NoError(s.store.CreatePost(s.ctx, p))
	}

	s.Run("all posts in insertion order", func() {
		posts, err := s.store.ListPosts(s.ctx, nil)
		s.Require().NoError(err)
		s.Require().Len(posts, 3)
		s.Equal("one", posts[0].Title)
		s.Equal("two", posts[1].Title)
		s.Equal("three", posts[2].Title)
	})

	s.Run("author filter preserves order", func() {
		posts, err := s.store.ListPosts(s.ctx, &alice.ID)
		s.Require().NoError(err)
		s.Require().Len(posts, 2)
		s.Equal("one", posts[0].Title)
		s.Equal("three", posts[1].Title)
	})
}
