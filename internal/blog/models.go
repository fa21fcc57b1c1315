// Package blog implements the user/post/comment record domain: directed
// many-to-one relations, creation-time referential checks, cascading hard
// deletes and explicit relation resolution.
package blog

import (
	"strings"
	"time"

	"recordhub/pkg/domain"
	dErrors "recordhub/pkg/domain-errors"
)

// User is the root record type. Posts and comments reference users by ID.
//
// Invariants:
//   - Name is non-empty
//   - Email has local@domain.tld shape and is unique across stored users
//   - Age, when present, is in [0, 150]
type User struct {
	ID        domain.UserID       `json:"id"`
	Name      string              `json:"name"`
	Email     domain.EmailAddress `json:"email"`
	Age       *int                `json:"age,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt *time.Time          `json:"updated_at,omitempty"`
}

// Post references its author. The reference is checked when the post is
// created; a later cascade can still orphan it (see ResolvedUser).
type Post struct {
	ID        domain.PostID `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	AuthorID  domain.UserID `json:"author_id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty"`
}

// Comment references both its post and its author.
type Comment struct {
	ID        domain.CommentID `json:"id"`
	Text      string           `json:"text"`
	PostID    domain.PostID    `json:"post_id"`
	AuthorID  domain.UserID    `json:"author_id"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewUser validates and constructs a user, collecting every violation.
// Email uniqueness is enforced by the store, not here: it needs the
// collection.
func NewUser(name, email string, age *int, now time.Time) (*User, error) {
	var violations []dErrors.Violation
	name = strings.TrimSpace(name)
	if name == "" {
		violations = append(violations, dErrors.Violation{Field: "name", Rule: "required"})
	}
	addr, err := domain.ParseEmailAddress(email)
	if err != nil {
		violations = append(violations, dErrors.Violation{Field: "email", Rule: "must be a valid email address"})
	}
	if age != nil && (*age < 0 || *age > domain.MaxAgeYears) {
		violations = append(violations, dErrors.Violation{Field: "age", Rule: "must be between 0 and 150"})
	}
	if err := dErrors.NewValidation(violations...); err != nil {
		return nil, err
	}
	return &User{
		ID:        domain.NewUserID(),
		Name:      name,
		Email:     addr,
		Age:       age,
		CreatedAt: now,
	}, nil
}

// NewPost validates and constructs a post. The author reference is checked by
// the store at creation time.
func NewPost(title, content string, authorID domain.UserID, now time.Time) (*Post, error) {
	var violations []dErrors.Violation
	title = strings.TrimSpace(title)
	if title == "" {
		violations = append(violations, dErrors.Violation{Field: "title", Rule: "required"})
	}
	if strings.TrimSpace(content) == "" {
		violations = append(violations, dErrors.Violation{Field: "content", Rule: "required"})
	}
	if authorID.IsZero() {
		violations = append(violations, dErrors.Violation{Field: "author_id", Rule: "required"})
	}
	if err := dErrors.NewValidation(violations...); err != nil {
		return nil, err
	}
	return &Post{
		ID:        domain.NewPostID(),
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now,
	}, nil
}

// NewComment validates and constructs a comment. Both references are checked
// by the store at creation time.
func NewComment(text string, postID domain.PostID, authorID domain.UserID, now time.Time) (*Comment, error) {
	var violations []dErrors.Violation
	if strings.TrimSpace(text) == "" {
		violations = append(violations, dErrors.Violation{Field: "text", Rule: "required"})
	}
	if postID.IsZero() {
		violations = append(violations, dErrors.Violation{Field: "post_id", Rule: "required"})
	}
	if authorID.IsZero() {
		violations = append(violations, dErrors.Violation{Field: "author_id", Rule: "required"})
	}
	if err := dErrors.NewValidation(violations...); err != nil {
		return nil, err
	}
	return &Comment{
		ID:        domain.NewCommentID(),
		Text:      text,
		PostID:    postID,
		AuthorID:  authorID,
		CreatedAt: now,
	}, nil
}

// UserPatch carries a partial user update. Nil fields are left untouched.
type UserPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Age   *int    `json:"age,omitempty"`
}

// Validate checks only the supplied fields.
func (p UserPatch) Validate() error {
	var violations []dErrors.Violation
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		violations = append(violations, dErrors.Violation{Field: "name", Rule: "required"})
	}
	if p.Email != nil {
		if _, err := domain.ParseEmailAddress(*p.Email); err != nil {
			violations = append(violations, dErrors.Violation{Field: "email", Rule: "must be a valid email address"})
		}
	}
	if p.Age != nil && (*p.Age < 0 || *p.Age > domain.MaxAgeYears) {
		violations = append(violations, dErrors.Violation{Field: "age", Rule: "must be between 0 and 150"})
	}
	return dErrors.NewValidation(violations...)
}

// apply merges the supplied fields and refreshes UpdatedAt. Call Validate
// first; apply assumes the patch is clean.
func (p UserPatch) apply(u *User, now time.Time) {
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		addr, _ := domain.ParseEmailAddress(*p.Email)
		u.Email = addr
	}
	if p.Age != nil {
		u.Age = p.Age
	}
	u.UpdatedAt = &now
}
