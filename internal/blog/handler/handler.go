// Package handler is the thin HTTP adapter for the blog domain. Relation
// resolution is requested explicitly through the include query parameter
// with dotted paths, e.g. ?include=comments.author.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"recordhub/internal/blog"
	"recordhub/internal/transport/http/shared"
	"recordhub/pkg/domain"
	dErrors "recordhub/pkg/domain-errors"
	"recordhub/pkg/requestcontext"
)

// Service defines the blog operations the handler depends on.
type Service interface {
	CreateUser(ctx context.Context, name, email string, age *int) (*blog.User, error)
	GetUser(ctx context.Context, id domain.UserID, include blog.Include) (*blog.UserView, error)
	UpdateUser(ctx context.Context, id domain.UserID, patch blog.UserPatch) (*blog.User, error)
	DeleteUser(ctx context.Context, id domain.UserID) (*blog.User, error)
	ListUsers(ctx context.Context, include blog.Include) ([]*blog.UserView, error)
	CreatePost(ctx context.Context, title, content string, authorID domain.UserID) (*blog.Post, error)
	GetPost(ctx context.Context, id domain.PostID, include blog.Include) (*blog.PostView, error)
	DeletePost(ctx context.Context, id domain.PostID) (*blog.Post, error)
	ListPosts(ctx context.Context, authorID *domain.UserID, include blog.Include) ([]*blog.PostView, error)
	CreateComment(ctx context.Context, text string, postID domain.PostID, authorID domain.UserID) (*blog.Comment, error)
	ListComments(ctx context.Context, postID *domain.PostID, include blog.Include) ([]*blog.CommentView, error)
}

type Handler struct {
	logger *slog.Logger
	blog   Service
}

func New(blog Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, blog: blog}
}

// Register mounts the user, post and comment routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/users", h.handleListUsers)
	r.Post("/api/users", h.handleCreateUser)
	r.Get("/api/users/{id}", h.handleGetUser)
	r.Put("/api/users/{id}", h.handleUpdateUser)
	r.Delete("/api/users/{id}", h.handleDeleteUser)

	r.Get("/api/posts", h.handleListPosts)
	r.Post("/api/posts", h.handleCreatePost)
	r.Get("/api/posts/{id}", h.handleGetPost)
	r.Delete("/api/posts/{id}", h.handleDeletePost)

	r.Get("/api/comments", h.handleListComments)
	r.Post("/api/comments", h.handleCreateComment)
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age"`
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	user, err := h.blog.CreateUser(r.Context(), req.Name, req.Email, req.Age)
	if err != nil {
		h.logError(r, "create user failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	include, err := includeFromQuery(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	view, err := h.blog.GetUser(r.Context(), id, include)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var patch blog.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	user, err := h.blog.UpdateUser(r.Context(), id, patch)
	if err != nil {
		h.logError(r, "update user failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	user, err := h.blog.DeleteUser(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	include, err := includeFromQuery(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	views, err := h.blog.ListUsers(r.Context(), include)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteList(w, views, len(views))
}

type createPostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	AuthorID string `json:"author_id"`
}

func (h *Handler) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	authorID, err := domain.ParseUserID(req.AuthorID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	post, err := h.blog.CreatePost(r.Context(), req.Title, req.Content, authorID)
	if err != nil {
		h.logError(r, "create post failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, post)
}

func (h *Handler) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePostID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	include, err := includeFromQuery(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	view, err := h.blog.GetPost(r.Context(), id, include)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePostID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	post, err := h.blog.DeletePost(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, post)
}

func (h *Handler) handleListPosts(w http.ResponseWriter, r *http.Request) {
	include, err := includeFromQuery(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var authorID *domain.UserID
	if raw := r.URL.Query().Get("author_id"); raw != "" {
		id, err := domain.ParseUserID(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		authorID = &id
	}
	views, err := h.blog.ListPosts(r.Context(), authorID, include)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteList(w, views, len(views))
}

type createCommentRequest struct {
	Text     string `json:"text"`
	PostID   string `json:"post_id"`
	AuthorID string `json:"author_id"`
}

func (h *Handler) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	postID, err := domain.ParsePostID(req.PostID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	authorID, err := domain.ParseUserID(req.AuthorID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	comment, err := h.blog.CreateComment(r.Context(), req.Text, postID, authorID)
	if err != nil {
		h.logError(r, "create comment failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, comment)
}

func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	include, err := includeFromQuery(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var postID *domain.PostID
	if raw := r.URL.Query().Get("post_id"); raw != "" {
		id, err := domain.ParsePostID(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		postID = &id
	}
	views, err := h.blog.ListComments(r.Context(), postID, include)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteList(w, views, len(views))
}

// includeFromQuery parses repeated or comma-separated include parameters
// into a resolution request.
func includeFromQuery(r *http.Request) (blog.Include, error) {
	raw := r.URL.Query()["include"]
	var paths []string
	for _, v := range raw {
		for _, p := range strings.Split(v, ",") {
			if p != "" {
				paths = append(paths, p)
			}
		}
	}
	return blog.ParseInclude(paths)
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	h.logger.WarnContext(r.Context(), msg,
		"request_id", requestcontext.RequestID(r.Context()),
		"error", err.Error(),
	)
}
