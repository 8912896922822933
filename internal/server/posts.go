package server

import (
	"net/http"
	"strings"

	"watizat/internal/matching"
	"watizat/internal/taxonomy"
	"watizat/pkg/types"

	"github.com/sirupsen/logrus"
)

type postQuery struct {
	Category string `form:"category"`
	Type     string `form:"type"`
	Mine     bool   `form:"mine"`
	Limit    uint64 `form:"limit"`
}

type postRequest struct {
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Categories  []string `json:"categories"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// apply validates the request and writes it onto post. post is left
// untouched on error.
func (req *postRequest) apply(post *types.Post) error {
	postType := types.PostType(req.Type)
	if !postType.Valid() {
		return invalidPostType(req.Type)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return badRequest("title is required")
	}

	set, err := matching.Classify(req.Category, req.Categories)
	if err != nil {
		return err
	}

	post.Type = postType
	post.Title = title
	post.Description = strings.TrimSpace(req.Description)
	set.Apply(post)

	return nil
}

func (q *postQuery) filter(user *types.User) (types.PostFilter, types.Category, error) {
	category, err := taxonomy.ParseSelector(q.Category)
	if err != nil {
		return types.PostFilter{}, "", err
	}

	filter := types.PostFilter{Category: category, Limit: q.Limit}

	if q.Type != "" {
		filter.Type = types.PostType(q.Type)
		if !filter.Type.Valid() {
			return types.PostFilter{}, "", invalidPostType(q.Type)
		}
	}

	if q.Mine {
		filter.UserID = user.ID
	}

	return filter, category, nil
}

// viewPosts loads posts for the query, filters them by category and
// annotates them for the caller. With helpableOnly the limit counts helpable
// posts, so it is applied after selection instead of in the store.
func (s *Service) viewPosts(r *http.Request, helpableOnly bool) ([]types.PostView, error) {
	ctx := r.Context()

	user, err := userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var q postQuery
	if err := decodeQuery(r, &q); err != nil {
		return nil, err
	}

	filter, category, err := q.filter(user)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if helpableOnly {
		filter.Limit = 0
	}

	posts, err := s.posts.Posts(ctx, filter)
	if err != nil {
		return nil, err
	}

	views, err := matching.View(posts, category, user.Viewer())
	if err != nil {
		return nil, err
	}

	if !helpableOnly {
		return views, nil
	}

	views = matching.Helpable(views)
	if limit > 0 && uint64(len(views)) > limit {
		views = views[:limit]
	}
	return views, nil
}

func (s *Service) handleListPosts(w http.ResponseWriter, r *http.Request) {
	views, err := s.viewPosts(r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, views)
}

func (s *Service) handleHelpablePosts(w http.ResponseWriter, r *http.Request) {
	views, err := s.viewPosts(r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, views)
}

func (s *Service) handleGetPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := userFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	post, err := s.posts.Post(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, types.PostView{Post: post, CanHelp: matching.CanHelp(user.Viewer(), post)})
}

func (s *Service) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := userFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	post := &types.Post{UserID: user.ID, AuthorName: user.Name}
	if err := req.apply(post); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"post_id":    post.ID,
		"user_id":    user.ID,
		"categories": types.CategoryStrings(post.Categories),
	}).Info("post created")

	s.writeJSON(w, http.StatusCreated, types.PostView{Post: post, CanHelp: matching.CanHelp(user.Viewer(), post)})
}

func (s *Service) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := userFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	post, err := s.posts.Post(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if post.UserID != user.ID {
		s.writeError(w, r, types.ErrForbidden)
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := req.apply(post); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, types.PostView{Post: post, CanHelp: matching.CanHelp(user.Viewer(), post)})
}
