package http

import (
	"encoding/json"
	"net/http"

	"github.com/jupiterclapton/pictogram/internal/core/ports"
)

func (s *Server) createPost(w http.ResponseWriter, r *http.Request, userID string) {
	var body struct {
		Caption  string `json:"caption"`
		ImageURL string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid JSON body"})
		return
	}

	post, err := s.Posts.CreatePost(r.Context(), ports.CreatePostCmd{
		AuthorID: userID,
		Caption:  body.Caption,
		ImageURL: body.ImageURL,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "Post created successfully!", toPostDTO(post))
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request, userID string) {
	post, err := s.Posts.DeletePost(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "Post deleted successfully!", toPostDTO(post))
}

func (s *Server) globalFeed(w http.ResponseWriter, r *http.Request, _ string) {
	feed, err := s.Feed.GlobalFeed(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "Posts found successfully!", toFeedPostDTOs(feed))
}

func (s *Server) followingFeed(w http.ResponseWriter, r *http.Request, userID string) {
	feed, err := s.Feed.FollowingFeed(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "Feed posts found successfully!", toFeedPostDTOs(feed))
}

func (s *Server) userPosts(w http.ResponseWriter, r *http.Request, userID string) {
	feed, err := s.Feed.UserPosts(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "User posts found successfully!", toFeedPostDTOs(feed))
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request, userID string) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid JSON body"})
		return
	}

	comment, err := s.Interactions.CreateComment(r.Context(), userID, r.PathValue("postId"), body.Text)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "Commented successfully!", toCommentDTO(*comment))
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.Interactions.ListComments(r.Context(), r.PathValue("postId"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "Comments found successfully!", toCommentDTOs(comments))
}

func (s *Server) toggleLike(w http.ResponseWriter, r *http.Request, userID string) {
	state, err := s.Interactions.ToggleLike(r.Context(), userID, r.PathValue("postId"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "Toggled like successfully!", map[string]string{"state": string(state)})
}

func (s *Server) toggleBookmark(w http.ResponseWriter, r *http.Request, userID string) {
	state, err := s.Interactions.ToggleBookmark(r.Context(), userID, r.PathValue("postId"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "Toggled bookmark successfully!", map[string]string{"state": string(state)})
}
