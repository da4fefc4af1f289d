// Package http est l'adapter primaire REST : il traduit le wire v1
// (routes et enveloppes héritées du backend d'origine) vers les ports du
// coeur. Aucune logique métier ici.
package http

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/rs/cors"

	"github.com/jupiterclapton/pictogram/internal/core/ports"
)

type Server struct {
	Logger       *slog.Logger
	Identity     ports.IdentityService
	Graph        ports.GraphService
	Posts        ports.PostService
	Interactions ports.InteractionService
	Feed         ports.FeedService
	Chat         ports.ChatService

	once    sync.Once
	handler http.Handler
}

func (s *Server) setupRoutes() {
	mux := http.NewServeMux()

	// --- AUTH & PROFIL ---
	mux.HandleFunc("POST /api/v1/auth/signup", s.signup)
	mux.HandleFunc("POST /api/v1/auth/login", s.login)
	mux.HandleFunc("GET /api/v1/auth/logout", s.logout)
	mux.HandleFunc("GET /api/v1/auth/suggested", s.requireAuth(s.suggestedUsers))
	mux.HandleFunc("POST /api/v1/auth/follow/{id}", s.requireAuth(s.toggleFollow))
	mux.HandleFunc("PATCH /api/v1/auth/edit", s.requireAuth(s.editProfile))
	mux.HandleFunc("GET /api/v1/auth/{id}", s.getProfile)

	// --- POSTS & ENGAGEMENT ---
	mux.HandleFunc("POST /api/v1/post/create", s.requireAuth(s.createPost))
	mux.HandleFunc("DELETE /api/v1/post/delete/{id}", s.requireAuth(s.deletePost))
	mux.HandleFunc("GET /api/v1/post/posts", s.requireAuth(s.globalFeed))
	mux.HandleFunc("GET /api/v1/post/feedPosts", s.requireAuth(s.followingFeed))
	mux.HandleFunc("GET /api/v1/post/userPosts", s.requireAuth(s.userPosts))
	mux.HandleFunc("POST /api/v1/post/comment/{postId}", s.requireAuth(s.createComment))
	mux.HandleFunc("GET /api/v1/post/getComments/{postId}", s.listComments)
	mux.HandleFunc("POST /api/v1/post/likeunlikepost/{postId}", s.requireAuth(s.toggleLike))
	mux.HandleFunc("GET /api/v1/post/bookmark/{postId}", s.requireAuth(s.toggleBookmark))

	// --- MESSAGERIE ---
	mux.HandleFunc("POST /api/v1/message/{receiverId}", s.requireAuth(s.sendMessage))
	mux.HandleFunc("GET /api/v1/message/getMessages/{receiverId}", s.requireAuth(s.getConversation))

	s.handler = cors.AllowAll().Handler(s.authMiddleware(mux))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.once.Do(s.setupRoutes)
	s.handler.ServeHTTP(w, r)
}
