package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
	"github.com/jupiterclapton/pictogram/internal/core/ports"
)

type authResponse struct {
	User         userDTO `json:"user"`
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	ExpiresIn    int64   `json:"expiresIn"` // secondes
}

func toAuthResponse(resp *ports.AuthResponse) authResponse {
	return authResponse{
		User:         toUserDTO(resp.User),
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    int64(resp.ExpiresIn.Seconds()),
	}
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Username string `json:"username"`
		Gender   string `json:"gender"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid JSON body"})
		return
	}

	resp, err := s.Identity.Register(r.Context(), ports.RegisterCmd{
		Email:    body.Email,
		Password: body.Password,
		Username: body.Username,
		Gender:   domain.Gender(body.Gender),
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "User created successfully!", toAuthResponse(resp))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid JSON body"})
		return
	}

	resp, err := s.Identity.Login(r.Context(), ports.LoginCmd{Email: body.Email, Password: body.Password})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "User logged in successfully!", toAuthResponse(resp))
}

// logout révoque le token porté par la requête. Route volontairement non
// "requireAuth" : un token déjà expiré peut quand même être révoqué.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: "missing bearer token"})
		return
	}
	if err := s.Identity.Logout(r.Context(), token); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "User logged out successfully", nil)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.Identity.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "User found successfully!", toUserDTO(user))
}

func (s *Server) editProfile(w http.ResponseWriter, r *http.Request, userID string) {
	var body struct {
		Bio            *string `json:"bio"`
		Gender         *string `json:"gender"`
		ProfilePicture *string `json:"profilePicture"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid JSON body"})
		return
	}

	cmd := ports.UpdateProfileCmd{UserID: userID, Bio: body.Bio, ProfilePicture: body.ProfilePicture}
	if body.Gender != nil {
		g := domain.Gender(*body.Gender)
		cmd.Gender = &g
	}

	user, err := s.Identity.UpdateProfile(r.Context(), cmd)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "User profile updated successfully!", toUserDTO(user))
}

func (s *Server) suggestedUsers(w http.ResponseWriter, r *http.Request, userID string) {
	users, err := s.Identity.SuggestedUsers(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "Suggested Users found successfully!", toUserDTOs(users))
}

func (s *Server) toggleFollow(w http.ResponseWriter, r *http.Request, userID string) {
	state, err := s.Graph.ToggleFollow(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "Toggled follow successfully!", map[string]string{"state": string(state)})
}
