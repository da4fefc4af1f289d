package http

import (
	"encoding/json"
	"net/http"
)

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request, userID string) {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid JSON body"})
		return
	}

	msg, err := s.Chat.SendMessage(r.Context(), userID, r.PathValue("receiverId"), body.Message)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, envelope{Success: true, Message: "Message sent successfully!", Data: toMessageDTO(msg)})
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request, userID string) {
	messages, err := s.Chat.GetConversation(r.Context(), userID, r.PathValue("receiverId"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondOK(w, "Conversation found successfully!", toMessageDTOs(messages))
}
