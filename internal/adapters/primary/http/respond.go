package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
)

// Enveloppe de réponse héritée de l'API v1 : les clients existants
// s'attendent à {success, message, data}.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.Logger.Error("could not encode JSON body", "error", err)
	}
}

func (s *Server) respondOK(w http.ResponseWriter, message string, data any) {
	s.respond(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// respondError traduit la taxonomie du domaine en statuts HTTP.
// Toutes ces erreurs sont récupérables : jamais de panique, jamais de 500
// pour une erreur métier.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrSelfReference):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		// Erreur technique : on logue le détail, le client reçoit un message neutre.
		s.Logger.Error("internal error", "error", err)
		s.respond(w, status, envelope{Success: false, Message: "Internal Server Error"})
		return
	}

	s.respond(w, status, envelope{Success: false, Message: err.Error()})
}
