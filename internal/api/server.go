// Package api exposes the notification endpoints over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/patiolink/notimail/internal/notify"
)

// Server holds all dependencies for the REST API handlers.
type Server struct {
	pipeline *notify.Pipeline
	logger   *slog.Logger
}

// New creates a new API Server backed by the notification pipeline.
func New(pipeline *notify.Pipeline, logger *slog.Logger) *Server {
	return &Server{pipeline: pipeline, logger: logger}
}

// Mount registers all API routes under the given router. Each notification
// endpoint accepts POST and answers OPTIONS preflight with 204; any other
// method gets the uniform 405 body.
func (s *Server) Mount(r chi.Router) {
	r.MethodNotAllowed(MethodNotAllowed)

	r.Post("/notify/provider-registration", s.handleProviderRegistration)
	r.Post("/notify/access-credentials", s.handleAccessCredentials)
	r.Post("/notify/appointment-preregistration", s.handlePreRegistration)
	r.Post("/notify/appointment-confirmation", s.handleConfirmation)

	for _, path := range []string{
		"/notify/provider-registration",
		"/notify/access-credentials",
		"/notify/appointment-preregistration",
		"/notify/appointment-confirmation",
	} {
		r.Options(path, Preflight)
	}
}

// response is the uniform body shape of every endpoint.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Preflight answers a no-op OPTIONS request.
func Preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// MethodNotAllowed rejects any non-POST/non-OPTIONS method with the uniform
// failure body.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, response{Success: false, Message: "Method Not Allowed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, response{Success: true, Message: msg})
}

func writeFailure(w http.ResponseWriter, status int, msg, detail string) {
	writeJSON(w, status, response{Success: false, Message: msg, Error: detail})
}

// User-facing messages. The application is Spanish-facing.
const (
	msgNotConfigured = "El servicio de correo no está configurado en el servidor."
	msgNoRecipients  = "No hay destinatarios administradores configurados."
	msgDeliveryFail  = "No se pudo enviar el correo."
	msgBadBody       = "Cuerpo de la petición inválido."
	msgInternal      = "Error interno del servidor."
)

// respondError maps a pipeline error to the HTTP status and message the
// contract defines. Validation errors are caller-induced (400); everything
// else is a server-side failure (500).
func (s *Server) respondError(w http.ResponseWriter, err error) {
	var verr *notify.ValidationError
	var derr *notify.DeliveryError

	switch {
	case errors.Is(err, notify.ErrNotConfigured):
		writeFailure(w, http.StatusInternalServerError, msgNotConfigured, "")
	case errors.As(err, &verr):
		msg := verr.Message
		if msg == "" {
			msg = fmt.Sprintf("Falta el campo obligatorio '%s'.", verr.Field)
		}
		writeFailure(w, http.StatusBadRequest, msg, "")
	case errors.Is(err, notify.ErrNoRecipients):
		writeFailure(w, http.StatusInternalServerError, msgNoRecipients, "")
	case errors.As(err, &derr):
		writeFailure(w, http.StatusInternalServerError, msgDeliveryFail, derr.Detail)
	default:
		s.logger.Error("unexpected pipeline error", slog.Any("error", err))
		writeFailure(w, http.StatusInternalServerError, msgInternal, err.Error())
	}
}
