package api

import (
	"encoding/json"
	"net/http"

	"github.com/patiolink/notimail/internal/notify"
)

// handleProviderRegistration notifies administrators of a new provider
// registration, optionally attaching the caller-supplied ZIP bundle.
func (s *Server) handleProviderRegistration(w http.ResponseWriter, r *http.Request) {
	var req notify.ProviderRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, msgBadBody, "")
		return
	}
	if err := s.pipeline.SendProviderRegistration(r.Context(), req); err != nil {
		s.respondError(w, err)
		return
	}
	writeSuccess(w, "Correo de alta de proveedor enviado correctamente.")
}

// handleAccessCredentials delivers freshly issued portal credentials.
func (s *Server) handleAccessCredentials(w http.ResponseWriter, r *http.Request) {
	var req notify.AccessCredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, msgBadBody, "")
		return
	}
	if err := s.pipeline.SendAccessCredentials(r.Context(), req); err != nil {
		s.respondError(w, err)
		return
	}
	writeSuccess(w, "Correo de credenciales enviado correctamente.")
}

// handlePreRegistration notifies the provider and administrators of an
// appointment pre-registration.
func (s *Server) handlePreRegistration(w http.ResponseWriter, r *http.Request) {
	var req notify.PreRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, msgBadBody, "")
		return
	}
	if err := s.pipeline.SendPreRegistration(r.Context(), req); err != nil {
		s.respondError(w, err)
		return
	}
	writeSuccess(w, "Correo de pre-registro de cita enviado correctamente.")
}

// handleConfirmation notifies the provider of a confirmed appointment with
// its folio.
func (s *Server) handleConfirmation(w http.ResponseWriter, r *http.Request) {
	var req notify.ConfirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, msgBadBody, "")
		return
	}
	if err := s.pipeline.SendConfirmation(r.Context(), req); err != nil {
		s.respondError(w, err)
		return
	}
	writeSuccess(w, "Correo de confirmación de cita enviado correctamente.")
}
