// Package notify implements the notification pipeline: recipient
// resolution, message composition, attachment loading, and dispatch to the
// transactional delivery provider.
package notify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/patiolink/notimail/internal/docstore"
	"github.com/patiolink/notimail/internal/metrics"
	"github.com/patiolink/notimail/internal/storage"
)

// Notification kinds, used for logging and metrics labels.
const (
	KindProviderRegistration = "provider_registration"
	KindAccessCredentials    = "access_credentials"
	KindPreRegistration      = "appointment_preregistration"
	KindConfirmation         = "appointment_confirmation"
)

// EntryInstructionsDoc is the bundled document attached to confirmation
// messages when readable.
const EntryInstructionsDoc = "instrucciones-ingreso.pdf"

// Pipeline orchestrates one notification per call: validate, resolve
// recipients, compose, attach, dispatch. It holds no per-request state and
// is safe for concurrent use.
type Pipeline struct {
	configured  bool
	resolver    *Resolver
	dispatcher  Dispatcher
	docs        docstore.Store
	deliveryLog storage.DeliveryLogStore
	logger      *slog.Logger
}

// NewPipeline assembles a Pipeline. configured reports whether the delivery
// provider credential is present; when false every send fails with
// ErrNotConfigured. deliveryLog may be nil to disable outcome logging.
func NewPipeline(configured bool, resolver *Resolver, dispatcher Dispatcher,
	docs docstore.Store, deliveryLog storage.DeliveryLogStore, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		configured:  configured,
		resolver:    resolver,
		dispatcher:  dispatcher,
		docs:        docs,
		deliveryLog: deliveryLog,
		logger:      logger,
	}
}

// SendProviderRegistration announces a new provider to the administrator
// team. Explicit admin addresses take precedence over the directory lookup;
// a caller-supplied ZIP bundle is attached when present.
func (p *Pipeline) SendProviderRegistration(ctx context.Context, req ProviderRegistrationRequest) error {
	if err := p.precheck(KindProviderRegistration, req); err != nil {
		return err
	}

	recipients, err := p.resolver.Resolve(ctx, req.AdminEmails)
	if err != nil {
		return p.fail(KindProviderRegistration, "no_recipients", err)
	}

	content := ComposeProviderRegistration(req)

	att, err := ClientAttachment(req.ZipBase64, req.ZipName, MIMETypeZip)
	if err != nil {
		return p.fail(KindProviderRegistration, "invalid", err)
	}

	return p.deliver(ctx, KindProviderRegistration, recipients, content, att)
}

// SendAccessCredentials delivers an issued username/password pair to the
// requested address.
func (p *Pipeline) SendAccessCredentials(ctx context.Context, req AccessCredentialsRequest) error {
	if err := p.precheck(KindAccessCredentials, req); err != nil {
		return err
	}

	recipients, err := p.resolver.Resolve(ctx, []string{req.To})
	if err != nil {
		return p.fail(KindAccessCredentials, "no_recipients", err)
	}

	content := ComposeAccessCredentials(req)
	return p.deliver(ctx, KindAccessCredentials, recipients, content, nil)
}

// SendPreRegistration notifies the provider and the administrator team of a
// pre-registered appointment. The directory is always queried and the
// provider address is always included.
func (p *Pipeline) SendPreRegistration(ctx context.Context, req PreRegistrationRequest) error {
	if err := p.precheck(KindPreRegistration, req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Appointment.Date) == "" {
		return p.fail(KindPreRegistration, "invalid", &ValidationError{Field: "cita.fecha"})
	}
	if strings.TrimSpace(req.Appointment.Time) == "" {
		return p.fail(KindPreRegistration, "invalid", &ValidationError{Field: "cita.hora"})
	}

	recipients, err := p.resolver.ResolveWithSubject(ctx, req.ProviderEmail)
	if err != nil {
		return p.fail(KindPreRegistration, "no_recipients", err)
	}

	content := ComposePreRegistration(req)
	return p.deliver(ctx, KindPreRegistration, recipients, content, nil)
}

// SendConfirmation notifies the provider of a confirmed appointment,
// attaching the bundled entry instructions when the document store can
// provide them. An unreadable document degrades to no attachment.
func (p *Pipeline) SendConfirmation(ctx context.Context, req ConfirmationRequest) error {
	if err := p.precheck(KindConfirmation, req); err != nil {
		return err
	}

	recipients, err := p.resolver.Resolve(ctx, []string{req.To})
	if err != nil {
		return p.fail(KindConfirmation, "no_recipients", err)
	}

	content := ComposeConfirmation(req)
	att := StaticAttachment(p.docs, EntryInstructionsDoc, MIMETypePDF, p.logger)

	return p.deliver(ctx, KindConfirmation, recipients, content, att)
}

// precheck enforces the configuration gate and schema validation common to
// every kind. Both short-circuit before any directory or provider call.
func (p *Pipeline) precheck(kind string, req any) error {
	if !p.configured {
		return p.fail(kind, "not_configured", ErrNotConfigured)
	}
	if err := validateRequest(req); err != nil {
		return p.fail(kind, "invalid", err)
	}
	return nil
}

// fail counts a pipeline failure and passes the error through.
func (p *Pipeline) fail(kind, status string, err error) error {
	metrics.NotificationsTotal.WithLabelValues(kind, status).Inc()
	return err
}

// deliver submits the assembled message and records the outcome.
func (p *Pipeline) deliver(ctx context.Context, kind string, recipients RecipientSet,
	content MessageContent, att *Attachment) error {
	start := time.Now()
	res, err := p.dispatcher.Dispatch(ctx, Outbound{
		Recipients: recipients,
		Content:    content,
		Attachment: att,
	})
	metrics.DispatchDuration.Observe(time.Since(start).Seconds())

	entry := storage.DeliveryLogEntry{
		ID:         uuid.NewString(),
		Kind:       kind,
		Subject:    content.Subject,
		Recipients: len(recipients),
		Status:     "sent",
		CreatedAt:  time.Now().UTC(),
	}

	if err != nil {
		entry.Status = "failed"
		entry.ErrorMsg = err.Error()
		p.logDelivery(ctx, entry)
		p.logger.Error("delivery provider rejected message",
			slog.String("kind", kind),
			slog.Int("recipients", len(recipients)),
			slog.Any("error", err))
		return p.fail(kind, "rejected", err)
	}

	p.logDelivery(ctx, entry)
	metrics.NotificationsTotal.WithLabelValues(kind, "sent").Inc()
	p.logger.Info("notification sent",
		slog.String("kind", kind),
		slog.Int("recipients", len(recipients)),
		slog.Int("status_code", res.StatusCode))
	return nil
}

// logDelivery writes the outcome log entry. Failures are logged and
// swallowed; the log is best-effort observability, not part of the result.
func (p *Pipeline) logDelivery(ctx context.Context, entry storage.DeliveryLogEntry) {
	if p.deliveryLog == nil {
		return
	}
	if err := p.deliveryLog.LogDelivery(ctx, entry); err != nil {
		p.logger.Warn("failed to record delivery log entry", slog.Any("error", err))
	}
}
