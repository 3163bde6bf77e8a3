package notify_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patiolink/notimail/internal/notify"
	"github.com/patiolink/notimail/internal/storage"
)

// --- stub dispatcher ---

type stubDispatcher struct {
	sent []notify.Outbound
	err  error
}

func (d *stubDispatcher) Dispatch(_ context.Context, msg notify.Outbound) (notify.DeliveryResult, error) {
	d.sent = append(d.sent, msg)
	if d.err != nil {
		return notify.DeliveryResult{}, d.err
	}
	return notify.DeliveryResult{StatusCode: 250}, nil
}

// --- stub delivery log ---

type stubDeliveryLog struct {
	entries []storage.DeliveryLogEntry
	err     error
}

func (s *stubDeliveryLog) LogDelivery(_ context.Context, entry storage.DeliveryLogEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubDeliveryLog) ListDeliveries(_ context.Context, _ int) ([]storage.DeliveryLogEntry, error) {
	return s.entries, nil
}

// --- fixture ---

type fixture struct {
	dir        *stubDirectory
	dispatcher *stubDispatcher
	docs       *stubDocs
	dlog       *stubDeliveryLog
	pipeline   *notify.Pipeline
}

func newFixture(t *testing.T, configured bool) *fixture {
	t.Helper()
	f := &fixture{
		dir:        &stubDirectory{emails: []string{"admin@corp.mx"}},
		dispatcher: &stubDispatcher{},
		docs:       &stubDocs{data: map[string][]byte{notify.EntryInstructionsDoc: []byte("%PDF-1.4")}},
		dlog:       &stubDeliveryLog{},
	}
	resolver := notify.NewResolver(f.dir, []int{1, 2}, testLogger())
	f.pipeline = notify.NewPipeline(configured, resolver, f.dispatcher, f.docs, f.dlog, testLogger())
	return f
}

func validConfirmation() notify.ConfirmationRequest {
	return notify.ConfirmationRequest{
		To:    "prov@x.com",
		Folio: "F-100",
		Appointment: &notify.AppointmentData{
			Date: "2026-09-01", Time: "08:30",
			TransportType: "caja seca", Driver: "J. Pérez", Plates: "ABC-123",
		},
	}
}

// --- configuration gate ---

func TestPipeline_NotConfiguredFailsEveryKind(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	errs := []error{
		f.pipeline.SendProviderRegistration(ctx, notify.ProviderRegistrationRequest{Provider: &notify.ProviderData{}}),
		f.pipeline.SendAccessCredentials(ctx, notify.AccessCredentialsRequest{To: "a@x.com", Username: "u", Password: "p"}),
		f.pipeline.SendPreRegistration(ctx, notify.PreRegistrationRequest{ProviderEmail: "a@x.com", Appointment: &notify.AppointmentData{Date: "d", Time: "t"}}),
		f.pipeline.SendConfirmation(ctx, validConfirmation()),
	}
	for _, err := range errs {
		assert.ErrorIs(t, err, notify.ErrNotConfigured)
	}
	assert.Zero(t, f.dir.calls)
	assert.Empty(t, f.dispatcher.sent)
}

// --- validation completeness ---

func TestPipeline_ValidationShortCircuits(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		send  func(p *notify.Pipeline) error
		field string
	}{
		{
			name:  "registration missing providerData",
			send:  func(p *notify.Pipeline) error { return p.SendProviderRegistration(ctx, notify.ProviderRegistrationRequest{}) },
			field: "providerData",
		},
		{
			name: "credentials missing to",
			send: func(p *notify.Pipeline) error {
				return p.SendAccessCredentials(ctx, notify.AccessCredentialsRequest{Username: "u", Password: "p"})
			},
			field: "to",
		},
		{
			name: "credentials missing usuario",
			send: func(p *notify.Pipeline) error {
				return p.SendAccessCredentials(ctx, notify.AccessCredentialsRequest{To: "a@x.com", Password: "p"})
			},
			field: "usuario",
		},
		{
			name: "credentials missing contrasena",
			send: func(p *notify.Pipeline) error {
				return p.SendAccessCredentials(ctx, notify.AccessCredentialsRequest{To: "a@x.com", Username: "u"})
			},
			field: "contrasena",
		},
		{
			name: "preregistration missing providerEmail",
			send: func(p *notify.Pipeline) error {
				return p.SendPreRegistration(ctx, notify.PreRegistrationRequest{Appointment: &notify.AppointmentData{Date: "d", Time: "t"}})
			},
			field: "providerEmail",
		},
		{
			name: "preregistration missing cita",
			send: func(p *notify.Pipeline) error {
				return p.SendPreRegistration(ctx, notify.PreRegistrationRequest{ProviderEmail: "a@x.com"})
			},
			field: "cita",
		},
		{
			name: "preregistration missing cita.fecha",
			send: func(p *notify.Pipeline) error {
				return p.SendPreRegistration(ctx, notify.PreRegistrationRequest{ProviderEmail: "a@x.com", Appointment: &notify.AppointmentData{Time: "08:30"}})
			},
			field: "cita.fecha",
		},
		{
			name: "preregistration missing cita.hora",
			send: func(p *notify.Pipeline) error {
				return p.SendPreRegistration(ctx, notify.PreRegistrationRequest{ProviderEmail: "a@x.com", Appointment: &notify.AppointmentData{Date: "2026-09-01"}})
			},
			field: "cita.hora",
		},
		{
			name: "confirmation missing to",
			send: func(p *notify.Pipeline) error {
				req := validConfirmation()
				req.To = ""
				return p.SendConfirmation(ctx, req)
			},
			field: "to",
		},
		{
			name: "confirmation missing folio",
			send: func(p *notify.Pipeline) error {
				req := validConfirmation()
				req.Folio = ""
				return p.SendConfirmation(ctx, req)
			},
			field: "folio",
		},
		{
			name: "confirmation missing datosCita",
			send: func(p *notify.Pipeline) error {
				req := validConfirmation()
				req.Appointment = nil
				return p.SendConfirmation(ctx, req)
			},
			field: "datosCita",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			err := tt.send(f.pipeline)

			var verr *notify.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)

			// No directory or provider call may happen on a validation failure.
			assert.Zero(t, f.dir.calls)
			assert.Empty(t, f.dispatcher.sent)
		})
	}
}

// --- scenarios ---

func TestSendAccessCredentials_NormalizesRecipient(t *testing.T) {
	f := newFixture(t, true)

	err := f.pipeline.SendAccessCredentials(context.Background(), notify.AccessCredentialsRequest{
		To: "  User@X.com ", Username: "jdoe", Password: "p@ss1", Role: "",
	})
	require.NoError(t, err)

	require.Len(t, f.dispatcher.sent, 1)
	msg := f.dispatcher.sent[0]
	assert.Equal(t, notify.RecipientSet{"user@x.com"}, msg.Recipients)
	assert.Contains(t, msg.Content.Text, "Rol: "+notify.DefaultRole)
	assert.Zero(t, f.dir.calls, "explicit recipient skips the directory")
}

func TestSendProviderRegistration_DirectoryFallbackDedups(t *testing.T) {
	f := newFixture(t, true)
	f.dir.emails = []string{"a@x.com", "A@X.com"}

	err := f.pipeline.SendProviderRegistration(context.Background(), notify.ProviderRegistrationRequest{
		Provider: &notify.ProviderData{LegalName: "Transportes Norte SA"},
	})
	require.NoError(t, err)

	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, notify.RecipientSet{"a@x.com"}, f.dispatcher.sent[0].Recipients)
}

func TestSendProviderRegistration_AttachesClientZip(t *testing.T) {
	f := newFixture(t, true)

	err := f.pipeline.SendProviderRegistration(context.Background(), notify.ProviderRegistrationRequest{
		AdminEmails: []string{"ops@corp.mx"},
		ZipBase64:   base64.StdEncoding.EncodeToString([]byte("zip-bytes")),
		ZipName:     "alta-proveedor.zip",
		Provider:    &notify.ProviderData{},
	})
	require.NoError(t, err)

	require.Len(t, f.dispatcher.sent, 1)
	att := f.dispatcher.sent[0].Attachment
	require.NotNil(t, att)
	assert.Equal(t, "alta-proveedor.zip", att.Filename)
	assert.Equal(t, notify.MIMETypeZip, att.MIMEType)
}

func TestSendProviderRegistration_NoAdminsAnywhere(t *testing.T) {
	f := newFixture(t, true)
	f.dir.emails = nil

	err := f.pipeline.SendProviderRegistration(context.Background(), notify.ProviderRegistrationRequest{
		Provider: &notify.ProviderData{},
	})
	assert.ErrorIs(t, err, notify.ErrNoRecipients)
	assert.Empty(t, f.dispatcher.sent)
}

func TestSendPreRegistration_UnionsProviderAndAdmins(t *testing.T) {
	f := newFixture(t, true)

	err := f.pipeline.SendPreRegistration(context.Background(), notify.PreRegistrationRequest{
		ProviderEmail: "Prov@X.com",
		Appointment:   &notify.AppointmentData{Date: "2026-09-01", Time: "08:30"},
	})
	require.NoError(t, err)

	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, notify.RecipientSet{"prov@x.com", "admin@corp.mx"}, f.dispatcher.sent[0].Recipients)
	assert.Equal(t, 1, f.dir.calls, "pre-registration always queries the directory")
}

func TestSendConfirmation_UnreadableDocumentDegrades(t *testing.T) {
	f := newFixture(t, true)
	f.docs.err = errors.New("io error")

	err := f.pipeline.SendConfirmation(context.Background(), validConfirmation())
	require.NoError(t, err, "attachment failure must not fail the notification")

	require.Len(t, f.dispatcher.sent, 1)
	assert.Nil(t, f.dispatcher.sent[0].Attachment)
}

func TestSendConfirmation_AttachesEntryInstructions(t *testing.T) {
	f := newFixture(t, true)

	err := f.pipeline.SendConfirmation(context.Background(), validConfirmation())
	require.NoError(t, err)

	require.Len(t, f.dispatcher.sent, 1)
	att := f.dispatcher.sent[0].Attachment
	require.NotNil(t, att)
	assert.Equal(t, notify.EntryInstructionsDoc, att.Filename)
	assert.Equal(t, notify.MIMETypePDF, att.MIMEType)
}

func TestPipeline_ProviderRejectionSurfaces(t *testing.T) {
	f := newFixture(t, true)
	f.dispatcher.err = &notify.DeliveryError{Detail: "550 mailbox unavailable"}

	err := f.pipeline.SendAccessCredentials(context.Background(), notify.AccessCredentialsRequest{
		To: "a@x.com", Username: "u", Password: "p",
	})

	var derr *notify.DeliveryError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "550 mailbox unavailable", derr.Detail)
	assert.Len(t, f.dispatcher.sent, 1, "exactly one attempt, no retry")
}

func TestPipeline_RecordsDeliveryLog(t *testing.T) {
	f := newFixture(t, true)

	err := f.pipeline.SendConfirmation(context.Background(), validConfirmation())
	require.NoError(t, err)

	require.Len(t, f.dlog.entries, 1)
	entry := f.dlog.entries[0]
	assert.Equal(t, notify.KindConfirmation, entry.Kind)
	assert.Equal(t, "sent", entry.Status)
	assert.Equal(t, 1, entry.Recipients)
	assert.NotEmpty(t, entry.ID)
}

func TestPipeline_DeliveryLogFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, true)
	f.dlog.err = errors.New("db locked")

	err := f.pipeline.SendConfirmation(context.Background(), validConfirmation())
	assert.NoError(t, err)
}
