package notify

import (
	"fmt"
	"strings"
)

// MessageContent is the rendered subject and bodies for one notification.
// Composition is a pure function of the request; it never fails the
// pipeline.
type MessageContent struct {
	Subject string
	Text    string
	HTML    string
}

// DefaultRole is rendered when the access-credentials request carries no
// role.
const DefaultRole = "Usuario"

// placeholder keeps the rendered layout stable when an optional field is
// absent.
const placeholder = "-"

type field struct {
	label string
	value string
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

// renderContent assembles both bodies from one field list so the plain-text
// and HTML variants cannot drift apart. Field values pass through orDash
// here; free-text escaping happens only on the HTML side.
func renderContent(subject, intro string, fields []field, footer string) MessageContent {
	var text strings.Builder
	text.WriteString(intro)
	text.WriteString("\n\n")
	rows := make([]emailRow, 0, len(fields))
	for _, f := range fields {
		v := orDash(f.value)
		fmt.Fprintf(&text, "%s: %s\n", f.label, v)
		rows = append(rows, emailRow{Label: f.label, Value: htmlText(v)})
	}
	if footer != "" {
		text.WriteString("\n")
		text.WriteString(footer)
		text.WriteString("\n")
	}

	html, err := buildEmailHTML(emailData{Subject: subject, Intro: intro, Rows: rows, Footer: footer})
	if err != nil {
		// The layout template is static; execution can only fail on a
		// programming error. Fall back to the plain body.
		html = "<pre>" + string(htmlText(text.String())) + "</pre>"
	}

	return MessageContent{Subject: subject, Text: text.String(), HTML: html}
}

// ComposeProviderRegistration renders the administrator-facing announcement
// of a newly registered provider.
func ComposeProviderRegistration(req ProviderRegistrationRequest) MessageContent {
	p := req.Provider
	fields := []field{
		{"Línea de transporte", p.Line},
		{"Razón social", p.LegalName},
		{"Dirección fiscal", p.FiscalAddress},
		{"Dirección de patios", p.YardAddress},
		{"Frontera", p.Border},
		{"Teléfono de contacto", p.ContactPhone},
		{"Correo del proveedor", req.ProviderEmail},
		{"ID del proveedor", req.ProviderID},
	}
	return renderContent(
		"Alta de nuevo proveedor",
		"Se ha registrado un nuevo proveedor en el portal de citas. Estos son sus datos:",
		fields,
		"Revise la documentación adjunta antes de habilitar al proveedor.",
	)
}

// ComposeAccessCredentials renders the credential-issuance message. A blank
// role falls back to DefaultRole instead of failing.
func ComposeAccessCredentials(req AccessCredentialsRequest) MessageContent {
	role := req.Role
	if strings.TrimSpace(role) == "" {
		role = DefaultRole
	}
	fields := []field{
		{"Usuario", req.Username},
		{"Contraseña", req.Password},
		{"Rol", role},
	}
	return renderContent(
		"Credenciales de acceso al portal de citas",
		"Se han generado sus credenciales de acceso al portal de citas:",
		fields,
		"Por seguridad, cambie su contraseña la primera vez que inicie sesión.",
	)
}

func appointmentFields(a *AppointmentData) []field {
	return []field{
		{"Fecha", a.Date},
		{"Hora", a.Time},
		{"Tipo de transporte", a.TransportType},
		{"Operador", a.Driver},
		{"Placas", a.Plates},
		{"Caja", a.BoxNumber},
		{"Cita en domingo", yesNo(a.Sunday)},
		{"Recoge caja", yesNo(a.CollectsBox)},
		{"Comentarios", a.Comments},
	}
}

// ComposePreRegistration renders the pre-registration notice sent to the
// provider and the administrator team.
func ComposePreRegistration(req PreRegistrationRequest) MessageContent {
	fields := append([]field{
		{"Proveedor", req.ProviderName},
		{"ID de cita", req.AppointmentID},
	}, appointmentFields(req.Appointment)...)
	return renderContent(
		fmt.Sprintf("Pre-registro de cita para el %s", orDash(req.Appointment.Date)),
		"Se ha pre-registrado una cita en el portal. La cita queda pendiente de confirmación:",
		fields,
		"Recibirá un folio de confirmación cuando la cita sea aprobada.",
	)
}

// ComposeConfirmation renders the appointment-confirmation message carrying
// the assigned folio.
func ComposeConfirmation(req ConfirmationRequest) MessageContent {
	fields := append([]field{
		{"Folio", req.Folio},
	}, appointmentFields(req.Appointment)...)
	return renderContent(
		fmt.Sprintf("Confirmación de cita | Folio %s", req.Folio),
		"Su cita ha sido confirmada. Presente el folio al llegar a patios:",
		fields,
		"Si recibió instrucciones de ingreso adjuntas, léalas antes de su llegada.",
	)
}
