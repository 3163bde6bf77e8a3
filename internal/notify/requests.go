package notify

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// The four request records form a tagged union discriminated by endpoint.
// Field names mirror the JSON contract of the upstream application, which is
// Spanish-facing.

// ProviderData carries the identity and address fields of a newly registered
// transport provider. All fields are optional for rendering; absent values
// show as "-" in the message.
type ProviderData struct {
	Line          string `json:"linea"`
	LegalName     string `json:"razon"`
	FiscalAddress string `json:"direccionFiscal"`
	YardAddress   string `json:"direccionPatios"`
	Border        string `json:"frontera"`
	ContactPhone  string `json:"telefonoContacto"`
}

// ProviderRegistrationRequest announces a new provider to the administrator
// team, optionally carrying the provider's registration bundle as a ZIP.
type ProviderRegistrationRequest struct {
	ProviderID    string        `json:"providerId"`
	ProviderEmail string        `json:"providerEmail"`
	AdminEmails   []string      `json:"adminEmails"`
	ZipBase64     string        `json:"zipBase64"`
	ZipName       string        `json:"zipName"`
	Provider      *ProviderData `json:"providerData" validate:"required"`
}

// AccessCredentialsRequest delivers a freshly issued username/password pair
// to a single recipient.
type AccessCredentialsRequest struct {
	To       string `json:"to" validate:"required"`
	Username string `json:"usuario" validate:"required"`
	Password string `json:"contrasena" validate:"required"`
	Role     string `json:"rol"`
}

// AppointmentData describes a dock appointment. Fecha and Hora are required
// only for the pre-registration kind, checked in the pipeline.
type AppointmentData struct {
	Date          string `json:"fecha"`
	Time          string `json:"hora"`
	TransportType string `json:"tipoTransporte"`
	Driver        string `json:"operador"`
	Plates        string `json:"placas"`
	BoxNumber     string `json:"caja"`
	Sunday        bool   `json:"esDomingo"`
	CollectsBox   bool   `json:"recogeCaja"`
	Comments      string `json:"comentarios"`
}

// PreRegistrationRequest notifies a provider and the administrator team that
// an appointment has been pre-registered and awaits confirmation.
type PreRegistrationRequest struct {
	ProviderEmail string           `json:"providerEmail" validate:"required"`
	ProviderName  string           `json:"proveedor"`
	AppointmentID string           `json:"citaId"`
	Appointment   *AppointmentData `json:"cita" validate:"required"`
}

// ConfirmationRequest notifies a provider that an appointment was approved
// under a folio, attaching the bundled entry instructions when available.
type ConfirmationRequest struct {
	To          string           `json:"to" validate:"required"`
	Folio       string           `json:"folio" validate:"required"`
	Appointment *AppointmentData `json:"datosCita" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations using the wire names, not the Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest runs struct validation and converts the first violation
// into a field-specific ValidationError.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if ok := errors.As(err, &verrs); ok && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field()}
	}
	return &ValidationError{Message: err.Error()}
}
