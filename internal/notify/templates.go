package notify

import (
	"bytes"
	"html/template"
	"strings"
)

// emailRow is a single label/value line in the HTML body. Values are
// pre-escaped by htmlText, so they bypass the template's auto-escaping.
type emailRow struct {
	Label string
	Value template.HTML
}

// emailData feeds the shared HTML layout.
type emailData struct {
	Subject string
	Intro   string
	Rows    []emailRow
	Footer  string
}

// emailTmpl is the HTML wrapper applied to every outgoing notification.
var emailTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1.0">
  <title>{{.Subject}}</title>
</head>
<body style="margin:0;padding:0;background-color:#f4f4f5;
     font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Arial,sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0" role="presentation"
         style="background-color:#f4f4f5;padding:32px 16px;">
    <tr>
      <td align="center">
        <table width="600" cellpadding="0" cellspacing="0" role="presentation"
               style="max-width:600px;width:100%;background-color:#ffffff;border-radius:8px;overflow:hidden;">
          <tr>
            <td style="background-color:#14532d;padding:20px 32px;">
              <span style="font-size:18px;font-weight:700;color:#ffffff;">Portal de Citas</span>
            </td>
          </tr>
          <tr>
            <td style="padding:16px 32px;border-left:3px solid #16a34a;background-color:#f0fdf4;">
              <p style="margin:0;font-size:15px;font-weight:600;color:#14532d;">{{.Subject}}</p>
            </td>
          </tr>
          <tr>
            <td style="padding:28px 32px;">
              <p style="margin:0 0 20px 0;font-size:14px;line-height:1.6;color:#374151;">{{.Intro}}</p>
              <table width="100%" cellpadding="0" cellspacing="0" role="presentation"
                     style="border-collapse:collapse;">
                {{- range .Rows}}
                <tr>
                  <td style="padding:8px 12px;border:1px solid #e5e7eb;background-color:#f9fafb;
                             font-size:13px;font-weight:600;color:#4b5563;width:40%;">{{.Label}}</td>
                  <td style="padding:8px 12px;border:1px solid #e5e7eb;
                             font-size:13px;color:#111827;">{{.Value}}</td>
                </tr>
                {{- end}}
              </table>
              {{- if .Footer}}
              <p style="margin:20px 0 0 0;font-size:13px;line-height:1.6;color:#6b7280;">{{.Footer}}</p>
              {{- end}}
            </td>
          </tr>
          <tr>
            <td style="background-color:#f9fafb;padding:16px 32px;border-top:1px solid #e5e7eb;">
              <p style="margin:0;font-size:12px;color:#9ca3af;">
                Este es un mensaje automático del portal de citas. No responda a este correo.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`))

// htmlText escapes caller-supplied text for HTML interpolation and converts
// newlines to line breaks. Escaping is applied to every field uniformly.
func htmlText(s string) template.HTML {
	esc := template.HTMLEscapeString(s)
	esc = strings.ReplaceAll(esc, "\r\n", "\n")
	esc = strings.ReplaceAll(esc, "\n", "<br>")
	return template.HTML(esc) //nolint:gosec // escaped above
}

// buildEmailHTML renders the shared layout with the given data.
func buildEmailHTML(data emailData) (string, error) {
	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
