package notify

import (
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/patiolink/notimail/internal/docstore"
)

// MIME types are fixed per notification kind; callers never choose them.
const (
	MIMETypeZip = "application/zip"
	MIMETypePDF = "application/pdf"
)

// Attachment is a single binary artifact carried by a message. Content holds
// raw bytes; base64 encoding exists only at the HTTP boundary.
type Attachment struct {
	Filename string
	MIMEType string
	Content  []byte
}

// ClientAttachment decodes a caller-supplied base64 payload into an
// Attachment. When either the content or the filename is absent no
// attachment is produced, which is not an error. A payload that is present
// but not valid base64 is a caller mistake and fails.
func ClientAttachment(contentB64, filename, mimeType string) (*Attachment, error) {
	if contentB64 == "" || filename == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(contentB64)
	if err != nil {
		return nil, &ValidationError{Field: "zipBase64", Message: fmt.Sprintf("attachment content is not valid base64: %v", err)}
	}
	return &Attachment{Filename: filename, MIMEType: mimeType, Content: raw}, nil
}

// StaticAttachment loads a bundled document from the static document store.
// A load failure never aborts the notification: it is logged as a warning
// and the message goes out without the attachment.
func StaticAttachment(docs docstore.Store, name, mimeType string, logger *slog.Logger) *Attachment {
	raw, err := docs.Read(name)
	if err != nil {
		logger.Warn("static document unavailable, sending without attachment",
			slog.String("document", name),
			slog.Any("error", err))
		return nil
	}
	return &Attachment{Filename: name, MIMEType: mimeType, Content: raw}
}
