// Package payload encodes an intake snapshot as multipart form data.
package payload

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/helmcode/patient-assistant/pkg/model"
)

// FilesField is the part name shared by every attachment.
const FilesField = "files"

// Payload is an encoded multipart body.
type Payload struct {
	Body        []byte
	ContentType string
	Fields      int
	Files       int
}

// quoteEscaper keeps a file name inside its quoted header value. Line breaks
// are percent-encoded so a name cannot start a new header.
var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"", "\r", "%0D", "\n", "%0A")

// Build writes every field as a text part in wire order, then every file as
// a binary part under FilesField with its original name.
func Build(fields model.FormFields, files []model.AttachedFile) (*Payload, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	pairs := fields.Pairs()
	for _, p := range pairs {
		if err := w.WriteField(p.Key, p.Value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", p.Key, err)
		}
	}

	for _, f := range files {
		part, err := w.CreatePart(fileHeader(f))
		if err != nil {
			return nil, fmt.Errorf("create part for %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("write part for %s: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	return &Payload{
		Body:        body.Bytes(),
		ContentType: w.FormDataContentType(),
		Fields:      len(pairs),
		Files:       len(files),
	}, nil
}

func fileHeader(f model.AttachedFile) textproto.MIMEHeader {
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		FilesField, quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", contentType)
	return h
}
