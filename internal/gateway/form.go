package gateway

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// File is an attachment selected by the user: photos, witness photos,
// identity documents. Content is held in memory; the backend owns storage.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// Empty reports whether there is anything to upload.
func (f *File) Empty() bool {
	return f == nil || len(f.Content) == 0
}

type filePart struct {
	field string
	file  File
}

// Form builds a multipart request body. Field order is preserved, matching
// what the backend's multipart parsers see from the browser client.
type Form struct {
	fields [][2]string
	files  []filePart
}

func NewForm() *Form {
	return &Form{}
}

// Set appends a plain text field.
func (f *Form) Set(field, value string) {
	f.fields = append(f.fields, [2]string{field, value})
}

// Attach appends a file field. Nil or empty files are skipped; required
// attachments are validated by the workflows before the form is built.
func (f *Form) Attach(field string, file *File) {
	if file.Empty() {
		return
	}
	f.files = append(f.files, filePart{field: field, file: *file})
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (f *Form) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return nil, "", err
		}
	}
	for _, part := range f.files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(part.field), quoteEscaper.Replace(part.file.Name)))
		contentType := part.file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		w, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := w.Write(part.file.Content); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
