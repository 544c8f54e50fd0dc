// internal/common/normalize/payload.go
package normalize

// Kind tags which fields of a Payload are meaningful.
type Kind string

const (
	KindEmpty        Kind = "empty"
	KindText         Kind = "text"
	KindStructured   Kind = "structured"
	KindUnstructured Kind = "unstructured"
	KindBinary       Kind = "binary"
	KindImage        Kind = "image"
)

// Payload is a provider response resolved once into a single shape.
//
//	text          Text
//	structured    Object (and Text, the JSON it came from)
//	unstructured  Text and ParseErr
//	binary        Data and MIMEType
//	image         URI, or Data and MIMEType
type Payload struct {
	Kind     Kind
	Text     string
	Object   map[string]interface{}
	Data     []byte
	MIMEType string
	URI      string

	// ParseErr explains why a lenient structured parse degraded to
	// unstructured text.
	ParseErr error
}

// DataURL renders an inline image as a data: URL. URI payloads are returned as is.
func (p *Payload) DataURL() string {
	if p.URI != "" {
		return p.URI
	}
	if len(p.Data) == 0 {
		return ""
	}
	return "data:" + p.MIMEType + ";base64," + encodeBase64(p.Data)
}
