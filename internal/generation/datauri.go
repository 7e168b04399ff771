package generation

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ParseDataURI decodes a base64 data URI of the form
// data:<mime>;base64,<payload>.
func ParseDataURI(uri string) (Media, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return Media{}, fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURI)
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Media{}, fmt.Errorf("%w: missing payload separator", ErrInvalidDataURI)
	}

	mimeType, encoding, ok := strings.Cut(meta, ";")
	if !ok || !strings.EqualFold(strings.TrimSpace(encoding), "base64") {
		return Media{}, fmt.Errorf("%w: only base64 encoding is supported", ErrInvalidDataURI)
	}
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" || !strings.Contains(mimeType, "/") {
		return Media{}, fmt.Errorf("%w: invalid MIME type %q", ErrInvalidDataURI, mimeType)
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return Media{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if len(data) == 0 {
		return Media{}, fmt.Errorf("%w: empty payload", ErrInvalidDataURI)
	}

	return Media{MIMEType: strings.ToLower(mimeType), Data: data}, nil
}
