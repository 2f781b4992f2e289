package imgfmt

import (
	"encoding/base64"
	"strings"
)

const (
	base64LineLength = 64
	dataURIScheme    = "data:"
	dataURIMarker    = ";base64,"
)

// Base64Encode returns data as a data URI ("data:<mime>;base64,...") with
// the payload wrapped at 64 characters per line. The MIME type comes from
// Detect. Empty input yields false.
func Base64Encode(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	raw := base64.StdEncoding.EncodeToString(data)

	var sb strings.Builder
	sb.Grow(len(raw) + len(raw)/base64LineLength*2 + 64)
	sb.WriteString(dataURIScheme)
	sb.WriteString(Detect(data).MIMEType())
	sb.WriteString(dataURIMarker)
	for i := 0; i < len(raw); i += base64LineLength {
		if i > 0 {
			sb.WriteString("\r\n")
		}
		end := min(i+base64LineLength, len(raw))
		sb.WriteString(raw[i:end])
	}
	return sb.String(), true
}

// Base64Decode decodes a plain base64 string or a base64 data URI. Spaces and
// line breaks are stripped and characters outside the base64 alphabet are
// ignored. Empty input or an undecodable payload yields false.
func Base64Decode(s string) ([]byte, bool) {
	if s == "" {
		return nil, false
	}
	s = strings.NewReplacer(" ", "", "\r", "", "\n", "").Replace(s)
	if strings.HasPrefix(s, dataURIScheme) {
		if i := strings.Index(s, dataURIMarker); i >= 0 {
			s = s[i+len(dataURIMarker):]
		}
	}

	clean := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; isBase64Char(c) {
			clean = append(clean, c)
		}
	}
	payload := strings.TrimRight(string(clean), "=")
	if payload == "" {
		return nil, false
	}
	out, err := base64.RawStdEncoding.DecodeString(payload)
	if err != nil || len(out) == 0 {
		return nil, false
	}
	return out, true
}

func isBase64Char(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '+', c == '/', c == '=':
		return true
	}
	return false
}
