// Package transferenc decodes MIME content-transfer-encodings and renders
// decoded bodies as data: URIs.
package transferenc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime/quotedprintable"
	"net/url"
	"strings"
)

// Transfer encodings recognised in part headers. Anything else is passed
// through unchanged, like 7bit.
const (
	Base64          = "base64"
	QuotedPrintable = "quoted-printable"
	SevenBit        = "7bit"
	EightBit        = "8bit"
	Binary          = "binary"
)

// Decode decodes body according to the named content-transfer-encoding.
// Unknown encodings are treated as identity.
func Decode(encoding string, body []byte) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case Base64:
		return DecodeBase64(body)
	case QuotedPrintable:
		return DecodeQuotedPrintable(body)
	default:
		return body, nil
	}
}

// DecodeBase64 decodes a standard-alphabet base64 body. Interior whitespace
// and line folds are tolerated; padding is required and characters outside
// the alphabet are rejected.
func DecodeBase64(body []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, body)

	out := make([]byte, base64.StdEncoding.DecodedLen(len(cleaned)))
	n, err := base64.StdEncoding.Decode(out, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return out[:n], nil
}

// DecodeQuotedPrintable decodes =HH escapes and soft line breaks.
func DecodeQuotedPrintable(body []byte) ([]byte, error) {
	out, err := io.ReadAll(quotedprintable.NewReader(bytes.NewReader(body)))
	if err != nil {
		return nil, fmt.Errorf("decode quoted-printable: %w", err)
	}
	return out, nil
}

// DataURI renders decoded bytes as a data: URI. Textual payloads (those that
// arrived quoted-printable) keep their UTF-8 form behind percent-encoding so
// the text survives round-tripping; everything else is base64.
func DataURI(contentType string, textual bool, decoded []byte) string {
	if textual {
		return "data:" + contentType + ";utf8," + url.PathEscape(string(decoded))
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(decoded)
}
