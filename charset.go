package mhtml2html

import (
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// decodeText converts raw bytes to a UTF-8 string. A declared charset is
// tried first; bytes that are already clean UTF-8 pass through; otherwise
// the charset is detected. Failures fall back to the raw bytes so a decoding
// problem never loses a body.
func decodeText(data []byte, declared string) string {
	if enc := lookupEncoding(declared); enc != nil {
		if out, err := enc.NewDecoder().Bytes(data); err == nil {
			return string(out)
		}
	}

	if utf8.Valid(data) {
		return string(data)
	}

	detector := chardet.NewTextDetector()
	if best, err := detector.DetectBest(data); err == nil {
		if enc := lookupEncoding(best.Charset); enc != nil {
			if out, err := enc.NewDecoder().Bytes(data); err == nil && utf8.Valid(out) {
				return string(out)
			}
		}
	}

	return string(data)
}

// lookupEncoding maps a charset label to an encoding. UTF-8 labels return
// nil so the caller takes the pass-through path.
func lookupEncoding(label string) encoding.Encoding {
	label = strings.TrimSpace(strings.ToLower(label))
	switch label {
	case "", "utf-8", "utf8", "us-ascii", "ascii":
		return nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil
	}
	return enc
}
