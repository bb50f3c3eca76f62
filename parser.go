// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package mhtml2html

import (
	"bytes"
	"mime"
	"net/textproto"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jonathanKingston/mhtml2html/internal/transferenc"
)

// lineScanner yields LF-terminated lines from a byte stream, discarding a
// trailing CR so inputs that mix \r\n and \n line endings read identically.
type lineScanner struct {
	data []byte
	pos  int
}

func (s *lineScanner) next() ([]byte, bool) {
	if s.pos >= len(s.data) {
		return nil, false
	}
	var line []byte
	if i := bytes.IndexByte(s.data[s.pos:], '\n'); i < 0 {
		line = s.data[s.pos:]
		s.pos = len(s.data)
	} else {
		line = s.data[s.pos : s.pos+i]
		s.pos += i + 1
	}
	return bytes.TrimSuffix(line, []byte{'\r'}), true
}

func (s *lineScanner) eof() bool { return s.pos >= len(s.data) }

// readHeaders reads an RFC-2822-style header block up to a blank line. A
// line beginning with whitespace continues the previous header: its trimmed
// content is appended to the prior value. The second return is false when
// input ran out before the blank line.
func readHeaders(s *lineScanner) (map[string]string, bool) {
	headers := make(map[string]string)
	last := ""
	for {
		line, ok := s.next()
		if !ok {
			return headers, false
		}
		if len(line) == 0 {
			return headers, true
		}
		if (line[0] == ' ' || line[0] == '\t') && last != "" {
			headers[last] += string(bytes.TrimSpace(line))
			continue
		}
		i := bytes.IndexByte(line, ':')
		if i < 0 {
			continue
		}
		key := textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(string(line[:i])))
		if _, exists := headers[key]; !exists {
			headers[key] = strings.TrimSpace(string(line[i+1:]))
		}
		last = key
	}
}

var reBoundary = regexp.MustCompile(`(?i)boundary="?([^";]+)"?`)

// parser walks the multipart stream through four states: envelope headers,
// part headers, part body, end. PART_BODY loops back to PART_HEADERS until
// input is exhausted.
type parser struct {
	scan      *lineScanner
	cfg       *config
	arc       *Archive
	boundary  []byte
	indexOnly bool
}

func parseArchive(data []byte, cfg *config, indexOnly bool) (*Archive, error) {
	p := &parser{
		scan:      &lineScanner{data: data},
		cfg:       cfg,
		arc:       newArchive(),
		indexOnly: indexOnly,
	}
	if err := p.readEnvelope(); err != nil {
		return nil, err
	}
	for part := 0; !p.scan.eof(); part++ {
		done, err := p.readPart(part)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	if p.arc.Index == "" {
		return nil, &InvalidArchiveError{Reason: "no text/html part to serve as index"}
	}
	return p.arc, nil
}

// readEnvelope consumes the outer header block, which must declare a
// multipart content type with a boundary parameter, then positions the
// scanner just past the opening boundary marker.
func (p *parser) readEnvelope() error {
	headers, ok := readHeaders(p.scan)
	if !ok {
		return &InvalidArchiveError{Reason: "input ended inside envelope headers"}
	}
	ct := headers["Content-Type"]
	if ct == "" {
		return &InvalidArchiveError{Reason: "envelope has no Content-Type header"}
	}

	var boundary string
	if mediaType, params, err := mime.ParseMediaType(ct); err == nil {
		if !strings.HasPrefix(mediaType, "multipart/") {
			return &InvalidArchiveError{Reason: "envelope Content-Type is " + mediaType + ", not multipart"}
		}
		boundary = params["boundary"]
	} else {
		// Chrome-written archives occasionally carry parameters the strict
		// media-type grammar rejects; pull the boundary out directly.
		if !strings.Contains(strings.ToLower(ct), "multipart/") {
			return &InvalidArchiveError{Reason: "envelope Content-Type is not multipart"}
		}
		if m := reBoundary.FindStringSubmatch(ct); m != nil {
			boundary = m[1]
		}
	}
	if boundary == "" {
		return &InvalidArchiveError{Reason: "envelope Content-Type has no boundary parameter"}
	}
	p.boundary = []byte(boundary)

	for {
		line, ok := p.scan.next()
		if !ok {
			return &InvalidArchiveError{Reason: "input ended before the opening boundary"}
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if bytes.Contains(line, p.boundary) {
			return nil
		}
		return &InvalidArchiveError{Reason: "expected opening boundary, found other content"}
	}
}

// readPart consumes one part (headers and body) and registers the resource.
// It reports done=true when the stream is exhausted or, in index-only mode,
// once the root HTML part has been read.
func (p *parser) readPart(part int) (bool, error) {
	headers, ok := readHeaders(p.scan)
	if !ok {
		// Input ran out mid-headers. With an index already established the
		// archive built so far is still usable.
		if p.cfg.strict || p.arc.Index == "" {
			return true, &InvalidArchiveError{Reason: "input ended inside part headers"}
		}
		p.cfg.log.Debug("mhtml: truncated part headers, keeping archive built so far", "part", part)
		return true, nil
	}

	contentType, charsetName := splitContentType(headers["Content-Type"])
	encoding := strings.ToLower(strings.TrimSpace(headers["Content-Transfer-Encoding"]))
	cid := headers["Content-Id"]
	location := headers["Content-Location"]

	var missing []string
	if headers["Content-Type"] == "" {
		missing = append(missing, "Content-Type")
	}
	if encoding == "" {
		missing = append(missing, "Content-Transfer-Encoding")
	}
	if cid == "" && location == "" {
		missing = append(missing, "Content-ID or Content-Location")
	}
	if p.cfg.strict && len(missing) > 0 {
		return true, &PartHeaderError{Part: part, Missing: missing}
	}

	body, terminated, atEOF := p.readBody()
	if !terminated && p.cfg.strict {
		return true, &InvalidArchiveError{Reason: "input ended inside a part body"}
	}

	// Lenient repairs: a missing Content-Type is sniffed from the decoded
	// body; a part with no transfer encoding or no key at all is dropped.
	if encoding == "" || (cid == "" && location == "") {
		p.cfg.log.Debug("mhtml: dropping part with missing headers", "part", part, "missing", missing)
		return atEOF, nil
	}
	if contentType == "" {
		contentType = sniffContentType(encoding, body)
	}

	res := &Resource{
		Data:        body,
		ContentType: contentType,
		Charset:     charsetName,
		Encoding:    encoding,
		ContentID:   cid,
		Location:    location,
	}

	key := location
	if key == "" {
		key = cid
	}
	p.arc.addMedia(key, res)
	if cid != "" {
		p.arc.addFrame(cid, res)
	}

	if p.cfg.strict && part == 0 && !res.isHTML() {
		return true, &InvalidArchiveError{Reason: "first part is " + contentType + ", not text/html"}
	}
	if p.arc.Index == "" && res.isHTML() {
		p.arc.Index = key
		if p.indexOnly {
			return true, nil
		}
	}

	return atEOF, nil
}

// readBody accumulates lines until one contains the boundary token. The
// boundary line itself is never part of the body, and the closing marker
// (trailing --) is treated like any inner boundary: end of stream is
// detected by exhaustion of input, not the -- suffix. terminated reports
// whether a boundary was seen at all; a body cut off by end of input is
// kept, and strict mode turns it into an error upstream.
func (p *parser) readBody() (body []byte, terminated, atEOF bool) {
	var buf bytes.Buffer
	first := true
	for {
		line, ok := p.scan.next()
		if !ok {
			return buf.Bytes(), false, true
		}
		if bytes.Contains(line, p.boundary) {
			return buf.Bytes(), true, p.scan.eof()
		}
		if !first {
			buf.WriteByte('\n')
		}
		buf.Write(line)
		first = false
	}
}

// splitContentType separates the MIME type from a charset parameter.
func splitContentType(value string) (contentType, charsetName string) {
	if value == "" {
		return "", ""
	}
	if mediaType, params, err := mime.ParseMediaType(value); err == nil {
		return mediaType, params["charset"]
	}
	contentType, rest, _ := strings.Cut(value, ";")
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, param := range strings.Split(rest, ";") {
		if name, v, ok := strings.Cut(param, "="); ok && strings.EqualFold(strings.TrimSpace(name), "charset") {
			charsetName = strings.Trim(strings.TrimSpace(v), `"'`)
		}
	}
	return contentType, charsetName
}

// sniffContentType detects a missing content type from the decoded body.
func sniffContentType(encoding string, body []byte) string {
	decoded, err := transferenc.Decode(encoding, body)
	if err != nil {
		return "application/octet-stream"
	}
	detected := mimetype.Detect(decoded).String()
	contentType, _, _ := strings.Cut(detected, ";")
	return strings.TrimSpace(contentType)
}
