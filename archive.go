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
	"strings"

	"github.com/jonathanKingston/mhtml2html/internal/transferenc"
)

// Resource is one captured asset of an MHTML archive. The body is kept in
// its raw on-the-wire form; decoding happens on access so every consumer
// observes the same decoded bytes.
type Resource struct {
	// Data is the body as it was read from the archive, before
	// transfer-decoding. Line terminators are normalised to LF and the line
	// break before the closing boundary is not included.
	Data []byte
	// ContentType is the MIME type with any charset parameter split off.
	ContentType string
	// Charset is the declared character set, empty if none.
	Charset string
	// Encoding is the declared content-transfer-encoding (base64,
	// quoted-printable, 7bit, 8bit, binary).
	Encoding string
	// ContentID is the part's Content-ID header value, angle brackets
	// included, empty if the header was absent.
	ContentID string
	// Location is the part's Content-Location header value, empty if the
	// header was absent.
	Location string
}

// Decode transfer-decodes the body.
func (r *Resource) Decode() ([]byte, error) {
	return transferenc.Decode(r.Encoding, r.Data)
}

// Text transfer-decodes the body and converts it to UTF-8, honoring the
// declared charset when one was recorded and falling back to detection.
func (r *Resource) Text() (string, error) {
	decoded, err := r.Decode()
	if err != nil {
		return "", err
	}
	return decodeText(decoded, r.Charset), nil
}

// DataURI embeds the decoded body as a data: URI. Quoted-printable bodies
// are textual and stay UTF-8 behind percent-encoding; everything else is
// base64.
func (r *Resource) DataURI() (string, error) {
	decoded, err := r.Decode()
	if err != nil {
		return "", err
	}
	return transferenc.DataURI(r.ContentType, r.Encoding == transferenc.QuotedPrintable, decoded), nil
}

func (r *Resource) isHTML() bool  { return r.ContentType == "text/html" }
func (r *Resource) isCSS() bool   { return r.ContentType == "text/css" }
func (r *Resource) isImage() bool { return strings.HasPrefix(r.ContentType, "image") }

// Archive is the parsed form of an MHTML container: a resource table keyed
// by Content-Location, a frame table keyed by Content-ID, and the URL of the
// root HTML document. An Archive is read-only once Parse returns.
type Archive struct {
	// Index is the URL of the root HTML resource.
	Index string

	media  map[string]*Resource
	order  []string
	frames map[string]*Resource
}

func newArchive() *Archive {
	return &Archive{
		media:  make(map[string]*Resource),
		frames: make(map[string]*Resource),
	}
}

// Resource returns the media-table entry for a URL.
func (a *Archive) Resource(url string) (*Resource, bool) {
	r, ok := a.media[url]
	return r, ok
}

// Frame returns the frame-table entry for a Content-ID. The id may be given
// bare or wrapped in angle brackets.
func (a *Archive) Frame(id string) (*Resource, bool) {
	if r, ok := a.frames[id]; ok {
		return r, ok
	}
	r, ok := a.frames["<"+strings.Trim(id, "<>")+">"]
	return r, ok
}

// Locations returns the media-table keys in the order their parts occurred.
func (a *Archive) Locations() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Len reports the number of media-table entries.
func (a *Archive) Len() int { return len(a.order) }

// addMedia registers a resource under its Content-Location. The first
// occurrence of a URL wins; later duplicates are discarded.
func (a *Archive) addMedia(url string, r *Resource) {
	if _, ok := a.media[url]; ok {
		return
	}
	a.media[url] = r
	a.order = append(a.order, url)
}

func (a *Archive) addFrame(id string, r *Resource) {
	if _, ok := a.frames[id]; ok {
		return
	}
	a.frames[id] = r
}

// withIndex returns a shallow copy of the archive rooted at a different
// index, sharing the media and frame tables. Used for iframe recursion. If
// the frame resource never carried a Content-Location the copy gets its own
// media table with the frame registered under its Content-ID.
func (a *Archive) withIndex(frame *Resource) *Archive {
	key := frame.Location
	if _, ok := a.media[key]; !ok {
		key = frame.ContentID
	}
	sub := &Archive{Index: key, media: a.media, order: a.order, frames: a.frames}
	if _, ok := a.media[key]; !ok {
		sub.media = make(map[string]*Resource, len(a.media)+1)
		for k, v := range a.media {
			sub.media[k] = v
		}
		sub.order = append(a.Locations(), key)
		sub.media[key] = frame
	}
	return sub
}
