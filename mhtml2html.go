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

// Package mhtml2html converts MHTML archives into single self-contained
// HTML documents. The parser builds a URL-indexed resource table and a
// Content-ID-indexed frame table from the multipart stream; the rewriter
// then walks the root document, inlining stylesheets, rewriting url(...)
// tokens across @import chains, embedding images as data: URIs, and,
// optionally, recursively converting cid: iframes. The output renders
// identically to the captured page without any network fetch.
package mhtml2html

// Parse consumes an MHTML byte stream and returns the archive: the resource
// table keyed by Content-Location, the frame table keyed by Content-ID, and
// the index URL of the root HTML document.
//
// By default the parser is lenient: parts missing required headers are
// dropped (a missing Content-Type is sniffed instead), a truncated stream
// yields the archive built so far once an index exists, and the first
// text/html part anywhere in the stream becomes the index. WithStrict turns
// each of these into an error and requires the first part to be the index.
func Parse(data []byte, opts ...Option) (*Archive, error) {
	return parseArchive(data, newConfig(opts), false)
}

// ParseIndex short-circuits the parse: as soon as the root HTML part has
// been read, its body is handed to the DOM provider and the remainder of
// the stream is discarded. Only the root document's DOM is returned,
// unrewritten.
func ParseIndex(data []byte, opts ...Option) (Document, error) {
	cfg := newConfig(opts)
	arc, err := parseArchive(data, cfg, true)
	if err != nil {
		return nil, err
	}
	root, _ := arc.Resource(arc.Index)
	text, err := root.Text()
	if err != nil {
		return nil, &DecodeError{Encoding: root.Encoding, Location: arc.Index, Err: err}
	}
	return cfg.provider(text)
}

// Convert parses an MHTML byte stream and rewrites the root document so
// that every external reference that resolves inside the archive is
// replaced by an inlined copy of the captured bytes. The returned DOM is
// owned by the caller.
func Convert(data []byte, opts ...Option) (Document, error) {
	cfg := newConfig(opts)
	arc, err := parseArchive(data, cfg, false)
	if err != nil {
		return nil, err
	}
	return convertArchive(arc, cfg)
}

// ConvertArchive rewrites an already-parsed archive. It fails with an
// InvalidArchiveError when the archive's index is missing from the media
// table or is not text/html.
func ConvertArchive(arc *Archive, opts ...Option) (Document, error) {
	return convertArchive(arc, newConfig(opts))
}
