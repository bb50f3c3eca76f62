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
	"errors"
	"strings"

	"github.com/jonathanKingston/mhtml2html/internal/transferenc"
)

var errCSSCycle = errors.New("stylesheet reference cycle")

// maxCSSDepth bounds @import recursion.
const maxCSSDepth = 32

// rewriteCSS replaces every url(...) payload that resolves to a captured
// resource with a quoted data: URI. It is a textual substitution pass, not
// a CSS parser: scanning is left to right and the cursor advances past the
// original reference, never into the replacement, so pathological inputs
// stay linear. Stylesheet references recurse with the nested sheet's own
// URL as base, realising @import chains; the active-path set and the depth
// bound break reference cycles. Unresolvable or failing references are left
// unchanged.
func (rw *rewriter) rewriteCSS(text, base string, depth int) string {
	if depth > maxCSSDepth {
		return text
	}

	var out strings.Builder
	pos := 0
	for {
		start := strings.Index(text[pos:], "url(")
		if start < 0 {
			break
		}
		start += pos
		end := strings.IndexByte(text[start:], ')')
		if end < 0 {
			break
		}
		end += start

		rawRef := text[start+4 : end]
		out.WriteString(text[pos : start+4])
		pos = end // the ')' is written with the next chunk

		ref := strings.Trim(strings.TrimSpace(rawRef), `"'`)
		if strings.HasPrefix(ref, "data:") {
			out.WriteString(rawRef)
			continue
		}

		key, res, ok := resolveResource(rw.arc, base, ref)
		if !ok {
			out.WriteString(rawRef)
			continue
		}

		uri, err := rw.embedCSSReference(key, res, depth)
		if err != nil {
			rw.cfg.log.Warn("mhtml: skipping css reference", "ref", ref, "error", err)
			out.WriteString(rawRef)
			continue
		}
		out.WriteString("'" + uri + "'")
	}
	out.WriteString(text[pos:])
	return out.String()
}

// embedCSSReference renders one resolved resource as a data: URI, recursing
// first when the resource is itself a stylesheet.
func (rw *rewriter) embedCSSReference(key string, res *Resource, depth int) (string, error) {
	if !res.isCSS() {
		return res.DataURI()
	}
	if rw.cssPath[key] {
		// Already on the active @import chain; embedding it again would
		// never terminate.
		return "", errCSSCycle
	}
	rw.cssPath[key] = true
	defer delete(rw.cssPath, key)

	nested, err := res.Text()
	if err != nil {
		return "", err
	}
	rewritten := rw.rewriteCSS(nested, key, depth+1)
	return transferenc.DataURI("text/css", false, []byte(rewritten)), nil
}
