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
	"net/url"
	"strings"
)

// resolveResource locates the media-table entry a reference points at. The
// reference is stripped of surrounding quotes, cid: references are mapped
// through the frame table to their Content-Location, and then four
// strategies are tried in order against the media table:
//
//  1. the reference verbatim,
//  2. a path-only join against the base URL,
//  3. origin-of-base + reference for root-relative references,
//  4. a filename-tail match over the media keys.
//
// Captures disagree about path normalisation across versions, so the last
// strategy is deliberately permissive; a miss leaves the reference for the
// caller to preserve unchanged.
func resolveResource(a *Archive, base, ref string) (string, *Resource, bool) {
	ref = strings.Trim(strings.TrimSpace(ref), `"'`)
	if ref == "" {
		return "", nil, false
	}

	if cid, ok := strings.CutPrefix(ref, "cid:"); ok {
		frame, ok := a.Frame(cid)
		if !ok || frame.Location == "" {
			return "", nil, false
		}
		ref = frame.Location
	}

	if r, ok := a.Resource(ref); ok {
		return ref, r, true
	}

	joined := joinRelative(base, ref)
	if r, ok := a.Resource(joined); ok {
		return joined, r, true
	}

	if strings.HasPrefix(ref, "/") {
		if u, err := url.Parse(base); err == nil && u.Scheme != "" && u.Host != "" {
			rooted := u.Scheme + "://" + u.Host + ref
			if r, ok := a.Resource(rooted); ok {
				return rooted, r, true
			}
		}
	}

	if name := filenameTail(ref); len(name) > 3 {
		for _, key := range a.order {
			if key == name || strings.HasSuffix(key, "/"+name) {
				return key, a.media[key], true
			}
		}
	}

	return "", nil, false
}

// joinRelative pops the last segment of base, then folds the reference's
// "." and ".." segments against the remaining stack. This is a path-only
// join: no scheme or authority handling beyond what base carries.
func joinRelative(base, ref string) string {
	stack := strings.Split(base, "/")
	if len(stack) > 0 {
		stack = stack[:len(stack)-1]
	}
	for _, seg := range strings.Split(ref, "/") {
		switch seg {
		case ".":
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}
	return strings.Join(stack, "/")
}

// filenameTail returns the last path segment of a reference, with any query
// or fragment cut off.
func filenameTail(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		ref = ref[i+1:]
	}
	return ref
}
