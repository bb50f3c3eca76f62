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

// shadowAttrRenamer defers declarative-shadow-DOM handling to this layer.
// Some HTML backends implement partial shadow-root semantics that consume
// the host's light-DOM children during parsing, erasing content the
// rewriter must preserve; renaming the attributes before the backend sees
// them keeps the template inert.
var shadowAttrRenamer = strings.NewReplacer(
	"shadowrootmode", "data-shadowrootmode",
	"shadowmode", "data-shadowmode",
)

// rewriter walks the parsed root document and replaces every external
// reference with an inlined copy of the captured bytes.
type rewriter struct {
	arc *Archive
	cfg *config
	doc Document
	// cssPath tracks the active @import chain during CSS recursion.
	cssPath map[string]bool
}

// convertArchive runs the full rewrite: validate the archive, parse the
// pre-processed root HTML through the injected DOM provider, mutate the
// tree breadth-first, and hand the document back to the caller.
func convertArchive(arc *Archive, cfg *config) (Document, error) {
	root, ok := arc.Resource(arc.Index)
	if !ok {
		return nil, &InvalidArchiveError{Reason: "index " + arc.Index + " is not in the archive"}
	}
	if !root.isHTML() {
		return nil, &InvalidArchiveError{Reason: "index resource is " + root.ContentType + ", not text/html"}
	}

	text, err := root.Text()
	if err != nil {
		return nil, &DecodeError{Encoding: root.Encoding, Location: arc.Index, Err: err}
	}

	doc, err := cfg.provider(shadowAttrRenamer.Replace(text))
	if err != nil {
		return nil, err
	}

	rw := &rewriter{arc: arc, cfg: cfg, doc: doc, cssPath: make(map[string]bool)}
	rw.walk()
	return doc, nil
}

// walk traverses the element tree breadth-first, transforming each element
// in place.
func (rw *rewriter) walk() {
	root := rw.doc.Root()
	if root == nil {
		return
	}
	queue := []Element{root}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]

		// Captured subresources will not match the original hash.
		e.RemoveAttr("integrity")

		rw.flattenShadowTemplates(e)

		queue = append(queue, e.Elements()...)

		switch e.Tag() {
		case "head":
			// Links in the converted document should navigate the outer
			// frame, not the context data: documents render in.
			base := rw.doc.CreateElement("base")
			base.SetAttr("target", "_parent")
			e.PrependChild(base)
		case "link":
			rw.rewriteLink(e)
		case "style":
			fresh := rw.doc.CreateElement("style")
			fresh.SetText(rw.rewriteCSS(e.Text(), rw.arc.Index, 0))
			e.ReplaceWith(fresh)
		case "img":
			rw.rewriteImg(e)
			rw.rewriteInlineStyle(e)
		case "iframe":
			rw.rewriteIframe(e)
		default:
			rw.rewriteInlineStyle(e)
		}
	}
}

// flattenShadowTemplates applies declarative-shadow-DOM flattening for each
// renamed shadow template under the host element. A template holding only
// <slot> placeholders, or one whose host already carries light-DOM
// children, is dropped so the light DOM stays; otherwise the template's
// content is hoisted into the host. The host's loaded attribute is stripped
// either way so rules predicated on :not([loaded]) apply.
func (rw *rewriter) flattenShadowTemplates(host Element) {
	children := host.Elements()
	for _, child := range children {
		if child.Tag() != "template" {
			continue
		}
		_, shadowRoot := child.Attr("data-shadowrootmode")
		_, shadow := child.Attr("data-shadowmode")
		if !shadowRoot && !shadow {
			continue
		}

		hasLightChildren := false
		for _, sibling := range children {
			if sibling.Tag() != "template" {
				hasLightChildren = true
				break
			}
		}

		if slotsOnly(child) || hasLightChildren {
			child.Remove()
		} else {
			host.AdoptChildren(child)
			child.Remove()
		}
		host.RemoveAttr("loaded")
	}
}

func slotsOnly(template Element) bool {
	for _, e := range template.Elements() {
		if e.Tag() != "slot" {
			return false
		}
	}
	return true
}

// rewriteLink inlines rel=stylesheet links as <style> elements. Other rel
// values (icons, preloads, alternate stylesheets) pass through untouched.
func (rw *rewriter) rewriteLink(e Element) {
	rel, _ := e.Attr("rel")
	if !strings.EqualFold(strings.TrimSpace(rel), "stylesheet") {
		return
	}
	href, _ := e.Attr("href")
	key, res, ok := resolveResource(rw.arc, rw.arc.Index, href)
	if !ok || !res.isCSS() {
		return
	}
	text, err := res.Text()
	if err != nil {
		rw.cfg.log.Warn("mhtml: skipping stylesheet", "href", href, "error", err)
		return
	}
	style := rw.doc.CreateElement("style")
	style.SetText(rw.rewriteCSS(text, key, 0))
	e.ReplaceWith(style)
}

// rewriteImg converts a resolved image src (and any srcset candidates) to
// data: URIs.
func (rw *rewriter) rewriteImg(e Element) {
	if src, ok := e.Attr("src"); ok {
		if uri, ok := rw.imageDataURI(src); ok {
			e.SetAttr("src", uri)
		}
	}
	if srcset, ok := e.Attr("srcset"); ok && srcset != "" {
		e.SetAttr("srcset", rw.rewriteSrcset(srcset))
	}
}

func (rw *rewriter) imageDataURI(ref string) (string, bool) {
	_, res, ok := resolveResource(rw.arc, rw.arc.Index, ref)
	if !ok || !res.isImage() {
		return "", false
	}
	uri, err := res.DataURI()
	if err != nil {
		rw.cfg.log.Warn("mhtml: skipping image", "src", ref, "error", err)
		return "", false
	}
	return uri, true
}

// rewriteSrcset rewrites each candidate URL of a srcset value, leaving its
// width and density descriptors alone.
func (rw *rewriter) rewriteSrcset(srcset string) string {
	candidates := strings.Split(srcset, ",")
	for i, candidate := range candidates {
		fields := strings.Fields(candidate)
		if len(fields) == 0 {
			continue
		}
		if uri, ok := rw.imageDataURI(fields[0]); ok {
			fields[0] = uri
		}
		candidates[i] = strings.Join(fields, " ")
	}
	return strings.Join(candidates, ", ")
}

// rewriteIframe recursively converts a cid: frame into a data: document
// when iframe conversion is enabled; otherwise the cid: URL stays.
func (rw *rewriter) rewriteIframe(e Element) {
	if !rw.cfg.convertIframes {
		return
	}
	src, _ := e.Attr("src")
	cid, ok := strings.CutPrefix(src, "cid:")
	if !ok {
		return
	}
	frame, ok := rw.arc.Frame(cid)
	if !ok || !frame.isHTML() {
		return
	}

	sub, err := convertArchive(rw.arc.withIndex(frame), rw.cfg)
	if err != nil {
		rw.cfg.log.Warn("mhtml: skipping iframe", "cid", cid, "error", err)
		return
	}
	rendered, err := sub.HTML()
	if err != nil {
		rw.cfg.log.Warn("mhtml: skipping iframe", "cid", cid, "error", err)
		return
	}
	e.SetAttr("src", "data:text/html;charset=utf-8,"+url.PathEscape(rendered))
}

// rewriteInlineStyle runs the CSS rewriter over a style attribute. The
// attribute is read and written as a raw string: round-tripping through a
// structured CSSOM drops custom properties, and those must survive
// byte-for-byte.
func (rw *rewriter) rewriteInlineStyle(e Element) {
	style, ok := e.Attr("style")
	if !ok || !strings.Contains(style, "url(") {
		return
	}
	e.SetAttr("style", rw.rewriteCSS(style, rw.arc.Index, 0))
}
