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
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseDOM is the default DOMProvider, backed by golang.org/x/net/html.
func ParseDOM(src string) (Document, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &netDocument{doc: doc}, nil
}

type netDocument struct {
	doc *html.Node
}

func (d *netDocument) Root() Element {
	for n := d.doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return &netElement{n: n}
		}
	}
	return nil
}

func (d *netDocument) CreateElement(tag string) Element {
	return &netElement{n: &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}}
}

func (d *netDocument) HTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.doc); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

type netElement struct {
	n *html.Node
}

func (e *netElement) Tag() string {
	return strings.ToLower(e.n.Data)
}

func (e *netElement) Attr(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func (e *netElement) SetAttr(name, value string) {
	for i, a := range e.n.Attr {
		if strings.EqualFold(a.Key, name) {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

func (e *netElement) RemoveAttr(name string) {
	for i, a := range e.n.Attr {
		if strings.EqualFold(a.Key, name) {
			e.n.Attr = append(e.n.Attr[:i], e.n.Attr[i+1:]...)
			return
		}
	}
}

func (e *netElement) Elements() []Element {
	var out []Element
	for n := e.n.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			out = append(out, &netElement{n: n})
		}
	}
	return out
}

func (e *netElement) AppendChild(child Element) {
	e.n.AppendChild(child.(*netElement).n)
}

func (e *netElement) PrependChild(child Element) {
	n := child.(*netElement).n
	if e.n.FirstChild != nil {
		e.n.InsertBefore(n, e.n.FirstChild)
		return
	}
	e.n.AppendChild(n)
}

func (e *netElement) ReplaceWith(repl Element) {
	parent := e.n.Parent
	if parent == nil {
		return
	}
	parent.InsertBefore(repl.(*netElement).n, e.n)
	parent.RemoveChild(e.n)
}

func (e *netElement) Remove() {
	if e.n.Parent != nil {
		e.n.Parent.RemoveChild(e.n)
	}
}

func (e *netElement) AdoptChildren(src Element) {
	s := src.(*netElement).n
	for c := s.FirstChild; c != nil; {
		next := c.NextSibling
		s.RemoveChild(c)
		if c.Type != html.CommentNode {
			e.n.AppendChild(c)
		}
		c = next
	}
}

func (e *netElement) Text() string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.n)
	return buf.String()
}

func (e *netElement) SetText(text string) {
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		e.n.RemoveChild(c)
		c = next
	}
	e.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
