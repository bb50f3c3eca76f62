package mhtml2html

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// convertToDoc converts an archive and re-parses the rendered output with
// goquery for assertions.
func convertToDoc(t *testing.T, data []byte, opts ...Option) (*goquery.Document, string) {
	t.Helper()
	doc, err := Convert(data, opts...)
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	rendered, err := doc.HTML()
	if err != nil {
		t.Fatalf("HTML error: %v", err)
	}
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		t.Fatalf("re-parse rendered output: %v", err)
	}
	return gq, rendered
}

func TestConvertInsertsBaseTarget(t *testing.T) {
	data := buildMHTML("\r\n", htmlPart("http://example.com/", "<html><head><title>t</title></head><body></body></html>"))
	gq, _ := convertToDoc(t, data)

	first := gq.Find("head").Children().First()
	if !first.Is("base") {
		t.Fatalf("first head child is %q, want base", goquery.NodeName(first))
	}
	if target, _ := first.Attr("target"); target != "_parent" {
		t.Errorf("base target = %q, want _parent", target)
	}
}

func TestConvertStripsIntegrity(t *testing.T) {
	data := buildMHTML("\r\n", htmlPart("http://example.com/",
		`<html><body><script src="app.js" integrity="sha384-abc"></script><div integrity="x"></div></body></html>`))
	gq, _ := convertToDoc(t, data)

	if gq.Find("[integrity]").Length() != 0 {
		t.Error("integrity attributes survived conversion")
	}
}

func TestConvertPreservesCustomProperties(t *testing.T) {
	data := buildMHTML("\r\n",
		htmlPart("http://example.com/",
			`<html><body><div style="--brand: #ff0000; background: url(bg.png); --spacing:4px"></div></body></html>`),
		pngPart("http://example.com/bg.png"),
	)
	gq, _ := convertToDoc(t, data)

	style, ok := gq.Find("div").Attr("style")
	if !ok {
		t.Fatal("style attribute missing")
	}
	if !strings.Contains(style, "--brand: #ff0000") {
		t.Errorf("style = %q, custom property --brand lost", style)
	}
	if !strings.Contains(style, "--spacing:4px") {
		t.Errorf("style = %q, custom property --spacing not preserved byte-for-byte", style)
	}
	if !strings.Contains(style, "data:image/png;base64,") {
		t.Errorf("style = %q, background image not embedded", style)
	}
}

func TestConvertShadowTemplateHoisted(t *testing.T) {
	data := buildMHTML("\r\n", htmlPart("http://example.com/",
		`<html><body><div loaded><template shadowrootmode="open"><h1>Shadow</h1></template></div></body></html>`))
	gq, _ := convertToDoc(t, data)

	host := gq.Find("body > div")
	if host.Find("template").Length() != 0 {
		t.Error("shadow template survived flattening")
	}
	if host.Find("h1").Length() != 1 {
		t.Error("template content was not hoisted into the host")
	}
	if _, ok := host.Attr("loaded"); ok {
		t.Error("loaded attribute survived flattening")
	}
}

func TestConvertShadowTemplateSlotOnly(t *testing.T) {
	data := buildMHTML("\r\n", htmlPart("http://example.com/",
		`<html><body><div><template shadowrootmode="open"><slot></slot></template></div></body></html>`))
	gq, _ := convertToDoc(t, data)

	host := gq.Find("body > div")
	if host.Find("template").Length() != 0 {
		t.Error("slot-only template should be removed")
	}
	if host.Find("slot").Length() != 0 {
		t.Error("slots must not be hoisted")
	}
}

func TestConvertShadowTemplateKeepsLightDOM(t *testing.T) {
	data := buildMHTML("\r\n", htmlPart("http://example.com/",
		`<html><body><div><template shadowmode="open"><h1>Shadow</h1></template><p>Light</p></div></body></html>`))
	gq, _ := convertToDoc(t, data)

	host := gq.Find("body > div")
	if host.Find("template").Length() != 0 {
		t.Error("template should be removed when the host has light-DOM children")
	}
	if host.Find("p").Length() != 1 {
		t.Error("light-DOM children must stay in place")
	}
	if host.Find("h1").Length() != 0 {
		t.Error("template content must not be hoisted over light DOM")
	}
}

func TestConvertNonStylesheetLinksUntouched(t *testing.T) {
	data := buildMHTML("\r\n",
		htmlPart("http://example.com/",
			`<html><head><link rel="icon" href="http://example.com/fav.png"><link rel="preload" href="http://example.com/site.css"></head><body></body></html>`),
		pngPart("http://example.com/fav.png"),
		cssPart("http://example.com/site.css", "body{}"),
	)
	gq, _ := convertToDoc(t, data)

	if gq.Find("link").Length() != 2 {
		t.Errorf("link count = %d, want 2 (icon and preload untouched)", gq.Find("link").Length())
	}
}

func TestConvertImgSrcset(t *testing.T) {
	data := buildMHTML("\r\n",
		htmlPart("http://example.com/",
			`<html><body><img src="one.png" srcset="one.png 1x, two.png 2x, missing.png 3x"></body></html>`),
		pngPart("http://example.com/one.png"),
		pngPart("http://example.com/two.png"),
	)
	gq, _ := convertToDoc(t, data)

	srcset, _ := gq.Find("img").Attr("srcset")
	if strings.Count(srcset, "data:image/png;base64,") != 2 {
		t.Errorf("srcset = %q, want two embedded candidates", srcset)
	}
	if !strings.Contains(srcset, "missing.png 3x") {
		t.Errorf("srcset = %q, unresolved candidate must pass through with its descriptor", srcset)
	}
}
