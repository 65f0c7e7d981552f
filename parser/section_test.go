package parser

import (
	"errors"
	"net/url"
	"testing"
)

const subcategoryPage = `<html><body>
<h2>Um gengisskráningu</h2>
<div><p>Texti sem skiptir ekki máli.</p></div>
<h2>Tímaraðir</h2>
<div>
  <a href="../c/d">Gengi frá 1981</a>
  <a href="https://example.org/files/allt.zip">Allt safnið</a>
  <a href="/hagtolur/skrar/gengi.xlsx">Gengi ársins</a>
  <a href="skra.csv">   </a>
</div>
<h2>Annað efni</h2>
<div><a href="/annad.pdf">Annað</a></div>
</body></html>`

func TestSectionLinks(t *testing.T) {
	doc := parseFixture(t, subcategoryPage)
	pageURL, _ := url.Parse("https://example.org/a/b/")

	links, err := SectionLinks(doc, "Tímaraðir", pageURL)
	if err != nil {
		t.Fatalf("SectionLinks: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("links = %d, want 3 (anchors outside the section and blank labels excluded)", len(links))
	}

	if want := "https://example.org/a/c/d"; links[0].URL != want {
		t.Fatalf("relative url resolved to %q, want %q", links[0].URL, want)
	}
	if links[0].Name != "Gengi frá 1981" {
		t.Fatalf("name = %q, want label text", links[0].Name)
	}

	if want := "https://example.org/files/allt.zip"; links[1].URL != want {
		t.Fatalf("absolute url = %q, want it unchanged", links[1].URL)
	}
	if links[1].ContentType != "zip" {
		t.Fatalf("content type = %q, want zip", links[1].ContentType)
	}

	if want := "https://example.org/hagtolur/skrar/gengi.xlsx"; links[2].URL != want {
		t.Fatalf("rooted url = %q, want %q", links[2].URL, want)
	}
	if links[2].ContentType != "xlsx" {
		t.Fatalf("content type = %q, want xlsx", links[2].ContentType)
	}
}

func TestSectionLinksHeadingSubstring(t *testing.T) {
	doc := parseFixture(t, `<html><body><h2>Tímaraðir og gögn</h2><div><a href="/x.csv">X</a></div></body></html>`)
	pageURL, _ := url.Parse("https://example.org/")

	links, err := SectionLinks(doc, "Tímaraðir", pageURL)
	if err != nil {
		t.Fatalf("SectionLinks: %v", err)
	}
	if len(links) != 1 || links[0].ContentType != "csv" {
		t.Fatalf("links = %+v, want one csv link", links)
	}
}

func TestSectionLinksSectionNotFound(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{name: "no heading", page: `<html><body><h2>Annað</h2><div><a href="/x">X</a></div></body></html>`},
		{name: "heading without container", page: `<html><body><h2>Tímaraðir</h2></body></html>`},
		{name: "empty page", page: `<html><body></body></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseFixture(t, tt.page)
			pageURL, _ := url.Parse("https://example.org/")

			links, err := SectionLinks(doc, "Tímaraðir", pageURL)
			if !errors.Is(err, ErrSectionNotFound) {
				t.Fatalf("error = %v, want ErrSectionNotFound", err)
			}
			if links != nil {
				t.Fatalf("links = %v, want nil", links)
			}
		})
	}
}

func TestContentTypeHint(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://example.org/a/gengi.xlsx", want: "xlsx"},
		{url: "https://example.org/a/gengi.XLSX", want: "xlsx"},
		{url: "https://example.org/a/gengi.xls", want: "xls"},
		{url: "https://example.org/a/safn.zip?dl=1", want: "zip"},
		{url: "https://example.org/a/tafla.csv", want: "csv"},
		{url: "https://example.org/a/skyrsla.pdf", want: "pdf"},
		{url: "https://example.org/a/gogn.json", want: "json"},
		{url: "https://example.org/a/sida.html", want: ""},
		{url: "https://example.org/a/enginn", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := ContentTypeHint(tt.url); got != tt.want {
				t.Fatalf("ContentTypeHint(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
