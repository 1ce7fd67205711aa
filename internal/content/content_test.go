package content

import (
	"strings"
	"testing"
)

func TestNewTerms(t *testing.T) {
	terms, err := NewTerms()
	if err != nil {
		t.Fatalf("NewTerms: %v", err)
	}

	page := terms.Page()
	if page.Title != "Coach Terms and Conditions" {
		t.Errorf("title = %q", page.Title)
	}
	if !strings.Contains(string(page.HTML), "<h1>Coach Terms and Conditions</h1>") {
		t.Errorf("html missing heading: %.80s", page.HTML)
	}
	if !strings.Contains(string(page.HTML), "<li>") {
		t.Error("html missing list items")
	}
}

func TestRawHTMLIsNotRendered(t *testing.T) {
	terms, err := newTerms([]byte("# Terms\n\n<script>alert(1)</script>\n"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(terms.Page().HTML), "<script>") {
		t.Errorf("raw html passed through: %s", terms.Page().HTML)
	}
}
