package wikipedia

import (
	"strings"
	"testing"
)

func TestParseExtract(t *testing.T) {
	body := []byte(`{
		"query": {
			"pages": {
				"12345": {
					"pageid": 12345,
					"title": "Go (programming language)",
					"extract": "Go is a statically typed language."
				}
			}
		}
	}`)

	extract, err := parseExtract(body)
	if err != nil {
		t.Fatalf("parseExtract() error = %v", err)
	}
	if extract != "Go is a statically typed language." {
		t.Fatalf("unexpected extract: %q", extract)
	}
}

func TestParseExtractMissingArticle(t *testing.T) {
	body := []byte(`{
		"query": {
			"pages": {
				"-1": {
					"title": "No Such Article",
					"missing": ""
				}
			}
		}
	}`)

	_, err := parseExtract(body)
	if err == nil {
		t.Fatal("expected error for missing article")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseExtractEmptyExtract(t *testing.T) {
	body := []byte(`{
		"query": {
			"pages": {
				"99": {"title": "Stub", "extract": ""}
			}
		}
	}`)

	if _, err := parseExtract(body); err == nil {
		t.Fatal("expected error for article without text")
	}
}

func TestParseExtractInvalidJSON(t *testing.T) {
	if _, err := parseExtract([]byte("<html>rate limited</html>")); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}
