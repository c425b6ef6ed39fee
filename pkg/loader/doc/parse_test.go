package doc

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestParseDocx(t *testing.T) {
	content := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	text, err := parseDocx(content)
	if err != nil {
		t.Fatalf("parseDocx() error = %v", err)
	}

	want := "First paragraph.\nSecond paragraph."
	if text != want {
		t.Fatalf("parseDocx() = %q, want %q", text, want)
	}
}

func TestParseDocxSkipsDeletions(t *testing.T) {
	content := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:r><w:t>Kept</w:t></w:r>
      <w:del><w:r><w:t>Removed</w:t></w:r></w:del>
    </w:p>
  </w:body>
</w:document>`)

	text, err := parseDocx(content)
	if err != nil {
		t.Fatalf("parseDocx() error = %v", err)
	}
	if strings.Contains(text, "Removed") {
		t.Fatalf("deleted text survived: %q", text)
	}
	if !strings.Contains(text, "Kept") {
		t.Fatalf("kept text missing: %q", text)
	}
}

func TestParseDocxTableCells(t *testing.T) {
	content := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>A</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>B</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`)

	text, err := parseDocx(content)
	if err != nil {
		t.Fatalf("parseDocx() error = %v", err)
	}
	if !strings.Contains(text, "A\t") || !strings.Contains(text, "B") {
		t.Fatalf("table cells not tab-separated: %q", text)
	}
}

func TestParseDocxMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}

	if _, err := parseDocx(buf.Bytes()); err == nil {
		t.Fatal("expected error for docx without document.xml")
	}
}

func TestParseDocxNotAZip(t *testing.T) {
	if _, err := parseDocx([]byte("plain text, not a zip")); err == nil {
		t.Fatal("expected error for non-zip content")
	}
}
