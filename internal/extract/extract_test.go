package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func buildDOCX(t *testing.T, paragraphs []string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := f.Write([]byte(body.String())); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestTextFromBytesPlainText(t *testing.T) {
	payload := []byte("  John Doe\njohn@example.com\nPython developer\n")
	got, err := TextFromBytes(payload, "text/plain", "resume.txt")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if !strings.Contains(got, "Python developer") {
		t.Fatalf("expected extracted text to contain resume body, got %q", got)
	}
	if strings.HasPrefix(got, " ") {
		t.Fatalf("expected trimmed output, got %q", got)
	}
}

func TestTextFromBytesDOCX(t *testing.T) {
	payload := buildDOCX(t, []string{"Jane Doe", "Data Engineer skilled in SQL"})
	got, err := TextFromBytes(payload, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "resume.docx")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if !strings.Contains(got, "Jane Doe") || !strings.Contains(got, "Data Engineer") {
		t.Fatalf("expected both paragraphs in output, got %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Fatalf("expected paragraph boundary to become newline, got %q", got)
	}
}

func TestTextFromBytesDOCXDeclaredAsZip(t *testing.T) {
	payload := buildDOCX(t, []string{"Hello"})
	got, err := TextFromBytes(payload, "application/zip", "resume.docx")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if got != "Hello" {
		t.Fatalf("expected %q, got %q", "Hello", got)
	}
}

func TestTextFromBytesUnsupported(t *testing.T) {
	_, err := TextFromBytes([]byte{0x89, 0x50, 0x4e, 0x47}, "image/png", "photo.png")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestNormalizeMimeTypeByExtension(t *testing.T) {
	cases := []struct {
		name     string
		declared string
		fileName string
		want     string
	}{
		{"txt extension", "", "resume.txt", "text/plain"},
		{"pdf extension", "", "resume.pdf", "application/pdf"},
		{"declared with charset", "text/plain; charset=utf-8", "resume", "text/plain"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeMimeType(tc.declared, tc.fileName, nil); got != tc.want {
				t.Fatalf("NormalizeMimeType(%q, %q) = %q, want %q", tc.declared, tc.fileName, got, tc.want)
			}
		})
	}
}

func TestNormalizeMimeTypeByMagic(t *testing.T) {
	if got := NormalizeMimeType("application/octet-stream", "whatever", []byte("%PDF-1.7 rest")); got != "application/pdf" {
		t.Fatalf("expected pdf from magic bytes, got %q", got)
	}
}
