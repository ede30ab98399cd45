package services

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	entries := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types/>`,
		"word/document.xml":   documentXML,
		"word/media/logo.png": "not-xml-binary-payload",
	}
	for name, content := range entries {
		entry, err := writer.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func readDocxEntry(t *testing.T, docx []byte, name string) string {
	t.Helper()

	reader, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		t.Fatalf("rendered output is not a zip: %v", err)
	}
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("failed to read %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("entry %s missing from rendered output", name)
	return ""
}

func TestRenderDocxSubstitutesPlaceholders(t *testing.T) {
	template := buildDocx(t, `<w:t>Nama: {nama_lengkap}, NIK: {nik}</w:t>`)

	rendered, unmatched, err := RenderDocx(template, map[string]string{
		"nama_lengkap": "Budi Santoso",
		"nik":          "3209011701900001",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unmatched) != 0 {
		t.Fatalf("expected all tokens matched, got unmatched %v", unmatched)
	}

	document := readDocxEntry(t, rendered, "word/document.xml")
	if !strings.Contains(document, "Nama: Budi Santoso, NIK: 3209011701900001") {
		t.Fatalf("placeholders not substituted: %s", document)
	}
	if strings.Contains(document, "{nama_lengkap}") {
		t.Fatalf("placeholder left behind: %s", document)
	}
}

func TestRenderDocxRepairsPlaceholdersSplitAcrossRuns(t *testing.T) {
	// Word splits tokens across runs with spellcheck markers.
	template := buildDocx(t, `<w:p><w:r><w:t>{</w:t></w:r>`+
		`<w:proofErr w:type="spellStart"/><w:r><w:t>nama_lengkap</w:t></w:r>`+
		`<w:proofErr w:type="spellEnd"/><w:r><w:t>}</w:t></w:r></w:p>`)

	rendered, unmatched, err := RenderDocx(template, map[string]string{
		"nama_lengkap": "Siti Aminah",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unmatched) != 0 {
		t.Fatalf("expected split token to match, got unmatched %v", unmatched)
	}

	document := readDocxEntry(t, rendered, "word/document.xml")
	if !strings.Contains(document, "Siti Aminah") {
		t.Fatalf("split placeholder not substituted: %s", document)
	}
}

func TestRenderDocxReportsUnmatchedKnownTokens(t *testing.T) {
	template := buildDocx(t, `<w:t>{nama_lengkap} tinggal di {alamat}</w:t>`)

	_, unmatched, err := RenderDocx(template, map[string]string{
		"nama_lengkap": "Budi Santoso",
		"alamat":       "Dusun Satu",
		"nik":          "3209011701900001",
		"agama":        "Islam",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unmatched) != 2 || unmatched[0] != "agama" || unmatched[1] != "nik" {
		t.Fatalf("expected sorted unmatched [agama nik], got %v", unmatched)
	}
}

func TestRenderDocxLeavesUnknownTokensUntouched(t *testing.T) {
	template := buildDocx(t, `<w:t>{nama_lengkap} dan {tidak_dikenal}</w:t>`)

	rendered, _, err := RenderDocx(template, map[string]string{
		"nama_lengkap": "Budi Santoso",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	document := readDocxEntry(t, rendered, "word/document.xml")
	if !strings.Contains(document, "{tidak_dikenal}") {
		t.Fatalf("unknown token should be left for the template author: %s", document)
	}
}

func TestRenderDocxEscapesValuesAndBreaksLines(t *testing.T) {
	template := buildDocx(t, `<w:t xml:space="preserve">{catatan}</w:t>`)

	rendered, _, err := RenderDocx(template, map[string]string{
		"catatan": "a < b & c\nbaris dua",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	document := readDocxEntry(t, rendered, "word/document.xml")
	if !strings.Contains(document, "a &lt; b &amp; c") {
		t.Fatalf("value not XML-escaped: %s", document)
	}
	if !strings.Contains(document, "<w:br/>") {
		t.Fatalf("newline not turned into a run break: %s", document)
	}
}

func TestRenderDocxSkipsNonXMLEntries(t *testing.T) {
	template := buildDocx(t, `<w:t>{nama_lengkap}</w:t>`)

	rendered, _, err := RenderDocx(template, map[string]string{
		"nama_lengkap": "Budi Santoso",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	media := readDocxEntry(t, rendered, "word/media/logo.png")
	if media != "not-xml-binary-payload" {
		t.Fatalf("binary entry was modified: %q", media)
	}
}

func TestRenderDocxRejectsMalformedTemplate(t *testing.T) {
	_, _, err := RenderDocx([]byte("definitely not a zip"), map[string]string{"nik": "1"})
	if err == nil {
		t.Fatal("expected an error for a malformed template")
	}
}
