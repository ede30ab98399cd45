package services

import (
	"archive/zip"
	"bytes"
	"io"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/utils"
)

// RenderDocx substitutes {token} placeholders in a .docx template and
// returns the rendered document. Tokens present in the document but
// absent from values are left untouched; known keys that never matched
// are returned so callers can warn template authors. The transform is
// pure: the input buffer is never modified.
func RenderDocx(template []byte, values map[string]string) ([]byte, []string, error) {
	reader, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, nil, utils.NewInternalError("Failed to parse letter template")
	}

	matched := make(map[string]bool, len(values))

	var out bytes.Buffer
	writer := zip.NewWriter(&out)
	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			writer.Close()
			return nil, nil, utils.NewInternalError("Failed to read letter template")
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			writer.Close()
			return nil, nil, utils.NewInternalError("Failed to read letter template")
		}

		if strings.HasSuffix(strings.ToLower(file.Name), ".xml") {
			content := string(data)
			content = normalizePlaceholders(content, values)
			for _, key := range sortedKeys(values) {
				token := "{" + key + "}"
				if strings.Contains(content, token) {
					matched[key] = true
					content = strings.ReplaceAll(content, token, formatDocxValue(values[key]))
				}
			}
			data = []byte(content)
		}

		header := file.FileHeader
		entry, err := writer.CreateHeader(&header)
		if err != nil {
			writer.Close()
			return nil, nil, utils.NewInternalError("Failed to write rendered letter")
		}
		if _, err := entry.Write(data); err != nil {
			writer.Close()
			return nil, nil, utils.NewInternalError("Failed to write rendered letter")
		}
	}

	if err := writer.Close(); err != nil {
		return nil, nil, utils.NewInternalError("Failed to finalize rendered letter")
	}

	unmatched := make([]string, 0)
	for _, key := range sortedKeys(values) {
		if !matched[key] {
			unmatched = append(unmatched, key)
		}
	}

	return out.Bytes(), unmatched, nil
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// formatDocxValue escapes a replacement value for WordprocessingML,
// turning newlines into <w:br/> run breaks.
func formatDocxValue(value string) string {
	if value == "" {
		return ""
	}

	parts := strings.Split(value, "\n")
	for i, part := range parts {
		parts[i] = xmlEscape(part)
	}

	if len(parts) == 1 {
		return parts[0]
	}

	return strings.Join(parts, "</w:t><w:br/><w:t xml:space=\"preserve\">")
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

func xmlEscape(value string) string {
	return xmlReplacer.Replace(value)
}

var (
	placeholderRegexCache sync.Map
	proofErrTagPattern    = regexp.MustCompile(`<w:proofErr[^>]*/>`)
)

// normalizePlaceholders repairs placeholders that Word split across
// runs (spellcheck markers, formatting boundaries) so that the plain
// {token} text can be matched afterwards.
func normalizePlaceholders(content string, values map[string]string) string {
	if len(values) == 0 {
		return content
	}

	content = proofErrTagPattern.ReplaceAllString(content, "")

	for _, key := range sortedKeys(values) {
		token := "{" + key + "}"
		re := placeholderRegexFor(token)
		content = re.ReplaceAllString(content, token)
	}

	return content
}

// placeholderRegexFor builds a pattern matching the token with
// arbitrary XML tags or whitespace between its characters.
func placeholderRegexFor(token string) *regexp.Regexp {
	if cached, ok := placeholderRegexCache.Load(token); ok {
		return cached.(*regexp.Regexp)
	}

	const gap = `(?:\s|<[^>]+>)*`

	var builder strings.Builder
	for i, r := range token {
		if i > 0 {
			builder.WriteString(gap)
		}
		builder.WriteString(regexp.QuoteMeta(string(r)))
	}

	re := regexp.MustCompile(builder.String())
	placeholderRegexCache.Store(token, re)
	return re
}
