package llm

import (
	"encoding/json"
	"strings"
	"unicode"
)

// ParseProductList reads a list of product names from model output. A JSON
// array of strings is preferred; otherwise each non-empty line is taken as a
// name after list markers and quotes are stripped. Names are trimmed,
// deduplicated case-insensitively and capped at MaxExtractedProducts. The
// output is never evaluated as code.
func ParseProductList(content string) []string {
	content = cleanMarkdownWrapper(content)
	if content == "" {
		return nil
	}

	var raw []string
	if start, end := strings.Index(content, "["), strings.LastIndex(content, "]"); start >= 0 && end > start {
		var arr []any
		if err := json.Unmarshal([]byte(content[start:end+1]), &arr); err == nil {
			for _, v := range arr {
				if s, ok := v.(string); ok {
					raw = append(raw, s)
				}
			}
			return normalizeNames(raw)
		}
		// Python-style single-quoted lists.
		if alt := strings.ReplaceAll(content[start:end+1], "'", `"`); alt != content[start:end+1] {
			var names []string
			if err := json.Unmarshal([]byte(alt), &names); err == nil {
				return normalizeNames(names)
			}
		}
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}
		raw = append(raw, stripListMarker(line))
	}
	return normalizeNames(raw)
}

func stripListMarker(line string) string {
	line = strings.TrimLeft(line, "-*•[ ")
	// "1." / "2)" numbering
	i := 0
	for i < len(line) && unicode.IsDigit(rune(line[i])) {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		line = line[i+1:]
	}
	line = strings.TrimRight(strings.TrimSpace(line), ",]")
	return strings.Trim(line, `"'`)
}

func normalizeNames(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	var out []string
	for _, name := range raw {
		name = strings.Join(strings.Fields(name), " ")
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
		if len(out) == MaxExtractedProducts {
			break
		}
	}
	return out
}
