package llm

import "strings"

// ExtractJSON pulls the outermost JSON object out of a model response.
// Models frequently wrap JSON in markdown fences or surround it with
// prose; agents run raw output through this before unmarshaling.
// Returns the input unchanged when no object is found, so the caller's
// json.Unmarshal produces the error.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Strip a markdown fence, with or without a language tag.
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			first := strings.TrimSpace(s[:nl])
			if first == "json" || first == "" {
				s = s[nl+1:]
			}
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
