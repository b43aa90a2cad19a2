package generation

import (
	"regexp"
	"strings"
)

var (
	mermaidFence = regexp.MustCompile("(?i)```mermaid\\s*([\\s\\S]*?)```")
	anyFence     = regexp.MustCompile("```([^`\\n]*)\\n([\\s\\S]*?)```")
	inlineFence  = regexp.MustCompile("```([^`\\n]+)```")
	graphKeyword = regexp.MustCompile(`(?i)((?:graph|flowchart)\s+(?:TD|TB|LR|RL|BT)[\s\S]*)`)
)

// ExtractDiagram pulls the diagram source out of free-form model output. It
// tries, in order: a mermaid-tagged fence, any fence, a bare graph/flowchart
// declaration running to the end of the text, and finally the trimmed text.
func ExtractDiagram(response string) string {
	if m := mermaidFence.FindStringSubmatch(response); m != nil && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}
	if m := anyFence.FindStringSubmatch(response); m != nil {
		if body := fencedBody(m[1], m[2]); body != "" {
			return body
		}
	}
	if m := inlineFence.FindStringSubmatch(response); m != nil && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}
	if m := graphKeyword.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(response)
}

// fencedBody drops a single-word info string such as "text" from the opening
// fence line. A multi-word opening line like "graph TD" is diagram content.
func fencedBody(opening, rest string) string {
	opening = strings.TrimSpace(opening)
	if strings.ContainsAny(opening, " \t") {
		rest = opening + "\n" + rest
	}
	return strings.TrimSpace(rest)
}
