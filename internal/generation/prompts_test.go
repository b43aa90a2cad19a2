package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDiagramPrompt(t *testing.T) {
	lines := []string{"cmd/", "  main.go", "go.mod"}

	t.Run("system prompt carries the syntax rules", func(t *testing.T) {
		p := BuildDiagramPrompt(lines, "")

		for _, rule := range []string{"graph TD", "subgraph", "end", "double quotes", "letters and digits", "```mermaid"} {
			assert.Contains(t, p.System, rule)
		}
		assert.Contains(t, p.User, "cmd/\n  main.go\ngo.mod")
		assert.NotContains(t, p.User, "<previous_diagram>")
	})

	t.Run("prior diagram is embedded for refinement", func(t *testing.T) {
		p := BuildDiagramPrompt(lines, "graph TD\nA-->B")

		assert.Contains(t, p.User, "<previous_diagram>\ngraph TD\nA-->B\n</previous_diagram>")
	})

	t.Run("whitespace-only prior diagram is ignored", func(t *testing.T) {
		p := BuildDiagramPrompt(lines, "  \n ")
		assert.NotContains(t, p.User, "<previous_diagram>")
	})
}

func TestBuildDocumentationPrompt(t *testing.T) {
	p := BuildDocumentationPrompt("acme/api", nil, "")
	assert.Contains(t, p.User, `"acme/api"`)
	assert.Contains(t, p.User, noTreeAvailable)
	assert.NotContains(t, p.User, "```mermaid")

	p = BuildDocumentationPrompt("acme/api", []string{"go.mod"}, "graph TD\nA-->B")
	assert.Contains(t, p.User, "```mermaid\ngraph TD\nA-->B\n```")
}

func TestBuildExplainPrompt(t *testing.T) {
	p := BuildExplainPrompt("Auth Service", "acme/api", []string{"auth/"}, "")
	assert.Contains(t, p.User, `"Auth Service"`)
	assert.Contains(t, p.User, "Diagram Code:\nNot available")

	p = BuildExplainPrompt("API", "acme/api", []string{"src/", "src/api/", "src/api/handler.go", "cmd/api/handler.go"}, "graph TD\nA-->B")
	assert.Contains(t, p.User, "File Tree:\nsrc/\nsrc/api/\nsrc/api/handler.go\ncmd/api/handler.go\n")
}

func TestExplainNodeTool(t *testing.T) {
	assert.Equal(t, "explain_node", ExplainNodeTool.Name)
	assert.Equal(t, []string{"description", "tech_stack", "probable_files"}, ExplainNodeTool.Parameters["required"])
}
