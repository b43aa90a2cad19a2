package generation

import (
	"fmt"
	"strings"

	"archgen/internal/llm"
)

// Prompt is a system/user message pair for a single LLM call.
type Prompt struct {
	System string
	User   string
}

func (p Prompt) request() llm.Request {
	return llm.Request{System: p.System, User: p.User}
}

const noTreeAvailable = "No file tree available"

const diagramSystemPrompt = `You are a senior software architect who documents systems with the C4 model and Mermaid.js.

Turn the repository file tree you are given into a container-level architecture diagram.

Abstraction:
- Do not draw individual files. Group related files into logical modules such as "Auth Service" or "Shared UI".
- Ignore tooling and configuration files unless they are central to the architecture.
- Edges show data flow or functional dependencies, not file imports. Label every edge with a short verb phrase.

Mermaid syntax rules (the diagram must render in a standard Mermaid renderer):
1. Start with exactly "graph TD".
2. Do not write comments of any kind ("%%" lines are forbidden).
3. Every "subgraph" must be closed by its own "end" line.
4. Wrap every node label in double quotes, e.g. Api["API Gateway"].
5. Node ids use letters and digits only: no spaces, dashes, dots or underscores.
6. Declare every edge after all subgraphs have been closed, never inside a subgraph.
7. Avoid experimental features and styling directives.

Output: a short analysis of the modules you identified, followed by exactly one fenced code block that starts with ` + "```mermaid" + ` and ends with ` + "```" + `.`

// BuildDiagramPrompt builds the architecture-diagram prompt. A non-empty
// priorDiagram is embedded so the model refines it instead of starting over.
func BuildDiagramPrompt(treeLines []string, priorDiagram string) Prompt {
	var sb strings.Builder
	sb.WriteString("<file_tree>\n")
	sb.WriteString(treeListing(treeLines))
	sb.WriteString("\n</file_tree>\n")

	if d := strings.TrimSpace(priorDiagram); d != "" {
		sb.WriteString("\n<previous_diagram>\n")
		sb.WriteString(d)
		sb.WriteString("\n</previous_diagram>\n\n")
		sb.WriteString("The repository changed since the previous diagram was drawn. Update it to match the current file tree, keeping node ids that still apply.\n")
	}

	return Prompt{System: diagramSystemPrompt, User: sb.String()}
}

const documentationSystemPrompt = `You are a technical documentation expert. Write well-structured markdown documentation for a software repository.

Include these sections:
1. **Project Overview**: what the project does and why.
2. **Architecture**: the high-level design inferred from the file structure.
3. **Directory Structure**: the purpose of the key directories.
4. **Key Components**: the major modules.
5. **Getting Started**: setup and installation.
6. **Usage**: how to use the project.
7. **API Reference**: key APIs or endpoints, if any.

Use headers, code blocks and bullet points. Be concise but informative.`

// BuildDocumentationPrompt builds the markdown documentation prompt.
func BuildDocumentationPrompt(repoName string, treeLines []string, diagram string) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate documentation for the %q repository.\n\n", repoName)
	sb.WriteString("**File Structure:**\n```\n")
	sb.WriteString(treeListing(treeLines))
	sb.WriteString("\n```\n")

	if d := strings.TrimSpace(diagram); d != "" {
		sb.WriteString("\n**Architecture Diagram (Mermaid):**\n```mermaid\n")
		sb.WriteString(d)
		sb.WriteString("\n```\n")
	}
	return Prompt{System: documentationSystemPrompt, User: sb.String()}
}

const explainSystemPrompt = `You are an expert software architect. Explain one component of an architecture diagram.

You are given the component's label, the repository file tree and the full Mermaid diagram. Provide:
1. A clear 2-3 sentence explanation of what the component does.
2. The technologies or frameworks it most likely uses.
3. The file paths where its code most probably lives, taken from the file tree.

Be specific and practical.`

// BuildExplainPrompt builds the prompt for a single diagram node.
func BuildExplainPrompt(nodeLabel, repoName string, treeLines []string, diagram string) Prompt {
	if strings.TrimSpace(diagram) == "" {
		diagram = "Not available"
	}
	user := fmt.Sprintf("Explain this architecture component: %q\n\nRepository: %s\n\nFile Tree:\n%s\n\nDiagram Code:\n%s\n",
		nodeLabel, repoName, treeListing(treeLines), diagram)
	return Prompt{System: explainSystemPrompt, User: user}
}

// ExplainNodeTool is the schema the model must fill when explaining a node.
var ExplainNodeTool = llm.NewToolDefinition(
	"explain_node",
	"Provide a detailed explanation of an architecture component",
	map[string]llm.ParameterProperty{
		"description": {
			Type:        "string",
			Description: "2-3 sentence explanation of what this component does and its role in the architecture",
		},
		"tech_stack": {
			Type:        "array",
			Description: "Technologies, frameworks or libraries used by this component",
			Items:       &llm.ParameterProperty{Type: "string"},
		},
		"probable_files": {
			Type:        "array",
			Description: "File paths that likely contain this component's implementation",
			Items:       &llm.ParameterProperty{Type: "string"},
		},
	},
	[]string{"description", "tech_stack", "probable_files"},
)

func treeListing(lines []string) string {
	if len(lines) == 0 {
		return noTreeAvailable
	}
	return strings.Join(lines, "\n")
}
