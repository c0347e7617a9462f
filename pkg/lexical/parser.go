package lexical

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Parser flattens Lexical editor JSON into plain text. Formatting is dropped;
// block boundaries become newlines and list items keep a short marker.
type Parser struct{}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{}
}

// Parse converts a Lexical JSON string to plain text
func (p *Parser) Parse(jsonContent string) (string, error) {
	var root LexicalRoot
	if err := json.Unmarshal([]byte(jsonContent), &root); err != nil {
		return "", fmt.Errorf("failed to parse lexical json: %w", err)
	}

	var sb strings.Builder
	p.walkNode(root.Root, &sb, 0)
	return strings.TrimSpace(sb.String()), nil
}

// IsLexical reports whether content looks like a serialized Lexical document.
func IsLexical(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), `{"root":`)
}

// ParseContent returns the plain text of a Lexical document. Anything that is
// not Lexical JSON, or fails to parse, is returned unchanged.
func ParseContent(content string) string {
	if !IsLexical(content) {
		return content
	}

	text, err := NewParser().Parse(strings.TrimSpace(content))
	if err != nil {
		return content
	}
	return text
}

func (p *Parser) walkNode(node Node, sb *strings.Builder, depth int) {
	switch node.Type {
	case "root":
		for _, child := range node.Children {
			p.walkNode(child, sb, depth)
		}

	case "paragraph", "heading", "quote":
		for _, child := range node.Children {
			p.walkNode(child, sb, depth)
		}
		sb.WriteString("\n")

	case "text", "code-highlight":
		sb.WriteString(node.Text)

	case "linebreak":
		sb.WriteString("\n")

	case "tab":
		sb.WriteString("\t")

	case "list":
		p.handleList(node, sb, depth)

	case "table":
		p.handleTable(node, sb)

	case "horizontalrule":
		sb.WriteString("\n")

	default:
		for _, child := range node.Children {
			p.walkNode(child, sb, depth)
		}
	}
}

func (p *Parser) handleList(node Node, sb *strings.Builder, depth int) {
	index := 1
	if node.Start > 0 {
		index = node.Start
	}

	for _, child := range node.Children {
		if child.Type != "listitem" {
			continue
		}

		sb.WriteString(strings.Repeat("  ", depth))
		switch node.ListType {
		case "number":
			sb.WriteString(strconv.Itoa(index) + ". ")
			index++
		case "check":
			if child.Checked {
				sb.WriteString("[x] ")
			} else {
				sb.WriteString("[ ] ")
			}
		default:
			sb.WriteString("- ")
		}

		for _, grandChild := range child.Children {
			if grandChild.Type == "list" {
				sb.WriteString("\n")
				p.handleList(grandChild, sb, depth+1)
				continue
			}
			p.walkNode(grandChild, sb, depth)
		}
		sb.WriteString("\n")
	}
}

// handleTable writes one line per row with cells separated by " | ".
func (p *Parser) handleTable(node Node, sb *strings.Builder) {
	for _, row := range node.Children {
		if row.Type != "tablerow" {
			continue
		}

		cells := make([]string, 0, len(row.Children))
		for _, cell := range row.Children {
			var cellSb strings.Builder
			for _, content := range cell.Children {
				p.walkNode(content, &cellSb, 0)
			}
			cells = append(cells, strings.Join(strings.Fields(cellSb.String()), " "))
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
	}
}
