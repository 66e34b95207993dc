// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mdclean normalizes converter-generated Markdown through an
// ordered pipeline of narrow rewrite rules. The pipeline is idempotent:
// running it twice over any input produces the same output as running it
// once, so a cleaned document can be safely re-cleaned.
package mdclean

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/markdown-forge/pkg/types"
)

// Document is a Markdown file split into YAML front matter and body lines.
// The front matter is held as a yaml.Node mapping so key order and scalar
// quoting survive a parse/serialize round trip.
type Document struct {
	// Meta is the front matter mapping node, nil when the file has none.
	Meta *yaml.Node

	// Body is the document body, one line per element, without the front
	// matter fences.
	Body []string

	// Source records the original container format; a few rules only
	// apply to PDF-derived text.
	Source types.SourceType
}

// Parse splits Markdown text into front matter and body. A malformed front
// matter block is left in the body untouched rather than failing the parse.
func Parse(text string, source types.SourceType) *Document {
	doc := &Document{Source: source}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) != "---" {
				continue
			}
			block := strings.Join(lines[1:i], "\n")
			var node yaml.Node
			if err := yaml.Unmarshal([]byte(block), &node); err == nil &&
				len(node.Content) == 1 && node.Content[0].Kind == yaml.MappingNode {
				doc.Meta = node.Content[0]
				lines = lines[i+1:]
			}
			break
		}
	}

	// Drop one leading blank left behind by the front matter fence.
	if doc.Meta != nil && len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}

	doc.Body = lines
	return doc
}

// String reassembles the document: front matter fences, a separating blank
// line, then the body terminated by a single newline.
func (d *Document) String() string {
	var b strings.Builder
	if d.Meta != nil && len(d.Meta.Content) > 0 {
		out, err := yaml.Marshal(d.Meta)
		if err == nil {
			b.WriteString("---\n")
			b.Write(out)
			b.WriteString("---\n\n")
		}
	}
	body := strings.TrimRight(strings.Join(d.Body, "\n"), "\n ")
	b.WriteString(body)
	b.WriteString("\n")
	return b.String()
}

// MetaGet returns the scalar value for key, or "" when absent or non-scalar.
func (d *Document) MetaGet(key string) string {
	_, value := d.metaEntry(key)
	if value == nil || value.Kind != yaml.ScalarNode {
		return ""
	}
	return value.Value
}

// MetaSet stores a scalar value for key, appending the key when new.
func (d *Document) MetaSet(key, value string) {
	if d.Meta == nil {
		d.Meta = &yaml.Node{Kind: yaml.MappingNode}
	}
	if _, existing := d.metaEntry(key); existing != nil {
		existing.SetString(value)
		return
	}
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
	valueNode := &yaml.Node{}
	valueNode.SetString(value)
	d.Meta.Content = append(d.Meta.Content, keyNode, valueNode)
}

// MetaDelete removes key from the front matter; missing keys are a no-op.
func (d *Document) MetaDelete(key string) {
	if d.Meta == nil {
		return
	}
	for i := 0; i+1 < len(d.Meta.Content); i += 2 {
		if d.Meta.Content[i].Value == key {
			d.Meta.Content = append(d.Meta.Content[:i], d.Meta.Content[i+2:]...)
			return
		}
	}
}

// metaEntry finds the key/value node pair for key.
func (d *Document) metaEntry(key string) (*yaml.Node, *yaml.Node) {
	if d.Meta == nil {
		return nil, nil
	}
	for i := 0; i+1 < len(d.Meta.Content); i += 2 {
		if d.Meta.Content[i].Value == key {
			return d.Meta.Content[i], d.Meta.Content[i+1]
		}
	}
	return nil, nil
}

// metaValueEmpty reports whether the value node for key holds no content:
// an empty scalar, empty list, or null.
func (d *Document) metaValueEmpty(key string) bool {
	_, value := d.metaEntry(key)
	if value == nil {
		return true
	}
	switch value.Kind {
	case yaml.ScalarNode:
		return strings.TrimSpace(value.Value) == "" || value.Tag == "!!null"
	case yaml.SequenceNode, yaml.MappingNode:
		return len(value.Content) == 0
	default:
		return false
	}
}

// walkFences iterates body lines calling fn only outside fenced code
// blocks; fenced content passes through verbatim. The callback returns the
// replacement line, or removed=true to drop the line entirely.
func walkFences(lines []string, fn func(line string) (out string, removed bool)) []string {
	result := make([]string, 0, len(lines))
	inFence := false
	for _, line := range lines {
		stripped := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(stripped, "```") || strings.HasPrefix(stripped, "~~~") {
			inFence = !inFence
			result = append(result, line)
			continue
		}
		if inFence {
			result = append(result, line)
			continue
		}
		out, removed := fn(line)
		if removed {
			continue
		}
		result = append(result, out)
	}
	return result
}

// RuleError wraps a single rule failure; the pipeline reports and skips it.
type RuleError struct {
	Rule string
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: %v", e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }
