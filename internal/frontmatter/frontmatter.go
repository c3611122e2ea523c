// Package frontmatter parses and emits Markdown files with YAML
// frontmatter, preserving user-authored key order. Uses yaml.Node rather
// than a plain map or tagged struct because neither preserves the order of
// keys the codec didn't itself write (spec §9: "a linked-hash map rather
// than a plain map").
package frontmatter

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a parsed frontmatter file: an ordered metadata mapping plus
// the Markdown body that follows it.
type Document struct {
	Meta *yaml.Node // always a MappingNode (or nil for an empty document)
	Body string
}

// Decode splits content into (metadata, body). Returns an error if the file
// has no opening "---" delimiter or the frontmatter is never closed; callers
// in the filesystem store treat such errors as "skip this file, log it" per
// §4.2 and §7 — never propagate further.
func Decode(content []byte) (*Document, error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("frontmatter: empty file")
	}
	if strings.TrimSpace(scanner.Text()) != "---" {
		return nil, fmt.Errorf("frontmatter: file does not start with a frontmatter delimiter")
	}

	var raw bytes.Buffer
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			closed = true
			break
		}
		raw.WriteString(line)
		raw.WriteByte('\n')
	}
	if !closed {
		return nil, fmt.Errorf("frontmatter: closing delimiter not found")
	}

	var body bytes.Buffer
	for scanner.Scan() {
		body.WriteString(scanner.Text())
		body.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("frontmatter: read error: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw.Bytes(), &doc); err != nil {
		return nil, fmt.Errorf("frontmatter: invalid YAML: %w", err)
	}

	meta := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
		meta = doc.Content[0]
	}

	return &Document{Meta: meta, Body: strings.TrimSpace(body.String())}, nil
}

// Encode emits content with "---\n<meta>---\n\n<body>", marshaling meta
// with yaml.Node so key insertion order is preserved exactly as built.
func Encode(meta *yaml.Node, body string) ([]byte, error) {
	if meta == nil {
		meta = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}

	metaBytes, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: marshal metadata: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(metaBytes)
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

// Get returns the scalar value of key in a mapping node, and true if found.
func Get(meta *yaml.Node, key string) (*yaml.Node, bool) {
	if meta == nil || meta.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(meta.Content); i += 2 {
		if meta.Content[i].Value == key {
			return meta.Content[i+1], true
		}
	}
	return nil, false
}

// Set assigns key = value in a mapping node, appending if the key is not
// already present (preserving its existing position if it is).
func Set(meta *yaml.Node, key string, value *yaml.Node) {
	if meta.Kind != yaml.MappingNode {
		*meta = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	for i := 0; i+1 < len(meta.Content); i += 2 {
		if meta.Content[i].Value == key {
			meta.Content[i+1] = value
			return
		}
	}
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	meta.Content = append(meta.Content, keyNode, value)
}

// Scalar builds a plain scalar yaml.Node for a string value.
func Scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// Bool builds a scalar yaml.Node for a bool value.
func Bool(value bool) *yaml.Node {
	v := "false"
	if value {
		v = "true"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v}
}

// StringSeq builds a sequence yaml.Node of plain string scalars.
func StringSeq(values []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, v := range values {
		seq.Content = append(seq.Content, Scalar(v))
	}
	return seq
}

// StringValue extracts a plain string from a scalar node, or "" if absent.
func StringValue(n *yaml.Node) string {
	if n == nil {
		return ""
	}
	return n.Value
}

// BoolValue extracts a bool from a scalar node, defaulting to false.
func BoolValue(n *yaml.Node) bool {
	if n == nil {
		return false
	}
	return n.Value == "true"
}

// StringSeqValue extracts a []string from a sequence node.
func StringSeqValue(n *yaml.Node) []string {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for _, c := range n.Content {
		out = append(out, c.Value)
	}
	return out
}
