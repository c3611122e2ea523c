package frontmatter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/boardsync/core/internal/domain"
)

var commentHeaderRe = regexp.MustCompile(`###\s+(\d{4}-\d{2}-\d{2})\s+@(\S+)`)

const commentsHeading = "\n## Comments\n"

// SplitBody separates a task's description from its trailing "## Comments"
// section, if any.
func SplitBody(body string) (description string, comments []domain.Comment) {
	padded := "\n" + body
	idx := strings.Index(padded, commentsHeading)
	if idx == -1 {
		return extractDescription(body), nil
	}
	descPart := ""
	if idx > 0 {
		descPart = padded[1:idx]
	}
	commentsPart := padded[idx+len(commentsHeading):]
	return extractDescription(descPart), parseComments(commentsPart)
}

func extractDescription(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "## Description\r\n")
	content = strings.TrimPrefix(content, "## Description\n")
	return strings.TrimSpace(content)
}

func parseComments(content string) []domain.Comment {
	matches := commentHeaderRe.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}

	var out []domain.Comment
	for i, m := range matches {
		dateStr := content[m[2]:m[3]]
		author := content[m[4]:m[5]]

		bodyStart := m[1]
		bodyEnd := len(content)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}
		body := strings.TrimSpace(content[bodyStart:bodyEnd])

		created, _ := time.Parse("2006-01-02", dateStr)
		out = append(out, domain.Comment{
			ID:      fmt.Sprintf("c%d", i+1),
			Author:  author,
			Body:    body,
			Created: created,
		})
	}
	return out
}

// RenderBody rejoins a description and its comments into a single body,
// the inverse of SplitBody.
func RenderBody(description string, comments []domain.Comment) string {
	var b strings.Builder
	if description != "" {
		b.WriteString("## Description\n\n")
		b.WriteString(description)
		b.WriteString("\n")
	}
	if len(comments) > 0 {
		b.WriteString("\n## Comments\n")
		for _, c := range comments {
			b.WriteString("\n### ")
			b.WriteString(c.Created.Format("2006-01-02"))
			b.WriteString(" @")
			b.WriteString(c.Author)
			b.WriteString("\n\n")
			b.WriteString(c.Body)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
