package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// This test ensures that the documentation is in sync with itself:
	// 1. Every topic listed in readme.md can be loaded by `rrs topic <name>`.
	// 2. Every .md file (readme.md excluded) is listed in readme.md.

	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)

	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range topicsInReadme {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := GetTopic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatalf("failed to glob *.md: %v", err)
	}
	for _, file := range files {
		topic := strings.TrimSuffix(filepath.Base(file), ".md")
		if topic == "readme" {
			continue
		}
		found := false
		for _, listed := range topicsInReadme {
			if listed == topic {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("topic %q is not listed in docs/readme.md", topic)
		}
	}
}

func TestTopicsStartWithTitle(t *testing.T) {
	// Every topic must parse as markdown and open with a level-1 heading,
	// so concatenated topics render as separate documents.
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			content, err := os.ReadFile(file)
			if err != nil {
				t.Fatal(err)
			}
			root := goldmark.DefaultParser().Parse(text.NewReader(content))
			first := root.FirstChild()
			if first == nil {
				t.Fatal("empty document")
			}
			h, ok := first.(*ast.Heading)
			if !ok || h.Level != 1 {
				t.Errorf("document does not start with a level-1 heading")
			}
		})
	}
}
