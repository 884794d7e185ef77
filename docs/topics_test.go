package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/rishirsv/pfdigest/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md loads, and every topic file is listed.
	file, err := os.Open(Index + ".md")
	require.NoError(t, err)
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	require.NoError(t, scanner.Err())

	for _, topic := range listed {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := Topics(topic); err != nil {
				t.Errorf("Topics(%q) error = %v", topic, err)
			}
		})
	}

	all, err := All()
	require.NoError(t, err)
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in %s.md", topic, Index)
		}
	}
}

func TestTopics_All(t *testing.T) {
	got, err := Topics("*")
	require.NoError(t, err)
	assert.Contains(t, got, "# Digests")
	assert.Contains(t, got, "# Extensions")
	assert.NotContains(t, got, "pfd topic <name>")

	_, err = Topics("nope")
	assert.Error(t, err)
}

// Block is a fenced code block of a topic.
type Block struct {
	Lang    string
	Content string
	File    string
}

// parseMarkdown returns the fenced code blocks of a markdown file.
func parseMarkdown(t *testing.T, file string) []Block {
	t.Helper()
	content, err := os.ReadFile(file)
	require.NoError(t, err)

	var blocks []Block
	root := goldmark.DefaultParser().Parse(text.NewReader(content))
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(content))
		}
		blocks = append(blocks, Block{Lang: string(fcb.Language(content)), Content: b.String(), File: file})
		return ast.WalkContinue, nil
	})
	return blocks
}

func TestConfigurationExamples(t *testing.T) {
	files, err := filepath.Glob("*.md")
	require.NoError(t, err)

	found := 0
	for _, file := range files {
		for _, block := range parseMarkdown(t, file) {
			if block.Lang != "yaml" {
				continue
			}
			found++
			path := filepath.Join(t.TempDir(), "pfd.yaml")
			require.NoError(t, os.WriteFile(path, []byte(block.Content), 0o644))
			if _, err := config.Load(path); err != nil {
				t.Errorf("%s: configuration example does not load: %v", file, err)
			}
		}
	}
	assert.Positive(t, found, "no yaml example found")
}
