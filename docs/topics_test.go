package docs

import (
	"regexp"
	"slices"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// topicLine matches the readme bullet list, like "* risk: volatility ...".
var topicLine = regexp.MustCompile(`(?m)^\*\s+([^:]+):`)

// TestTopics checks that the readme and the topic files agree: every topic
// the readme advertises exists, and every topic file is advertised.
func TestTopics(t *testing.T) {
	readme, err := GetTopic("readme")
	if err != nil {
		t.Fatalf("readme topic: %v", err)
	}

	var advertised []string
	for _, m := range topicLine.FindAllStringSubmatch(readme, -1) {
		advertised = append(advertised, m[1])
	}
	if len(advertised) == 0 {
		t.Fatal("readme advertises no topics")
	}
	for _, topic := range advertised {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("readme advertises %q: %v", topic, err)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	slices.Sort(advertised)
	if !slices.Equal(advertised, all) {
		t.Errorf("readme advertises %v, files hold %v", advertised, all)
	}
}

// TestTopicHeadings checks that every topic renders as a standalone document,
// opening with a level one heading.
func TestTopicHeadings(t *testing.T) {
	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range append([]string{"readme"}, all...) {
		content, err := GetTopic(topic)
		if err != nil {
			t.Fatal(err)
		}
		doc := goldmark.DefaultParser().Parse(text.NewReader([]byte(content)))
		heading, ok := doc.FirstChild().(*ast.Heading)
		if !ok || heading.Level != 1 {
			t.Errorf("topic %q does not open with a level 1 heading", topic)
		}
	}
}

func TestGetTopicsConcatenates(t *testing.T) {
	doc, err := GetTopics("ledger", "risk")
	if err != nil {
		t.Fatal(err)
	}
	single, err := GetTopic("ledger")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc) <= len(single) {
		t.Error("concatenation is not longer than a single topic")
	}
}

func TestGetTopicUnknown(t *testing.T) {
	if _, err := GetTopic("no-such-topic"); err == nil {
		t.Error("expected an error for an unknown topic")
	}
}
