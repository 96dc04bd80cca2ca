// Package docs embeds the qfs user documentation, one markdown file per
// topic.
package docs

import (
	"embed"
	"fmt"
	"slices"
	"strings"
)

//go:embed *.md
var topics embed.FS

// GetTopic returns the markdown content of one topic. The special topic "*"
// expands to all topics but the readme.
func GetTopic(topic string) (string, error) {
	if topic == "*" {
		all, err := GetAllTopics()
		if err != nil {
			return "", err
		}
		return GetTopics(all...)
	}
	content, err := topics.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", topic, err)
	}
	return string(content), nil
}

// GetTopics concatenates the content of several topics.
func GetTopics(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		content, err := GetTopic(name)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// GetAllTopics lists the available topics, sorted, readme excluded.
func GetAllTopics() ([]string, error) {
	entries, err := topics.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".md")
		if name == "readme" {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
