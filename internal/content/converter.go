package content

import (
	"fmt"
	"os"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// MarkdownConverter renders a raw-cache HTML file to Markdown.
type MarkdownConverter struct{}

// NewMarkdownConverter returns the default Converter implementation.
func NewMarkdownConverter() *MarkdownConverter {
	return &MarkdownConverter{}
}

// Convert reads the file at path and returns its Markdown rendition.
func (c *MarkdownConverter) Convert(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	md, err := htmltomarkdown.ConvertString(string(data))
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", path, err)
	}
	return md, nil
}
