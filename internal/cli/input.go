package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PromptText is shown before reading the URL list
const PromptText = "Please enter image URLs (comma-separated): "

// ParseURLs splits a comma-separated line into trimmed, non-blank URLs
func ParseURLs(line string) []string {
	parts := strings.Split(line, ",")
	urls := make([]string, 0, len(parts))
	for _, part := range parts {
		if u := strings.TrimSpace(part); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Prompt writes the prompt to out and reads one line from in.
// A final line without a trailing newline is accepted.
func Prompt(in io.Reader, out io.Writer) ([]string, error) {
	if _, err := fmt.Fprint(out, PromptText); err != nil {
		return nil, err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return ParseURLs(line), nil
}
