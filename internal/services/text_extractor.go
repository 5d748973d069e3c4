package services

import (
	"bytes"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
)

// TextExtractor pulls plain text out of an uploaded document so it can be fed
// to the analysis prompt.
type TextExtractor interface {
	ExtractText(data []byte, contentType string) (string, error)
}

type DocconvExtractor struct{}

func NewDocconvExtractor() *DocconvExtractor {
	return &DocconvExtractor{}
}

func (e *DocconvExtractor) ExtractText(data []byte, contentType string) (string, error) {
	// Plain text needs no conversion and docconv rejects unknown types.
	if strings.HasPrefix(contentType, "text/") {
		return string(data), nil
	}

	res, err := docconv.Convert(bytes.NewReader(data), contentType, false)
	if err != nil {
		return "", fmt.Errorf("docconv: %w", err)
	}

	text := strings.TrimSpace(res.Body)
	if text == "" {
		return "", fmt.Errorf("docconv: extracted empty text for content type %q", contentType)
	}

	return text, nil
}
