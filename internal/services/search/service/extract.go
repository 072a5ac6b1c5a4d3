package service

import "strings"

// PlainExtractor handles text-bearing mime types and declines the rest.
// Binary formats yield no body text; their title, mime and author columns
// still land in the index
type PlainExtractor struct{}

// Extract implements domain.ExtractorPort
func (PlainExtractor) Extract(mime, content string) (string, error) {
	switch {
	case mime == "", strings.HasPrefix(mime, "text/"):
		return content, nil
	case mime == "application/json", mime == "application/xml":
		return content, nil
	default:
		return "", nil
	}
}
