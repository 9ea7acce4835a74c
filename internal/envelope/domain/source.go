package domain

import (
	"fmt"
	"strings"
)

// SourceType distinguishes where an envelope arrives from.
type SourceType string

const (
	// SourceHeader marks an HTTP header source.
	SourceHeader SourceType = "header"

	// SourceEnv marks an environment variable source.
	SourceEnv SourceType = "env"
)

// Source names one envelope source that should be treated as potentially
// encrypted, parsed from an ACTION_SERVER_DECRYPT_INFORMATION entry such as
// "header:x-action-context". Sources not listed there are decoded as plain
// envelopes only.
type Source struct {
	Type SourceType
	Name string
}

// ParseSource parses a "type:name" entry. Unknown types are preserved as-is
// so consumers can ignore source kinds they do not handle; entries without a
// separator or with a blank side are rejected.
func ParseSource(entry string) (Source, error) {
	sourceType, name, found := strings.Cut(entry, ":")
	if !found || sourceType == "" || name == "" {
		return Source{}, fmt.Errorf("%w: entry must be in \"type:name\" format", ErrInvalidDecryptInformation)
	}
	return Source{Type: SourceType(sourceType), Name: name}, nil
}

// MatchesHeader reports whether the source names the given HTTP header.
// Header names compare case-insensitively.
func (s Source) MatchesHeader(header string) bool {
	return s.Type == SourceHeader && strings.EqualFold(s.Name, header)
}
