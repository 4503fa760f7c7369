package changelog

import (
	"bytes"
	_ "embed"
	"fmt"
)

//go:embed changelog.relog
var embeddedChangelog []byte

// Embedded returns the raw embedded changelog.relog content.
// This content is embedded at build time and represents the tool's own
// release notes as of that build.
func Embedded() []byte {
	return embeddedChangelog
}

// LoadEmbedded parses the embedded changelog.relog. This allows
// displaying release notes in the CLI without network or file system
// access.
func LoadEmbedded() (*Document, error) {
	if len(embeddedChangelog) == 0 {
		return nil, fmt.Errorf("embedded changelog is empty (binary may have been built without embedded content)")
	}

	return LoadFromReader(bytes.NewReader(embeddedChangelog))
}
