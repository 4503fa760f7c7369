// Package changelog implements directive-based changelog documents.
//
// This package implements:
//   - Parsing of the directive markup (.. changelog:: / .. change:: /
//     .. include:: blocks with :tags: and :tickets: fields)
//   - Validation of compiled documents (version format, recognized
//     tags, ticket references, include cycles)
//   - Include resolution composing historical documents into one
//   - Version and entry querying for CLI display
//   - Rendering to markdown, canonical directive markup, and YAML
//   - Embedded own-changelog support via go:embed
//
// A document on disk is a .relog file; Compile resolves its include
// directives transitively and returns a single Document.
package changelog
