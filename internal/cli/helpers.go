package cli

import (
	"fmt"
	"os"

	"github.com/relog-cli/relog/internal/changelog"
	clierrors "github.com/relog-cli/relog/internal/errors"
)

// compileDocument compiles the document at path, mapping failures to
// structured CLI errors.
func compileDocument(path string) (*changelog.Document, error) {
	doc, err := changelog.Compile(path)
	if err != nil {
		return nil, clierrors.Wrap(err, clierrors.Document,
			fmt.Sprintf("Check the directive markup in %s", path),
			"Run 'relog validate' for a full report")
	}
	return doc, nil
}

// validateDocument compiles and validates; validation violations are
// returned separately from hard failures.
func validateDocument(path string) (*changelog.Document, []error, error) {
	doc, err := compileDocument(path)
	if err != nil {
		return nil, nil, err
	}

	issues := changelog.Validate(doc, changelog.ValidateOptions{
		RecognizedTags: cfg.RecognizedTags(),
	})
	return doc, issues, nil
}

// renderOptions builds markdown render options from configuration.
func renderOptions() changelog.RenderOptions {
	return changelog.RenderOptions{
		RepoURL:           cfg.RepoURL,
		TicketURLTemplate: cfg.Tickets.URLTemplate,
		RefURLTemplate:    cfg.Refs.URLTemplate,
	}
}

// renderToFile renders markdown for the document into path.
func renderToFile(doc *changelog.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	return changelog.RenderMarkdown(doc, f, renderOptions())
}

// formatOptions builds terminal format options from configuration.
func formatOptions() changelog.FormatOptions {
	return changelog.FormatOptions{
		Plain:    cfg.Render.Plain,
		MaxWidth: cfg.Render.Width,
	}
}
