package tools

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/docxforge/docxforge/core/errors"
)

// extractionError renders a read-path failure as an {"error": ...} JSON
// payload, which is what inspection tools return instead of prose.
func extractionError(filename string, err error) json.RawMessage {
	switch {
	case stderrors.Is(err, errors.ErrNoDocument):
		return jsonError("No document loaded.")
	case stderrors.Is(err, errors.ErrNotFound):
		return jsonError(fmt.Sprintf("File not found: %s", filename))
	}
	return jsonError(err.Error())
}

// mutationError renders a write-path failure as a prose response. Domain
// failures (bad index, bad input) use the tool-specific fallback; missing
// document and missing file have fixed wordings shared by every tool.
func mutationError(filename string, err error, fallback string) string {
	var nf *errors.NotFoundError
	switch {
	case stderrors.Is(err, errors.ErrNoDocument):
		return noDocument
	case stderrors.As(err, &nf) && nf.Resource == "file":
		return fmt.Sprintf("Error: File not found: %s", filename)
	case stderrors.Is(err, errors.ErrNotFound),
		stderrors.Is(err, errors.ErrOutOfRange),
		stderrors.Is(err, errors.ErrInvalidInput):
		return fallback
	}
	return fmt.Sprintf("Error: %v", err)
}
