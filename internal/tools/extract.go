package tools

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/docxforge/docxforge/core/docx"
	"github.com/docxforge/docxforge/core/errors"
	"github.com/docxforge/docxforge/core/snapshot"
	"github.com/docxforge/docxforge/internal/session"
)

func (r *Registry) registerExtractTools() {
	r.register("extract_document_parameters",
		"Extract a JSON snapshot of the document's properties, sections, styles, numbering, headers/footers and tables.",
		extractDocumentParameters)
	r.register("extract_core_properties",
		"Extract only the core properties as JSON.",
		partialExtract(func(doc *docx.Document) any {
			return snapshot.ExtractCoreProperties(doc)
		}))
	r.register("extract_custom_properties",
		"Extract only the custom properties as JSON.",
		partialExtract(func(doc *docx.Document) any {
			return snapshot.ExtractCustomProperties(doc)
		}))
	r.register("extract_document_variables",
		"Extract only the document variables as JSON.",
		partialExtract(func(doc *docx.Document) any {
			return snapshot.ExtractDocumentVariables(doc)
		}))
	r.register("extract_section_properties",
		"Extract only the per-section geometry as JSON.",
		partialExtract(func(doc *docx.Document) any {
			return snapshot.ExtractSections(doc)
		}))
	r.register("extract_styles_info", "Extract only the styles as JSON.", extractStylesInfo)
	r.register("apply_template_parameters",
		"Create a fresh document from a snapshot JSON and make it the current document.",
		applyTemplateParameters)
}

func extractDocumentParameters(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Filename  string `json:"filename"`
		Compact   bool   `json:"compact"`
		AllStyles bool   `json:"all_styles"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}

	var out []byte
	err := sess.View(p.Filename, func(doc *docx.Document) error {
		snap := snapshot.Extract(doc, snapshot.ExtractOptions{
			SourceFile: sourceName(sess, p.Filename),
			AllStyles:  p.AllStyles,
			Compact:    p.Compact,
		})
		var encErr error
		out, encErr = snap.EncodeJSON(p.Compact)
		return encErr
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrNoDocument) {
			return jsonError(noDocumentProvided), nil
		}
		return extractionError(p.Filename, err), nil
	}
	return json.RawMessage(out), nil
}

// partialExtract wraps one section of the snapshot as its own tool. All
// partial extractors share the same resolution and error contract.
func partialExtract(extract func(*docx.Document) any) Handler {
	return func(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
		p := struct {
			Filename string `json:"filename"`
		}{}
		if err := decode(args, &p); err != nil {
			return nil, err
		}

		var result any
		err := sess.View(p.Filename, func(doc *docx.Document) error {
			result = extract(doc)
			return nil
		})
		if err != nil {
			return extractionError(p.Filename, err), nil
		}
		out, err := indentJSON(result, false)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

func extractStylesInfo(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Filename  string `json:"filename"`
		AllStyles bool   `json:"all_styles"`
		Compact   bool   `json:"compact"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}

	var result *snapshot.StylesInfo
	err := sess.View(p.Filename, func(doc *docx.Document) error {
		result = snapshot.ExtractStyles(doc, p.AllStyles)
		return nil
	})
	if err != nil {
		return extractionError(p.Filename, err), nil
	}
	out, err := indentJSON(result, p.Compact)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func applyTemplateParameters(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		ParametersJSON string `json:"parameters_json"`
		OutputFilename string `json:"output_filename"`
	}{OutputFilename: "new_document.docx"}
	if err := decode(args, &p); err != nil {
		return nil, err
	}

	snap, err := snapshot.Decode([]byte(p.ParametersJSON))
	if err != nil {
		return fmt.Sprintf("Error parsing JSON: %v", err), nil
	}

	doc, report := snapshot.Apply(snap)
	sess.Replace(doc, p.OutputFilename)
	return fmt.Sprintf("Created new document with template parameters. Styles applied: %d. Ready to save to %s.",
		report.StylesApplied(), p.OutputFilename), nil
}

// sourceName reports the file a snapshot was taken from: the explicit
// filename when given, otherwise the current document's save path.
func sourceName(sess *session.Session, filename string) string {
	if filename != "" {
		return filename
	}
	return sess.Path()
}
