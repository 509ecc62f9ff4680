package tools

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/docxforge/docxforge/core/docx"
	"github.com/docxforge/docxforge/core/errors"
	"github.com/docxforge/docxforge/core/snapshot"
	"github.com/docxforge/docxforge/internal/session"
)

const noLibrary = "No template library configured. Start the server with a library directory."

func (r *Registry) registerTemplateTools() {
	r.register("save_snapshot_template",
		"Extract the current document's snapshot and store it in the template library under a name.",
		r.saveSnapshotTemplate)
	r.register("load_snapshot_template",
		"Create a new current document from a named snapshot in the template library.",
		r.loadSnapshotTemplate)
	r.register("list_snapshot_templates",
		"List the snapshots stored in the template library.",
		r.listSnapshotTemplates)
	r.register("delete_snapshot_template",
		"Remove a named snapshot from the template library.",
		r.deleteSnapshotTemplate)
}

func (r *Registry) saveSnapshotTemplate(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Name     string `json:"name"`
		Filename string `json:"filename"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if r.library == nil {
		return noLibrary, nil
	}
	if p.Name == "" {
		return "Template name must not be empty.", nil
	}

	var payload []byte
	err := sess.View(p.Filename, func(doc *docx.Document) error {
		snap := snapshot.Extract(doc, snapshot.ExtractOptions{
			SourceFile: sourceName(sess, p.Filename),
		})
		var encErr error
		payload, encErr = snap.EncodeJSON(true)
		return encErr
	})
	if err != nil {
		return mutationError(p.Filename, err, fmt.Sprintf("Error: %v", err)), nil
	}

	tpl, err := r.library.Save(p.Name, payload)
	if err != nil {
		return fmt.Sprintf("Error saving template: %v", err), nil
	}
	return fmt.Sprintf("Saved template '%s' (%d bytes, hash %s).", tpl.Name, tpl.Size, tpl.Hash[:12]), nil
}

func (r *Registry) loadSnapshotTemplate(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Name           string `json:"name"`
		OutputFilename string `json:"output_filename"`
	}{OutputFilename: "new_document.docx"}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if r.library == nil {
		return noLibrary, nil
	}

	payload, err := r.library.Load(p.Name)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			return fmt.Sprintf("Template '%s' not found.", p.Name), nil
		}
		return fmt.Sprintf("Error loading template: %v", err), nil
	}

	snap, err := snapshot.Decode(payload)
	if err != nil {
		return fmt.Sprintf("Error parsing JSON: %v", err), nil
	}
	doc, report := snapshot.Apply(snap)
	sess.Replace(doc, p.OutputFilename)
	return fmt.Sprintf("Created new document from template '%s'. Styles applied: %d. Ready to save to %s.",
		p.Name, report.StylesApplied(), p.OutputFilename), nil
}

func (r *Registry) listSnapshotTemplates(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	if r.library == nil {
		return noLibrary, nil
	}
	templates, err := r.library.List()
	if err != nil {
		return nil, err
	}

	type entry struct {
		Name      string `json:"name"`
		Size      int64  `json:"size"`
		Hash      string `json:"hash"`
		CreatedAt string `json:"created_at"`
	}
	listing := struct {
		Templates []entry `json:"templates"`
		Count     int     `json:"count"`
	}{Templates: []entry{}, Count: len(templates)}
	for _, t := range templates {
		listing.Templates = append(listing.Templates, entry{
			Name: t.Name, Size: t.Size, Hash: t.Hash,
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
		})
	}
	out, err := indentJSON(listing, false)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Registry) deleteSnapshotTemplate(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Name string `json:"name"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if r.library == nil {
		return noLibrary, nil
	}

	if err := r.library.Delete(p.Name); err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			return fmt.Sprintf("Template '%s' not found.", p.Name), nil
		}
		return fmt.Sprintf("Error deleting template: %v", err), nil
	}
	return fmt.Sprintf("Deleted template '%s'.", p.Name), nil
}
