// Package session holds the mutable current-document state the tool layer
// operates on. The session is an explicit, injectable object rather than
// process-global state, so multiple logical sessions can coexist without
// cross-talk. Within one session the single-writer contract applies: the
// caller serializes operations, the session does no locking.
package session

import (
	"os"

	"github.com/docxforge/docxforge/core/docx"
	"github.com/docxforge/docxforge/core/errors"
)

// Session owns at most one current document and the path it will save to.
// Creating or loading a document replaces the reference; the previous
// document simply becomes unreachable.
type Session struct {
	doc  *docx.Document
	path string
}

// New returns a session with no current document.
func New() *Session {
	return &Session{}
}

// Current returns the current document, or nil when none is loaded.
func (s *Session) Current() *docx.Document {
	return s.doc
}

// Path returns the current document's save path.
func (s *Session) Path() string {
	return s.path
}

// SetPath changes the save path without touching the document.
func (s *Session) SetPath(path string) {
	s.path = path
}

// HasDocument reports whether a current document exists.
func (s *Session) HasDocument() bool {
	return s.doc != nil
}

// Replace installs doc as the current document. Only document creation and
// template loading call this; filename-addressed operations work on
// transient documents and leave the current reference alone.
func (s *Session) Replace(doc *docx.Document, path string) {
	s.doc = doc
	s.path = path
}

// resolve returns the document an operation should act on. An empty
// filename means the current document; a non-empty filename loads a
// transient document from disk.
func (s *Session) resolve(filename string) (*docx.Document, bool, error) {
	if filename == "" {
		if s.doc == nil {
			return nil, false, errors.ErrNoDocument
		}
		return s.doc, false, nil
	}
	if _, err := os.Stat(filename); err != nil {
		return nil, false, errors.NewNotFound("file", filename)
	}
	doc, err := docx.Open(filename)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

// View runs fn read-only against the document filename addresses: the
// current document for an empty filename, a transient load otherwise.
// Nothing is persisted.
func (s *Session) View(filename string, fn func(*docx.Document) error) error {
	doc, _, err := s.resolve(filename)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Mutate runs fn against the document filename addresses. A transient
// document is persisted back to its file within the same call; the current
// document stays in memory until an explicit save.
func (s *Session) Mutate(filename string, fn func(*docx.Document) error) error {
	doc, transient, err := s.resolve(filename)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if transient {
		return doc.SaveAs(filename)
	}
	return nil
}

// Save persists the current document. A non-empty filename becomes the new
// save path.
func (s *Session) Save(filename string) (string, error) {
	if s.doc == nil {
		return "", errors.ErrNoDocument
	}
	if filename != "" {
		s.path = filename
	}
	if s.path == "" {
		return "", errors.NewValidation("filename", "no save path set")
	}
	if err := s.doc.SaveAs(s.path); err != nil {
		return "", err
	}
	return s.path, nil
}
