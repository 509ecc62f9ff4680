package docx

import (
	"time"

	"github.com/docxforge/docxforge/core/errors"
)

// CoreProperties is the document's core metadata. String fields left empty
// are omitted from the container and from extraction output.
type CoreProperties struct {
	Author         string
	Title          string
	Subject        string
	Keywords       string
	Comments       string
	Category       string
	ContentStatus  string
	Identifier     string
	Language       string
	LastModifiedBy string
	Revision       string

	Created     *time.Time
	Modified    *time.Time
	LastPrinted *time.Time
}

// corePropertyNames is the set of core properties writable by name.
var corePropertyNames = []string{
	"author", "title", "subject", "keywords", "comments", "category",
	"content_status", "identifier", "language", "last_modified_by", "revision",
}

// CorePropertyNames returns the names accepted by Set.
func CorePropertyNames() []string {
	names := make([]string, len(corePropertyNames))
	copy(names, corePropertyNames)
	return names
}

// Set assigns a core property by its snake_case name.
func (cp *CoreProperties) Set(name, value string) error {
	switch name {
	case "author":
		cp.Author = value
	case "title":
		cp.Title = value
	case "subject":
		cp.Subject = value
	case "keywords":
		cp.Keywords = value
	case "comments":
		cp.Comments = value
	case "category":
		cp.Category = value
	case "content_status":
		cp.ContentStatus = value
	case "identifier":
		cp.Identifier = value
	case "language":
		cp.Language = value
	case "last_modified_by":
		cp.LastModifiedBy = value
	case "revision":
		cp.Revision = value
	default:
		return errors.NewValidation("property_name", "unknown core property: "+name)
	}
	return nil
}

// Get reads a core property by its snake_case name. Date properties are
// rendered in RFC 3339.
func (cp *CoreProperties) Get(name string) (string, bool) {
	switch name {
	case "author":
		return cp.Author, cp.Author != ""
	case "title":
		return cp.Title, cp.Title != ""
	case "subject":
		return cp.Subject, cp.Subject != ""
	case "keywords":
		return cp.Keywords, cp.Keywords != ""
	case "comments":
		return cp.Comments, cp.Comments != ""
	case "category":
		return cp.Category, cp.Category != ""
	case "content_status":
		return cp.ContentStatus, cp.ContentStatus != ""
	case "identifier":
		return cp.Identifier, cp.Identifier != ""
	case "language":
		return cp.Language, cp.Language != ""
	case "last_modified_by":
		return cp.LastModifiedBy, cp.LastModifiedBy != ""
	case "revision":
		return cp.Revision, cp.Revision != ""
	case "created":
		if cp.Created == nil {
			return "", false
		}
		return cp.Created.Format(time.RFC3339), true
	case "modified":
		if cp.Modified == nil {
			return "", false
		}
		return cp.Modified.Format(time.RFC3339), true
	case "last_printed":
		if cp.LastPrinted == nil {
			return "", false
		}
		return cp.LastPrinted.Format(time.RFC3339), true
	}
	return "", false
}
