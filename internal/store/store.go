// Package store is the snapshot template library: named snapshot JSON
// payloads kept as xz-compressed, content-addressed blobs with a SQLite
// index.
//
// Blobs live at <root>/blobs/<first2>/<blake3>.json.xz; identical payloads
// deduplicate by hash. The index records one row per template name.
//
// By default the pure Go SQLite driver is used; build with -tags cgo_sqlite
// for the CGO driver.
package store

import (
	"bytes"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/docxforge/docxforge/core/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS templates (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	hash       TEXT NOT NULL,
	size       INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
`

// DriverType identifies the SQLite implementation in use: "purego" or "cgo".
func DriverType() string {
	return driverType
}

// Template is one index row.
type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Hash      string    `json:"hash"`
	Size      int64     `json:"size"` // uncompressed bytes
	CreatedAt time.Time `json:"created_at"`
}

// Store is a template library rooted at one directory.
type Store struct {
	root string
	db   *sql.DB
}

// Open opens (or creates) the library at root.
func Open(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, "blobs"), 0o755); err != nil {
		return nil, errors.NewIO("create", root, err)
	}
	db, err := sql.Open(driverName, filepath.Join(root, "index.db"))
	if err != nil {
		return nil, errors.NewIO("open", filepath.Join(root, "index.db"), err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create templates table")
	}
	return &Store{root: root, db: db}, nil
}

// Close releases the index database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores payload under name, replacing any previous version. The blob
// is xz-compressed and addressed by the blake3 hash of the uncompressed
// payload.
func (s *Store) Save(name string, payload []byte) (*Template, error) {
	if name == "" {
		return nil, errors.NewValidation("template name", "must not be empty")
	}
	sum := blake3.Sum256(payload)
	hash := hex.EncodeToString(sum[:])

	if err := s.writeBlob(hash, payload); err != nil {
		return nil, err
	}

	tmpl := &Template{
		ID:        uuid.NewString(),
		Name:      name,
		Hash:      hash,
		Size:      int64(len(payload)),
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO templates (id, name, hash, size, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET hash = excluded.hash, size = excluded.size, created_at = excluded.created_at`,
		tmpl.ID, tmpl.Name, tmpl.Hash, tmpl.Size, tmpl.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, errors.Wrap(err, "index template")
	}
	return tmpl, nil
}

// Load returns the payload stored under name.
func (s *Store) Load(name string) ([]byte, error) {
	var hash string
	err := s.db.QueryRow(`SELECT hash FROM templates WHERE name = ?`, name).Scan(&hash)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("template", name)
	}
	if err != nil {
		return nil, errors.Wrap(err, "query template")
	}
	return s.readBlob(hash)
}

// List returns every template ordered by name.
func (s *Store) List() ([]Template, error) {
	rows, err := s.db.Query(`SELECT id, name, hash, size, created_at FROM templates ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "list templates")
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		var t Template
		var created string
		if err := rows.Scan(&t.ID, &t.Name, &t.Hash, &t.Size, &created); err != nil {
			return nil, errors.Wrap(err, "scan template")
		}
		if ts, err := time.Parse(time.RFC3339, created); err == nil {
			t.CreatedAt = ts
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Delete removes the index entry for name. The blob stays: other names may
// share the same hash, and blobs are cheap.
func (s *Store) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM templates WHERE name = ?`, name)
	if err != nil {
		return errors.Wrap(err, "delete template")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFound("template", name)
	}
	return nil
}

// blobPath returns <root>/blobs/<first2>/<hash>.json.xz.
func (s *Store) blobPath(hash string) string {
	return filepath.Join(s.root, "blobs", hash[:2], hash+".json.xz")
}

// writeBlob compresses and writes payload atomically. An existing blob with
// the same hash is left alone.
func (s *Store) writeBlob(hash string, payload []byte) error {
	path := s.blobPath(hash)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewIO("create", filepath.Dir(path), err)
	}

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return errors.Wrap(err, "create xz writer")
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Wrap(err, "compress blob")
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "finish xz stream")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".blob-*")
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.NewIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.NewIO("write", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.NewIO("write", path, err)
	}
	return nil
}

// readBlob reads and decompresses the blob for hash, verifying the content
// address on the way out.
func (s *Store) readBlob(hash string) ([]byte, error) {
	f, err := os.Open(s.blobPath(hash))
	if err != nil {
		return nil, errors.NewIO("read", s.blobPath(hash), err)
	}
	defer f.Close()

	r, err := xz.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(err, "open xz stream")
	}
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "decompress blob")
	}

	sum := blake3.Sum256(payload)
	if got := hex.EncodeToString(sum[:]); got != hash {
		return nil, fmt.Errorf("blob %s failed verification: content hash %s", hash, got)
	}
	return payload, nil
}
