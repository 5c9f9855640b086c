// Package corpus loads transcripts from disk into an ordered, read-only set
// of documents.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Document is one transcript. ID is unique within a Corpus.
type Document struct {
	ID      string
	Content string
}

// Corpus keeps documents in load order, which is also the order results are
// presented in.
type Corpus struct {
	docs  []Document
	index map[string]int
}

// New builds a corpus from docs. A later document with an ID already seen
// is dropped.
func New(docs ...Document) *Corpus {
	c := &Corpus{index: make(map[string]int, len(docs))}
	for _, d := range docs {
		if _, ok := c.index[d.ID]; ok {
			continue
		}
		c.index[d.ID] = len(c.docs)
		c.docs = append(c.docs, d)
	}
	return c
}

// FromMap builds a corpus from an ID → content map, ordered by ID.
func FromMap(texts map[string]string) *Corpus {
	ids := make([]string, 0, len(texts))
	for id := range texts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, Document{ID: id, Content: texts[id]})
	}
	return New(docs...)
}

func (c *Corpus) Len() int {
	return len(c.docs)
}

func (c *Corpus) Documents() []Document {
	out := make([]Document, len(c.docs))
	copy(out, c.docs)
	return out
}

func (c *Corpus) IDs() []string {
	ids := make([]string, len(c.docs))
	for i, d := range c.docs {
		ids[i] = d.ID
	}
	return ids
}

func (c *Corpus) Get(id string) (Document, bool) {
	i, ok := c.index[id]
	if !ok {
		return Document{}, false
	}
	return c.docs[i], true
}

// Position returns the load-order index of id, or -1.
func (c *Corpus) Position(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// LoadDir reads every regular file directly inside dir whose extension is
// in extensions (case insensitive). Symlinks count when their target is a
// regular file. Subdirectories and dotfiles are skipped.
// Documents are keyed by filename and sorted by it.
func LoadDir(dir string, extensions []string) (*Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}

	var docs []Document
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || !allowed[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		if !e.Type().IsRegular() {
			// DirEntry reports the link itself, so resolve the target
			info, err := os.Stat(filepath.Join(dir, e.Name()))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}

		content, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read document %s: %w", e.Name(), err)
		}
		docs = append(docs, Document{ID: e.Name(), Content: string(content)})
	}

	// os.ReadDir already sorts by filename
	return New(docs...), nil
}

// LoadFiles reads an explicit list of files, keyed by the path as given.
func LoadFiles(paths []string) (*Corpus, error) {
	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read document %s: %w", p, err)
		}
		docs = append(docs, Document{ID: p, Content: string(content)})
	}
	return New(docs...), nil
}
