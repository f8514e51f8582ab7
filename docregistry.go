package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gamma-omg/pdf-ingest/docstore"
	"github.com/gamma-omg/pdf-ingest/readers"
)

type fileReader interface {
	CanRead(path string) bool
	ReadPages(path string) ([]readers.Page, error)
}

// DocRegistry walks root and turns every readable file into one Document per
// page. Hidden files and directories below root are skipped. The first file
// that fails to read fails the whole load.
type DocRegistry struct {
	log     *slog.Logger
	root    string
	readers []fileReader
}

func (dr *DocRegistry) Load() ([]docstore.Document, error) {
	info, err := os.Stat(dr.root)
	if err != nil {
		return nil, fmt.Errorf("failed to open document root: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("document root %s is not a directory", dr.root)
	}

	var docs []docstore.Document
	files := 0
	err = filepath.WalkDir(dr.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != dr.root && isHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			return nil
		}

		reader := dr.findReader(path)
		if reader == nil {
			dr.log.Warn(fmt.Sprintf("unsupported file: %s", path))
			return nil
		}

		pages, err := reader.ReadPages(path)
		if err != nil {
			return fmt.Errorf("failed to read document %s: %w", path, err)
		}

		for _, p := range pages {
			docs = append(docs, docstore.Document{
				Text: p.Text,
				Metadata: docstore.Metadata{
					Source:     path,
					Page:       p.Number,
					TotalPages: len(pages),
				},
			})
		}

		files++
		dr.log.Debug("document loaded", slog.String("file", path), slog.Int("pages", len(pages)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	dr.log.Info("documents loaded", slog.String("root", dr.root), slog.Int("files", files), slog.Int("pages", len(docs)))
	return docs, nil
}

func (dr *DocRegistry) findReader(path string) fileReader {
	for _, r := range dr.readers {
		if r.CanRead(path) {
			return r
		}
	}

	return nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
