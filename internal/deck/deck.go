// Package deck reads and writes presentation documents as YAML deck files.
package deck

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/prezicast/internal/canvas"
)

// Version is written into every deck file so future format changes can be
// detected on read.
const Version = "1.0"

// File is the on-disk shape of a deck.
type File struct {
	Version string          `yaml:"version"`
	Title   string          `yaml:"title,omitempty"`
	Frames  []*canvas.Frame `yaml:"frames"`
	Path    []string        `yaml:"path,omitempty"`
}

// Marshal serializes a document to deck-file YAML.
func Marshal(doc *canvas.Document) ([]byte, error) {
	file := File{
		Version: Version,
		Title:   doc.Title,
		Frames:  doc.Frames(),
		Path:    doc.Path(),
	}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return nil, fmt.Errorf("marshal deck: %w", err)
	}
	return data, nil
}

// Unmarshal parses deck-file YAML into a fresh document, validating the
// model invariants: unique positive-size frames and a path whose every id
// resolves.
func Unmarshal(data []byte) (*canvas.Document, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse deck: %w", err)
	}
	if file.Version != "" && file.Version != Version {
		return nil, fmt.Errorf("unsupported deck version %q", file.Version)
	}

	doc := canvas.NewDocument(file.Title)
	for _, f := range file.Frames {
		if err := doc.RestoreFrame(f); err != nil {
			return nil, fmt.Errorf("restore frame: %w", err)
		}
	}
	if len(file.Path) > 0 {
		if err := doc.SetPath(file.Path); err != nil {
			return nil, fmt.Errorf("restore path: %w", err)
		}
	}
	return doc, nil
}

// Write saves a document as a deck file.
func Write(doc *canvas.Document, path string) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write deck: %w", err)
	}
	return nil
}

// Read loads a deck file into a fresh document.
func Read(path string) (*canvas.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	return Unmarshal(data)
}
