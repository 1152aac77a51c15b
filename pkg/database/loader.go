package database

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// document is the on-disk layout of a knowledge base. JSON documents are
// accepted too since yaml.v3 parses JSON.
type document struct {
	Entries KnowledgeBase `json:"entries" yaml:"entries"`
}

func parseKnowledgeBase(data []byte) (KnowledgeBase, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return KnowledgeBase{}, nil
		}
		return nil, err
	}
	for i, e := range doc.Entries {
		if e.Kernel == "" {
			return nil, fmt.Errorf("entry %d: kernel is required", i)
		}
		if !e.Precision.IsValid() {
			return nil, fmt.Errorf("entry %d (%s): precision is required", i, e.Kernel)
		}
	}
	return doc.Entries, nil
}

// LoadKnowledgeBase reads a YAML or JSON knowledge base, typically a
// user overlay. Ordering problems reported by Lint are logged, not
// rejected: the search semantics stay those of the authored order.
func LoadKnowledgeBase(r io.Reader) (KnowledgeBase, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}
	kb, err := parseKnowledgeBase(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	for _, f := range Lint(kb) {
		slog.Warn("knowledge base ordering issue",
			"kernel", f.Kernel,
			"precision", f.Precision.String(),
			"vendor", f.Vendor,
			"type", f.Type,
			"device", f.Device,
			"issue", f.Message,
		)
	}
	return kb, nil
}

// LoadKnowledgeBaseFile is LoadKnowledgeBase for a file path.
func LoadKnowledgeBaseFile(path string) (KnowledgeBase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base %q: %w", path, err)
	}
	defer f.Close()

	kb, err := LoadKnowledgeBase(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("loaded knowledge base", "path", path, "entries", len(kb))
	return kb, nil
}
