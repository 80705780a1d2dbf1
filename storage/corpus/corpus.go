// Copyright 2025 The farbot Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package corpus implements storage.DocumentStore over a directory of
// FAR section files.
//
// The corpus layout is flat: one markdown file per section, named by the
// canonical reference ("52.219-9.md"). Files whose names don't parse as
// section references are ignored so READMEs and editor droppings in the
// corpus directory are harmless.
package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/openfar/farbot/core"
	"github.com/openfar/farbot/storage"
)

// Store reads FAR section documents from a directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New creates a document store over dir. The directory must exist.
func New(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return &Store{
		dir:    dir,
		logger: slog.Default().With("component", "corpus"),
	}, nil
}

// Read returns the document for the section reference.
// Returns storage.ErrNotFound if the corpus has no such file.
func (s *Store) Read(ctx context.Context, ref core.SectionRef) (*core.Document, error) {
	path := filepath.Join(s.dir, ref.FileName())
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: section %s", storage.ErrNotFound, ref)
		}
		return nil, err
	}

	text := strings.TrimSpace(string(data))
	doc := &core.Document{
		Section:    ref,
		Chapter:    ref.Part,
		Text:       text,
		SourceFile: ref.FileName(),
	}
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns the section references present in the corpus, sorted by
// part, section, subsection.
func (s *Store) List(ctx context.Context) ([]core.SectionRef, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var refs []core.SectionRef
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ref, err := core.ParseSectionRef(entry.Name())
		if err != nil {
			s.logger.Debug("skipping non-section file", "name", entry.Name())
			continue
		}
		refs = append(refs, ref)
	}

	slices.SortFunc(refs, compareRefs)
	return refs, nil
}

func compareRefs(a, b core.SectionRef) int {
	if a.Part != b.Part {
		return a.Part - b.Part
	}
	if c := strings.Compare(a.Section, b.Section); c != 0 {
		return c
	}
	return strings.Compare(a.Subsection, b.Subsection)
}
