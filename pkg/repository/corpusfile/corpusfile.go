package corpusfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/empathia-lab/therabot/pkg/domain/interfaces"
	"github.com/empathia-lab/therabot/pkg/domain/model"
)

// Store persists the knowledge corpus as a JSON file. The file format is an
// array of {"emotion": "<tone>", "text": "<snippet>"} objects.
type Store struct {
	path string
}

var _ interfaces.CorpusStore = &Store{}

func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the corpus file path
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Read(ctx context.Context) ([]model.KnowledgeEntry, error) {
	// #nosec G304 - path comes from CLI configuration
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(interfaces.ErrCorpusNotFound, "corpus file does not exist",
				goerr.V("path", s.path),
			)
		}
		return nil, goerr.Wrap(err, "failed to read corpus file", goerr.V("path", s.path))
	}

	var entries []model.KnowledgeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, goerr.Wrap(err, "failed to parse corpus file", goerr.V("path", s.path))
	}

	for _, entry := range entries {
		if !entry.Tone.IsValid() {
			return nil, goerr.New("corpus entry has invalid tone",
				goerr.V("path", s.path),
				goerr.V("tone", entry.Tone),
			)
		}
	}

	return entries, nil
}

func (s *Store) Write(ctx context.Context, entries []model.KnowledgeEntry) error {
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal corpus")
	}

	// Write to a temp file in the same directory, then rename, so a crashed
	// write can never leave a truncated corpus behind.
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".corpus-*.json")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp corpus file", goerr.V("dir", dir))
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to write corpus", goerr.V("path", tmpPath))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to close corpus file", goerr.V("path", tmpPath))
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to replace corpus file", goerr.V("path", s.path))
	}

	return nil
}
