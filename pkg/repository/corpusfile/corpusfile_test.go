package corpusfile_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/empathia-lab/therabot/pkg/domain/interfaces"
	"github.com/empathia-lab/therabot/pkg/domain/model"
	"github.com/empathia-lab/therabot/pkg/domain/types"
	"github.com/empathia-lab/therabot/pkg/repository/corpusfile"
)

func TestStore_ReadNotFound(t *testing.T) {
	store := corpusfile.New(filepath.Join(t.TempDir(), "knowledge_base.json"))

	_, err := store.Read(context.Background())
	gt.Error(t, err)
	gt.B(t, errors.Is(err, interfaces.ErrCorpusNotFound)).True()
}

func TestStore_WriteThenRead(t *testing.T) {
	store := corpusfile.New(filepath.Join(t.TempDir(), "knowledge_base.json"))
	ctx := context.Background()

	gt.NoError(t, store.Write(ctx, model.SeedCorpus())).Required()

	entries, err := store.Read(ctx)
	gt.NoError(t, err).Required()
	gt.A(t, entries).Length(len(model.SeedCorpus()))
	gt.V(t, entries[0].Tone).Equal(types.ToneHappy)
}

func TestStore_ReadLegacyFormat(t *testing.T) {
	// Corpus files written by earlier deployments use the "emotion" JSON key
	path := filepath.Join(t.TempDir(), "knowledge_base.json")
	raw := `[{"emotion": "sad", "text": "I'm here to listen."}]`
	gt.NoError(t, os.WriteFile(path, []byte(raw), 0o600)).Required()

	entries, err := corpusfile.New(path).Read(context.Background())
	gt.NoError(t, err).Required()
	gt.A(t, entries).Length(1)
	gt.V(t, entries[0].Tone).Equal(types.ToneSad)
	gt.V(t, entries[0].Text).Equal("I'm here to listen.")
}

func TestStore_ReadInvalidTone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge_base.json")
	raw := `[{"emotion": "melancholic", "text": "nope"}]`
	gt.NoError(t, os.WriteFile(path, []byte(raw), 0o600)).Required()

	_, err := corpusfile.New(path).Read(context.Background())
	gt.Error(t, err)
}

func TestStore_ReadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge_base.json")
	gt.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600)).Required()

	_, err := corpusfile.New(path).Read(context.Background())
	gt.Error(t, err)
}
