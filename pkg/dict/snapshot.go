package dict

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/skmtlab/hiroi/internal/utils"
)

// snapshotVersion guards against loading a snapshot written by an
// incompatible layout.
const snapshotVersion = 1

var ErrSnapshotVersion = errors.New("dict: unsupported snapshot version")

type snapshotEntry struct {
	Field string `msgpack:"f"`
	Scope string `msgpack:"s,omitempty"`
	Term  string `msgpack:"t"`
	Count int    `msgpack:"c"`
}

type snapshotFile struct {
	Version int             `msgpack:"v"`
	Entries []snapshotEntry `msgpack:"e"`
}

// WriteSnapshot serializes the whole corpus.
func (d *Dict) WriteSnapshot(w io.Writer) error {
	d.mu.RLock()
	snap := snapshotFile{Version: snapshotVersion}
	for key, trie := range d.tries {
		sep := strings.IndexByte(key, 0)
		field, scope := key[:sep], key[sep+1:]
		trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
			e := item.(*entry)
			snap.Entries = append(snap.Entries, snapshotEntry{
				Field: field,
				Scope: scope,
				Term:  e.term,
				Count: e.count,
			})
			return nil
		})
	}
	d.mu.RUnlock()

	if err := msgpack.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("dict: encoding snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot builds a corpus from a snapshot stream.
func ReadSnapshot(r io.Reader) (*Dict, error) {
	var snap snapshotFile
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("dict: decoding snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	}

	d := New()
	for _, e := range snap.Entries {
		d.AddCount(e.Field, e.Scope, e.Term, e.Count)
	}
	return d, nil
}

// Save writes the corpus snapshot to path, creating the directory when
// needed.
func (d *Dict) Save(path string) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("dict: preparing snapshot dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dict: creating snapshot: %w", err)
	}
	defer f.Close()

	if err := d.WriteSnapshot(f); err != nil {
		return err
	}
	log.Debugf("saved dictionary snapshot to %s", path)
	return nil
}

// Load reads a corpus snapshot from path.
func Load(path string) (*Dict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dict: opening snapshot: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}
