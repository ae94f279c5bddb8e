package store

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/spaolacci/murmur3"
)

// ManifestName is the metadata file written next to the column files.
const ManifestName = "manifest.json"

// Manifest records what the importer wrote, so a loader can detect a
// torn or stale data directory before handing it to a query.
type Manifest struct {
	Relations map[string]RelationManifest `json:"relations"`
}

type RelationManifest struct {
	TupleCount uint64            `json:"tupleCount"`
	Checksums  map[string]uint64 `json:"checksums"` // attribute -> murmur3 of the column file
}

func NewManifest() *Manifest {
	return &Manifest{Relations: map[string]RelationManifest{}}
}

// ChecksumFile hashes a column file with murmur3.
func ChecksumFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "checksum %s", path)
	}
	defer f.Close()

	h := murmur3.New64()
	if _, err := io.Copy(h, f); err != nil {
		return 0, errors.Wrapf(err, "checksum %s", path)
	}
	return h.Sum64(), nil
}

// WriteManifest saves the manifest into dir.
func WriteManifest(dir string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode manifest")
	}
	return os.WriteFile(filepath.Join(dir, ManifestName), data, 0644)
}

// LoadManifest reads the manifest from dir.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}
	m := NewManifest()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, errors.Wrap(err, "decode manifest")
	}
	return m, nil
}

// Verify recomputes every checksum in the manifest against the files
// in dir.
func (m *Manifest) Verify(dir string) error {
	for rel, rm := range m.Relations {
		for att, want := range rm.Checksums {
			got, err := ChecksumFile(ColumnPath(dir, rel, att))
			if err != nil {
				return err
			}
			if got != want {
				return errors.Newf(
					"column %s.%s: checksum mismatch (manifest %x, file %x)",
					rel, att, want, got)
			}
		}
	}
	return nil
}
