package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

const embeddedSuffix = ".embedded.json"

// Entry describes one data file shipped next to the compiled sketch. The
// serialised form of the full manifest is the files.json text handed to the
// module's declare-files export.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
	Hash string `json:"hash"`
}

type Manifest []Entry

// Build copies every regular file from the sketch data directory into
// outDir/data and returns the manifest entries. A <name>.embedded.json file
// is not copied; its pre-computed size and hash are trusted and the entry is
// emitted for <name> itself. A missing data directory yields an empty
// manifest.
func Build(dataDir, outDir string) (Manifest, error) {
	m := Manifest{}

	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		log.Debugf("No data directory at %s. Emitting empty manifest.", dataDir)
		return m, nil
	}

	outData := filepath.Join(outDir, "data")
	if err := resetDir(outData); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		src := filepath.Join(dataDir, name)

		if strings.HasSuffix(name, embeddedSuffix) {
			entry, err := embeddedEntry(src, strings.TrimSuffix(name, embeddedSuffix))
			if err != nil {
				return nil, err
			}
			log.Infof("Embedding data file %s", entry.Name)
			m = append(m, entry)
			continue
		}

		log.Infof("Copying %s -> %s", name, outData)
		hash, size, err := copyAndHash(src, filepath.Join(outData, name))
		if err != nil {
			return nil, err
		}
		m = append(m, Entry{
			Name: name,
			Path: "data/" + name,
			Size: size,
			Hash: hash,
		})
	}

	return m, nil
}

// JSON returns the manifest in the files.json wire form.
func (m Manifest) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Write serialises the manifest as files.json inside outDir.
func (m Manifest) Write(outDir string) (string, error) {
	payload, err := m.JSON()
	if err != nil {
		return "", err
	}

	path := filepath.Join(outDir, "files.json")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	return path, os.WriteFile(path, payload, 0o644)
}

func embeddedEntry(path, name string) (Entry, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, err
	}

	meta := struct {
		Hash string `json:"hash"`
		Size int64  `json:"size"`
	}{}
	if err := json.Unmarshal(payload, &meta); err != nil {
		return Entry{}, fmt.Errorf("malformed embedded descriptor %s: %w", path, err)
	}

	return Entry{
		Name: name,
		Path: "data/" + name,
		Size: meta.Size,
		Hash: meta.Hash,
	}, nil
}

func copyAndHash(src, dst string) (string, int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", 0, err
	}
	defer out.Close()

	h := sha256.New()
	size, err := io.Copy(io.MultiWriter(out, h), in)
	if err != nil {
		return "", 0, err
	}

	return hex.EncodeToString(h.Sum(nil)), size, nil
}

// resetDir makes sure dst exists and holds no stale files from an earlier
// build.
func resetDir(dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	return os.MkdirAll(dst, 0o755)
}
