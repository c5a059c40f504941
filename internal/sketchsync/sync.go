package sketchsync

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

var sourceExtensions = map[string]bool{
	".ino": true,
	".h":   true,
	".hpp": true,
	".cpp": true,
}

// The wasm platform provides the Arduino surface; every transformed sketch
// translation unit pulls it in first.
const inoPrelude = "#include <Arduino.h>\n\n"

// Sync mirrors the sketch sources into the build tree. Only source files are
// carried over, hidden directories are skipped, .ino files become .cpp with
// the platform prelude prepended, unchanged files are left alone and orphans
// in the destination are removed. Reports whether anything changed.
func Sync(srcDir, dstDir string) (bool, error) {
	log.Infof("Syncing %s -> %s", srcDir, dstDir)

	expected := map[string]bool{}
	changed := false

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != srcDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if !sourceExtensions[ext] {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		transform := ext == ".ino"
		if transform {
			rel = strings.TrimSuffix(rel, ".ino") + ".cpp"
		}
		expected[rel] = true

		dst := filepath.Join(dstDir, rel)
		update, err := needsUpdate(path, dst)
		if err != nil {
			return err
		}
		if !update {
			return nil
		}

		if err := copyFile(path, dst, transform); err != nil {
			return err
		}
		log.Debugf("Changed file: %s", rel)
		changed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	removed, err := removeOrphans(dstDir, expected)
	if err != nil {
		return false, err
	}

	return changed || removed, nil
}

// needsUpdate compares source and destination on modification time. The
// destination is stamped with the source mtime on copy, so a matching stamp
// means nothing to do.
func needsUpdate(src, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}

	return !srcInfo.ModTime().Equal(dstInfo.ModTime()), nil
}

func copyFile(src, dst string, transform bool) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if transform {
		content = append([]byte(inoPrelude), content...)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())
}

func removeOrphans(dstDir string, expected map[string]bool) (bool, error) {
	removed := false

	err := filepath.WalkDir(dstDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dstDir {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dstDir, path)
		if err != nil {
			return err
		}
		if expected[rel] {
			return nil
		}

		log.Debugf("Removing orphan: %s", rel)
		removed = true
		return os.Remove(path)
	})
	if err != nil {
		return false, err
	}

	return removed, nil
}
