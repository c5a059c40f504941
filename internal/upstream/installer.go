package upstream

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Installer downloads the upstream library source archive and unpacks it
// into the library root.
type Installer struct {
	Root string

	// ArchiveBase overrides the download host. Tests point it at a local
	// server.
	ArchiveBase string
}

// Installed reports whether a library source tree is already present.
func (i *Installer) Installed() bool {
	_, err := os.Stat(filepath.Join(i.Root, "src", "FastLED.h"))
	return err == nil
}

// Fetch downloads the branch zipball and replaces the install root with its
// contents, stripping the archive's top-level directory.
func (i *Installer) Fetch(ctx context.Context, owner, repo, branch string) error {
	base := i.ArchiveBase
	if base == "" {
		base = "https://github.com"
	}
	url := fmt.Sprintf("%s/%s/%s/archive/refs/heads/%s.zip", base, owner, repo, branch)

	log.Infof("Downloading %s/%s:%s from %s", owner, repo, branch, url)
	archive, err := download(ctx, url)
	if err != nil {
		return err
	}
	defer os.Remove(archive)

	if err := os.RemoveAll(i.Root); err != nil {
		return err
	}
	if err := extract(archive, i.Root); err != nil {
		return err
	}

	log.Infof("Installed %s/%s into %s", owner, repo, i.Root)
	return nil
}

func download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("archive download returned %s", resp.Status)
	}

	tmp, err := os.CreateTemp("", "sketchhost-*.zip")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

func extract(archive, root string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		// GitHub zipballs wrap everything in a <repo>-<branch>/ dir.
		parts := strings.SplitN(f.Name, "/", 2)
		if len(parts) < 2 || parts[1] == "" {
			continue
		}

		dst := filepath.Join(root, filepath.FromSlash(parts[1]))
		if !strings.HasPrefix(dst, filepath.Clean(root)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes install root: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dst, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := extractFile(f, dst); err != nil {
			return err
		}
	}

	return nil
}

func extractFile(f *zip.File, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
