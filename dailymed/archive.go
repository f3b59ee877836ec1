package dailymed

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
)

// PrescriptionDir is the directory of per-label zips inside the release.
const PrescriptionDir = "prescription"

// ExtractArchive unpacks zipPath into destDir and returns the number of
// files written. Entries that would land outside destDir are rejected.
func ExtractArchive(zipPath, destDir string) (int, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, fmt.Errorf("open zip %s: %w", zipPath, err)
	}
	defer zr.Close()

	root, err := filepath.Abs(destDir)
	if err != nil {
		return 0, err
	}

	var files int
	for _, zf := range zr.File {
		target, err := entryPath(root, zf.Name)
		if err != nil {
			return files, err
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return files, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return files, err
		}
		if err := writeEntry(zf, target); err != nil {
			return files, fmt.Errorf("extract %s: %w", zf.Name, err)
		}
		files++
	}
	return files, nil
}

// entryPath resolves an archive entry name under root.
func entryPath(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("zip entry %q escapes %s", name, root)
	}
	return target, nil
}

func writeEntry(zf *zip.File, target string) error {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// FindDir returns the first directory named name under root, searching in
// lexical order. It returns fs.ErrNotExist when there is none.
func FindDir(root, name string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == name && path != root {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("find %q under %s: %w", name, root, fs.ErrNotExist)
	}
	return found, nil
}

// CollectXML opens every zip under dir and copies each XML entry to outDir
// as <zip stem>_<xml name>. Unreadable zips are logged and skipped. It
// returns the number of XML files written.
func CollectXML(dir, outDir string) (int, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, err
	}

	var zips []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".zip") {
			zips = append(zips, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", dir, err)
	}

	var total, skipped int
	for i, path := range zips {
		n, err := collectOne(path, outDir)
		if err != nil {
			log.Printf("skip %s: %v", filepath.Base(path), err)
			skipped++
			continue
		}
		total += n
		if (i+1)%1000 == 0 {
			log.Printf("  progress: %d/%d zips, %d XML files", i+1, len(zips), total)
		}
	}
	log.Printf("Collected %d XML files from %d zips (%d skipped)", total, len(zips), skipped)
	return total, nil
}

func collectOne(zipPath, outDir string) (int, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, err
	}
	defer zr.Close()

	stem := strings.TrimSuffix(filepath.Base(zipPath), filepath.Ext(zipPath))
	var n int
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(zf.Name), ".xml") {
			continue
		}
		target := filepath.Join(outDir, stem+"_"+filepath.Base(filepath.FromSlash(zf.Name)))
		if err := writeEntry(zf, target); err != nil {
			return n, fmt.Errorf("%s: %w", zf.Name, err)
		}
		n++
	}
	return n, nil
}

// ListXML returns the XML files directly inside dir, sorted by name.
func ListXML(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
