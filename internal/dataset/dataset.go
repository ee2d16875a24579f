// Package dataset downloads and unpacks the CSV dataset archive.
package dataset

import (
	"archive/zip"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/f1dash/internal/ingest"
)

// Archive describes a cached dataset archive.
type Archive struct {
	Path     string
	Filename string
	Cached   bool
}

// DownloadArchive fetches the archive at rawURL into cacheDir, reusing a
// previously downloaded copy of the same file name.
func DownloadArchive(ctx context.Context, rawURL, cacheDir string) (Archive, error) {
	if cacheDir == "" {
		return Archive{}, fmt.Errorf("cache directory is required")
	}
	filename, err := archiveName(rawURL)
	if err != nil {
		return Archive{}, err
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Archive{}, fmt.Errorf("failed to create cache dir: %w", err)
	}

	destPath := filepath.Join(cacheDir, filename)
	if _, err := os.Stat(destPath); err == nil {
		return Archive{Path: destPath, Filename: filename, Cached: true}, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Archive{}, fmt.Errorf("failed to stat cached archive: %w", err)
	}

	tmpFile, err := os.CreateTemp(cacheDir, "f1dash-*.zip")
	if err != nil {
		return Archive{}, fmt.Errorf("failed to create temp archive: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	resp, err := httpRequest(ctx, rawURL)
	if err != nil {
		return Archive{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return Archive{}, fmt.Errorf("unexpected archive status: %s", resp.Status)
	}

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return Archive{}, fmt.Errorf("failed to download archive: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return Archive{}, fmt.Errorf("failed to close temp archive: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return Archive{}, fmt.Errorf("failed to move archive into cache: %w", err)
	}
	return Archive{Path: destPath, Filename: filename}, nil
}

func archiveName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid archive url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported archive url scheme %q", u.Scheme)
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		return "", fmt.Errorf("archive url has no file name")
	}
	if !strings.HasSuffix(strings.ToLower(name), ".zip") {
		name += ".zip"
	}
	return name, nil
}

func httpRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// ExtractTables copies the dataset CSV files from the archive into outDir
// and returns their paths. Files may sit in any directory of the archive
// and may be gzip compressed. Every table ingest needs must be present.
func ExtractTables(archivePath, outDir string) ([]string, error) {
	if archivePath == "" {
		return nil, fmt.Errorf("archive path is required")
	}
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	selected := selectTableFiles(reader.File)
	missing := []string{}
	for _, name := range ingest.Files {
		if _, ok := selected[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("archive is missing %s", strings.Join(missing, ", "))
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	paths := make([]string, 0, len(ingest.Files))
	for _, name := range ingest.Files {
		dest := filepath.Join(outDir, name)
		if err := extractFile(selected[name], dest); err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", name, err)
		}
		paths = append(paths, dest)
	}
	return paths, nil
}

// selectTableFiles maps each wanted table to the shallowest archive entry
// with a matching base name.
func selectTableFiles(files []*zip.File) map[string]*zip.File {
	wanted := make(map[string]struct{}, len(ingest.Files))
	for _, name := range ingest.Files {
		wanted[name] = struct{}{}
	}
	selected := map[string]*zip.File{}
	for _, file := range files {
		if file.FileInfo().IsDir() {
			continue
		}
		base := strings.ToLower(path.Base(file.Name))
		base = strings.TrimSuffix(base, ".gz")
		if _, ok := wanted[base]; !ok {
			continue
		}
		if prev, ok := selected[base]; ok && depth(prev.Name) <= depth(file.Name) {
			continue
		}
		selected[base] = file
	}
	return selected
}

func depth(name string) int {
	return strings.Count(strings.Trim(name, "/"), "/")
}

func extractFile(file *zip.File, dest string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer func() {
		_ = rc.Close()
	}()

	var src io.Reader = rc
	if strings.HasSuffix(strings.ToLower(file.Name), ".gz") {
		gz, err := gzip.NewReader(rc)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer func() {
			_ = gz.Close()
		}()
		src = gz
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".extract-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := io.Copy(tmp, src); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, dest)
}

// WriteAttribution records where the extracted data came from.
func WriteAttribution(source, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	text := strings.Join([]string{
		"Formula 1 historical data in the Ergast CSV format.",
		"Source: " + source,
		"Retrieved: " + time.Now().UTC().Format("2006-01-02"),
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(outDir, "ATTRIBUTION.txt"), []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write attribution: %w", err)
	}
	return nil
}
