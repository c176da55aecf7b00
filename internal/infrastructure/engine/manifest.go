package engine

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// DirHash is the hash placeholder recorded for directory entries, which
// have no content to fingerprint.
const DirHash = "-"

// Manifest maps deployed paths to their content hashes. Directory paths
// carry a trailing slash and the DirHash placeholder.
type Manifest map[string]string

// ParseManifest reads a manifest from its wire form: one
// "hash<TAB>path" line per entry. Blank lines are skipped; anything
// else malformed is an error.
func ParseManifest(data []byte) (Manifest, error) {
	m := make(Manifest)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		hash, path, ok := strings.Cut(text, "\t")
		if !ok || hash == "" || path == "" {
			return nil, fmt.Errorf("malformed manifest line %d: %q", line, text)
		}
		m[path] = hash
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return m, nil
}

// Encode renders the manifest in its wire form with entries sorted by
// path, so repeated runs over an unchanged tree produce identical
// bytes.
func (m Manifest) Encode() []byte {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var buf bytes.Buffer
	for _, p := range paths {
		fmt.Fprintf(&buf, "%s\t%s\n", m[p], p)
	}
	return buf.Bytes()
}

// HashFile fingerprints a local file's content.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
