package model

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

// Fingerprint computes a content hash over the snapshot's structure and
// attributes. The capture time is excluded, so two snapshots of an
// unchanged tree share a fingerprint and the console can skip re-rendering.
func Fingerprint(s *Snapshot) string {
	if s == nil {
		return ""
	}
	h := blake3.New()
	enc := json.NewEncoder(h)
	fmt.Fprintf(h, "root=%d|", s.Root)
	for i := range s.Nodes {
		// Encoding errors only come from unsupported attribute values; the
		// fallback keeps the hash defined for them.
		if err := enc.Encode(&s.Nodes[i]); err != nil {
			fmt.Fprintf(h, "%d|%s|%v|", s.Nodes[i].ID, s.Nodes[i].Type, s.Nodes[i].Attributes)
		}
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}

// snapshotPrefix is the filename prefix for snapshot files.
const snapshotPrefix = "layout-snapshot-"

// slugRe matches characters that are not lowercase alphanumeric or hyphens.
var slugRe = regexp.MustCompile(`[^a-z0-9-]+`)

// slugify converts a root name to a filename-safe slug.
func slugify(s string) string {
	s = strings.ToLower(s)
	s = slugRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	if len(s) > 40 {
		s = strings.TrimRight(s[:40], "-")
	}
	if s == "" {
		s = "root"
	}
	return s
}

// SnapshotPath returns the file a snapshot of root taken at ts is saved to.
func SnapshotPath(dir, root string, ts int64) string {
	return filepath.Join(dir, fmt.Sprintf("%s%s-%d.json.zst", snapshotPrefix, slugify(root), ts))
}

// SaveSnapshot writes a zstd-compressed JSON snapshot for later diffing and
// returns its path.
func SaveSnapshot(dir, root string, s *Snapshot) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return "", fmt.Errorf("zstd writer: %w", err)
	}
	defer enc.Close()

	path := SnapshotPath(dir, root, s.TakenAt)
	if err := os.WriteFile(path, enc.EncodeAll(data, nil), 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot. Plain JSON files
// are accepted as well.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress snapshot: %w", err)
		}
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return NewSnapshot(s.Root, s.Nodes).withMeta(&s), nil
}

func (s *Snapshot) withMeta(from *Snapshot) *Snapshot {
	s.TakenAt = from.TakenAt
	s.Fingerprint = from.Fingerprint
	s.ObservableRoots = from.ObservableRoots
	return s
}

// CleanSnapshots removes snapshot files for root in dir that are older
// than maxAge and returns how many were removed.
func CleanSnapshots(dir, root string, maxAge time.Duration) int {
	own := regexp.MustCompile(`^` + regexp.QuoteMeta(snapshotPrefix+slugify(root)) + `-\d+\.json\.zst$`)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !own.MatchString(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if os.Remove(filepath.Join(dir, entry.Name())) == nil {
				removed++
			}
		}
	}
	return removed
}
