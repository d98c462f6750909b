package guard

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const FingerprintFile = "fingerprint.json"

// DefaultPatterns selects the memory pins of a mask workspace.
var DefaultPatterns = []string{"memory/**/*.md"}

var (
	ErrNoFingerprint = errors.New("fingerprint missing, run guard init first")
	ErrNoPins        = errors.New("no files matched the pin patterns")
)

// MismatchError reports pinned files whose content drifted since init.
type MismatchError struct {
	Changed []string
	Missing []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("fingerprint mismatch: %d changed, %d missing", len(e.Changed), len(e.Missing))
}

// FileDigest is the recorded hash of one pinned file.
type FileDigest struct {
	SHA256 string `json:"sha256"`
}

// Fingerprint pins workspace files by content hash.
type Fingerprint struct {
	CreatedAt time.Time             `json:"created_at"`
	Patterns  []string              `json:"patterns"`
	Files     map[string]FileDigest `json:"files"`
}

// Pin hashes all files under root matching patterns and writes the
// fingerprint file at the workspace root.
func Pin(root string, patterns []string) (*Fingerprint, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	matches, err := glob(root, patterns)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoPins, patterns)
	}

	fp := &Fingerprint{
		CreatedAt: time.Now().UTC(),
		Patterns:  patterns,
		Files:     make(map[string]FileDigest, len(matches)),
	}
	for _, rel := range matches {
		sum, err := hashFile(filepath.Join(root, rel))
		if err != nil {
			return nil, fmt.Errorf("hash %s: %w", rel, err)
		}
		fp.Files[rel] = FileDigest{SHA256: sum}
	}

	if err := fp.save(root); err != nil {
		return nil, err
	}
	return fp, nil
}

// Load reads the fingerprint file from the workspace root.
func Load(root string) (*Fingerprint, error) {
	data, err := os.ReadFile(filepath.Join(root, FingerprintFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoFingerprint
	}
	if err != nil {
		return nil, err
	}

	var fp Fingerprint
	if err := json.Unmarshal(data, &fp); err != nil {
		return nil, fmt.Errorf("parse fingerprint: %w", err)
	}
	return &fp, nil
}

// Verify recomputes the hashes of all pinned files and compares them with
// the recorded fingerprint. It returns a *MismatchError when any pin
// changed or disappeared.
func Verify(root string) error {
	fp, err := Load(root)
	if err != nil {
		return err
	}

	mismatch := &MismatchError{}
	for rel, digest := range fp.Files {
		sum, err := hashFile(filepath.Join(root, rel))
		if errors.Is(err, os.ErrNotExist) {
			mismatch.Missing = append(mismatch.Missing, rel)
			continue
		}
		if err != nil {
			return fmt.Errorf("hash %s: %w", rel, err)
		}
		if sum != digest.SHA256 {
			mismatch.Changed = append(mismatch.Changed, rel)
		}
	}

	if len(mismatch.Changed) > 0 || len(mismatch.Missing) > 0 {
		sort.Strings(mismatch.Changed)
		sort.Strings(mismatch.Missing)
		return mismatch
	}
	return nil
}

func (fp *Fingerprint) save(root string) error {
	data, err := json.MarshalIndent(fp, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(root, FingerprintFile), data, 0o644)
}

func glob(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := map[string]struct{}{}
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pin pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			info, err := os.Stat(filepath.Join(root, m))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

func hashFile(path string) (string, error) {
	fd, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer fd.Close()

	h := sha256.New()
	if _, err := io.Copy(h, fd); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
