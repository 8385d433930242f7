package cache

import (
    "context"
    "crypto/sha256"
    "encoding/hex"
    "errors"
    "os"
    "path/filepath"
    "strings"
    "time"
)

// Store keeps advisory model responses on disk, keyed by a digest of the
// model name and the full prompt. Re-running a validation with the same
// inputs then costs no model calls.
type Store struct {
    Dir string
    // StrictPerms, when true, enforces 0700 on the cache directory and 0600
    // on files.
    StrictPerms bool
}

func (s *Store) ensureDir() error {
    if s == nil || s.Dir == "" {
        return errors.New("cache dir not configured")
    }
    perm := os.FileMode(0o755)
    if s.StrictPerms {
        perm = 0o700
    }
    if err := os.MkdirAll(s.Dir, perm); err != nil {
        return err
    }
    if s.StrictPerms {
        if info, err := os.Stat(s.Dir); err == nil {
            if info.Mode()&0o777 != 0o700 {
                _ = os.Chmod(s.Dir, 0o700)
            }
        }
    }
    return nil
}

// KeyFrom builds a cache key from the model name and the prompt text.
func KeyFrom(model string, prompt string) string {
    h := sha256.Sum256([]byte(model + "\n\n" + prompt))
    return hex.EncodeToString(h[:])
}

func (s *Store) pathFor(key string) string {
    return filepath.Join(s.Dir, key+".json")
}

// Get returns cached bytes if present. A miss is not an error.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
    if err := s.ensureDir(); err != nil {
        return nil, false, err
    }
    p := s.pathFor(key)
    b, err := os.ReadFile(p)
    if err != nil {
        return nil, false, nil
    }
    // Touch mtime on access so PurgeOlderThan keeps warm entries.
    now := time.Now()
    _ = os.Chtimes(p, now, now)
    return b, true, nil
}

// Save writes bytes to the cache.
func (s *Store) Save(_ context.Context, key string, data []byte) error {
    if err := s.ensureDir(); err != nil {
        return err
    }
    mode := os.FileMode(0o644)
    if s.StrictPerms {
        mode = 0o600
    }
    return os.WriteFile(s.pathFor(key), data, mode)
}

// PurgeOlderThan removes cache entries whose modification time is older than
// the given age and reports how many were removed. A zero or negative age is
// a no-op.
func (s *Store) PurgeOlderThan(_ context.Context, age time.Duration) (int, error) {
    if age <= 0 {
        return 0, nil
    }
    if err := s.ensureDir(); err != nil {
        return 0, err
    }
    cutoff := time.Now().Add(-age)
    entries, err := os.ReadDir(s.Dir)
    if err != nil {
        return 0, err
    }
    removed := 0
    for _, e := range entries {
        if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
            continue
        }
        info, err := e.Info()
        if err != nil {
            continue
        }
        if info.ModTime().Before(cutoff) {
            if err := os.Remove(filepath.Join(s.Dir, e.Name())); err == nil {
                removed++
            }
        }
    }
    return removed, nil
}
