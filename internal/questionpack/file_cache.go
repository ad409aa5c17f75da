package questionpack

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileCache keeps one file per pack under a root directory, so a pack fetched
// once can be re-imported without the registry being reachable.
type FileCache struct {
	rootDir string
}

func NewFileCache(cacheDirectory string) *FileCache {
	return &FileCache{
		rootDir: cacheDirectory,
	}
}

// filePath maps a pack name to its cache file. The name is reduced to its
// base so a crafted pack name cannot escape the cache directory.
func (c *FileCache) filePath(packName string) string {
	return filepath.Join(c.rootDir, filepath.Base(packName)+".json")
}

// cache returns the cached contents of a pack, calling fetch and storing the
// result on a miss. A failed store still returns the fetched contents.
func (c *FileCache) cache(packName string, fetch func() ([]byte, error)) ([]byte, error) {
	path := c.filePath(packName)
	contents, err := os.ReadFile(path)
	if err == nil {
		return contents, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read cached pack %s > %w", packName, err)
	}

	contents, err = fetch()
	if err != nil {
		return nil, fmt.Errorf("fetch pack %s > %w", packName, err)
	}

	if err := os.MkdirAll(c.rootDir, 0o755); err != nil {
		return contents, fmt.Errorf("create pack cache %s > %w", c.rootDir, err)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return contents, fmt.Errorf("store pack %s > %w", packName, err)
	}
	return contents, nil
}
