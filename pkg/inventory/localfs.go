package inventory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// LocalMountClient lists shares through their local mount paths. File
// shares are commonly mounted over SMB, so a directory walk of the mount
// sees the same tree the service does.
type LocalMountClient struct {
	mounts map[string]string // share name -> mount path
}

// NewLocalMountClient builds a client for the given share mounts.
func NewLocalMountClient(mounts map[string]string) *LocalMountClient {
	return &LocalMountClient{mounts: mounts}
}

// ListShares returns the mounted share names in stable order.
func (c *LocalMountClient) ListShares(context.Context) ([]string, error) {
	names := make([]string, 0, len(c.mounts))
	for name := range c.mounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ListDirectory reads one directory of a mounted share. dir is
// slash-separated and relative to the share root.
func (c *LocalMountClient) ListDirectory(ctx context.Context, share, dir string) ([]Entry, error) {
	root, ok := c.mounts[share]
	if !ok {
		return nil, fmt.Errorf("share %q has no mount path", share)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(dir)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entry := Entry{Name: de.Name(), IsDirectory: de.IsDir()}
		if !de.IsDir() {
			info, err := de.Info()
			if err != nil {
				// File vanished between listing and stat; skip it.
				continue
			}
			entry.SizeBytes = info.Size()
			entry.LastModified = info.ModTime().UTC()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
