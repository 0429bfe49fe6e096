package mover

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"shorts-publisher/queue"
	"shorts-publisher/types"
)

// File relocates a queue item's media file and its sidecar (if any) into
// <root>/<channel>/<outcome>/<date>/, preserving base names. A missing
// source is a no-op so moves are safe to retry. This is the only place that
// mutates durable state.
func File(root string, item types.QueueItem, outcome types.Outcome) error {
	destDir := filepath.Join(root, item.Channel, string(outcome), item.Date)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", destDir, err)
	}

	if err := moveOne(item.Path, filepath.Join(destDir, item.Base())); err != nil {
		return err
	}

	sidecar := queue.SidecarPath(item.Path)
	if err := moveOne(sidecar, filepath.Join(destDir, filepath.Base(sidecar))); err != nil {
		return err
	}

	log.Printf("[mover] %s → %s/", item.Base(), filepath.Join(item.Channel, string(outcome), item.Date))
	return nil
}

// moveOne renames src to dst, falling back to copy-then-delete when rename
// fails (e.g. cross-device). A missing src is a no-op.
func moveOne(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	return copyAndRemove(src, dst)
}

func copyAndRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove %s after copy: %w", src, err)
	}
	return nil
}
