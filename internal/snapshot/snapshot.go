// Package snapshot makes a stale copy of a chainstate directory so scans never
// open the database a running node is writing to.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/setavenger/utxo-aggregator/internal/logging"
)

// Copy copies every regular file in src into dst. An existing non-empty dst is
// reused as is unless refresh is set, in which case it is replaced.
// It reports whether a copy was made.
func Copy(src, dst string, refresh bool) (bool, error) {
	info, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, fmt.Errorf("snapshot source %s is not a directory", src)
	}

	empty, err := isEmptyDir(dst)
	if err != nil {
		return false, err
	}
	if !empty && !refresh {
		logging.L.Info().Str("path", dst).Msg("using existing chainstate snapshot")
		return false, nil
	}

	// copy into a sibling and swap so a half-written snapshot is never picked up
	tmp := dst + ".partial"
	if err = os.RemoveAll(tmp); err != nil {
		return false, err
	}
	if err = os.MkdirAll(tmp, 0750); err != nil {
		return false, err
	}

	logging.L.Info().Str("from", src).Str("to", dst).Msg("copying chainstate")
	var total uint64
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(tmp, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0750)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		n, err := copyFile(path, target)
		total += uint64(n)
		return err
	})
	if err != nil {
		_ = os.RemoveAll(tmp)
		return false, fmt.Errorf("copy chainstate: %w", err)
	}

	if err = os.RemoveAll(dst); err != nil {
		return false, err
	}
	if err = os.Rename(tmp, dst); err != nil {
		return false, err
	}
	logging.L.Info().Str("size", humanize.Bytes(total)).Msg("chainstate snapshot ready")
	return true, nil
}

func isEmptyDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0640)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return n, err
}
