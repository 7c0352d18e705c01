package dataexport

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/setavenger/utxo-aggregator/internal/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// outputFileMode replaces the 0600 of os.CreateTemp on committed exports
const outputFileMode = 0644

// atomicFile buffers writes into a temp file next to the target. Nothing shows up
// at the target path until Commit, so an interrupted export leaves no output.
type atomicFile struct {
	*bufio.Writer
	f    *os.File
	path string
}

func createAtomic(path string) (*atomicFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, err
	}
	logging.L.Debug().Str("path", path).Str("tmp", f.Name()).Msg("writing output")
	return &atomicFile{Writer: bufio.NewWriterSize(f, 1<<20), f: f, path: path}, nil
}

func (a *atomicFile) Commit() error {
	if err := a.Flush(); err != nil {
		a.Abort()
		return err
	}
	if err := a.f.Chmod(outputFileMode); err != nil {
		a.Abort()
		return err
	}
	if err := a.f.Sync(); err != nil {
		a.Abort()
		return err
	}
	if err := a.f.Close(); err != nil {
		_ = os.Remove(a.f.Name())
		return err
	}
	if err := os.Rename(a.f.Name(), a.path); err != nil {
		_ = os.Remove(a.f.Name())
		return fmt.Errorf("rename output: %w", err)
	}
	logging.L.Info().Msgf("Wrote %s", a.path)
	return nil
}

// Abort discards the temp file. Safe to call after Commit.
func (a *atomicFile) Abort() {
	_ = a.f.Close()
	_ = os.Remove(a.f.Name())
}
