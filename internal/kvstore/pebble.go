package kvstore

import (
	"errors"

	"github.com/cockroachdb/pebble"
)

type Pebble struct {
	db    *pebble.DB
	batch *pebble.Batch
}

// OpenPebble opens a pebble store. A writable store is created if missing.
func OpenPebble(path string, readOnly bool) (*Pebble, error) {
	opts := (&pebble.Options{}).EnsureDefaults()
	opts.ReadOnly = readOnly
	opts.ErrorIfNotExists = readOnly

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, err
	}
	return &Pebble{db: db}, nil
}

func (p *Pebble) Get(key []byte) ([]byte, error) {
	value, closer, err := p.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (p *Pebble) Iterate(start, limit []byte, fn func(key, value []byte) error) error {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: start,
		UpperBound: limit,
	})
	if err != nil {
		return err
	}

	for iter.First(); iter.Valid(); iter.Next() {
		if err = fn(iter.Key(), iter.Value()); err != nil {
			_ = iter.Close()
			return err
		}
	}
	if err = iter.Error(); err != nil {
		_ = iter.Close()
		return err
	}
	return iter.Close()
}

func (p *Pebble) Put(key, value []byte) error {
	if p.batch == nil {
		p.batch = p.db.NewBatch()
	}
	return p.batch.Set(key, value, nil)
}

func (p *Pebble) Flush() error {
	if p.batch == nil {
		return nil
	}
	err := p.batch.Commit(pebble.Sync)
	if closeErr := p.batch.Close(); err == nil {
		err = closeErr
	}
	p.batch = nil
	return err
}

func (p *Pebble) Close() error {
	if p.batch != nil {
		_ = p.batch.Close()
		p.batch = nil
	}
	return p.db.Close()
}
