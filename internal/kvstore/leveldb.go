package kvstore

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

type LevelDB struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

// OpenLevelDB opens a Bitcoin Core style LevelDB read-only.
// Compression is disabled so that nothing is ever rewritten in a different format.
func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		ReadOnly:       true,
		ErrorIfMissing: true,
		Compression:    opt.NoCompression,
	})
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

// NewMemory returns a writable LevelDB held entirely in memory.
func NewMemory() *LevelDB {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		// mem storage cannot fail to open
		panic(err)
	}
	return &LevelDB{db: db}
}

func (l *LevelDB) Get(key []byte) ([]byte, error) {
	value, err := l.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (l *LevelDB) Iterate(start, limit []byte, fn func(key, value []byte) error) error {
	iter := l.db.NewIterator(&util.Range{Start: start, Limit: limit}, nil)
	defer iter.Release()

	for iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (l *LevelDB) Put(key, value []byte) error {
	if l.batch == nil {
		l.batch = new(leveldb.Batch)
	}
	l.batch.Put(key, value)
	return nil
}

func (l *LevelDB) Flush() error {
	if l.batch == nil || l.batch.Len() == 0 {
		return nil
	}
	err := l.db.Write(l.batch, nil)
	l.batch = nil
	return err
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}
