package dataexport

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // driver
)

const utxoSchemaSQL = `
CREATE TABLE utxos (
  txid        TEXT    NOT NULL,
  vout        INTEGER NOT NULL,
  height      INTEGER NOT NULL,
  coinbase    INTEGER NOT NULL,
  amount      INTEGER NOT NULL,
  script_size INTEGER NOT NULL,
  script_type TEXT    NOT NULL,
  PRIMARY KEY (txid, vout)
) STRICT;
`

// rows per transaction
const sqliteBatchSize = 50_000

// SQLiteSink writes the dump into a fresh SQLite file. The database is built
// under a temp name and renamed into place on Close.
type SQLiteSink struct {
	db      *sql.DB
	tx      *sql.Tx
	stmt    *sql.Stmt
	pending int
	tmpPath string
	path    string
}

func NewSQLiteSink(path string) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}
	tmp := path + ".tmp"
	_ = os.Remove(tmp)

	dsn := "file:" + tmp +
		"?_pragma=journal_mode(OFF)" +
		"&_pragma=synchronous(OFF)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(context.Background(), utxoSchemaSQL); err != nil {
		db.Close()
		_ = os.Remove(tmp)
		return nil, err
	}

	s := &SQLiteSink{db: db, tmpPath: tmp, path: path}
	if err = s.begin(); err != nil {
		s.Abort()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSink) begin() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO utxos(txid, vout, height, coinbase, amount, script_size, script_type) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	s.tx, s.stmt, s.pending = tx, stmt, 0
	return nil
}

func (s *SQLiteSink) commit() error {
	if s.tx == nil {
		return nil
	}
	if err := s.stmt.Close(); err != nil {
		return err
	}
	err := s.tx.Commit()
	s.tx, s.stmt = nil, nil
	return err
}

func (s *SQLiteSink) Write(u UTXO) error {
	var coinbase int64
	if u.Coinbase {
		coinbase = 1
	}
	// amounts never exceed 21e14 so the int64 column is safe
	if _, err := s.stmt.Exec(u.Txid, int64(u.Vout), int64(u.Height), coinbase, int64(u.Amount), int64(u.ScriptSize), u.ScriptType); err != nil {
		return err
	}
	s.pending++
	if s.pending < sqliteBatchSize {
		return nil
	}
	if err := s.commit(); err != nil {
		return err
	}
	return s.begin()
}

func (s *SQLiteSink) Close() error {
	if err := s.commit(); err != nil {
		s.Abort()
		return err
	}
	if err := s.db.Close(); err != nil {
		_ = os.Remove(s.tmpPath)
		return err
	}
	return os.Rename(s.tmpPath, s.path)
}

func (s *SQLiteSink) Abort() {
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx, s.stmt = nil, nil
	}
	_ = s.db.Close()
	_ = os.Remove(s.tmpPath)
}
