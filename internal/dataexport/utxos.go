package dataexport

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/setavenger/utxo-aggregator/internal/chainstate"
	"github.com/setavenger/utxo-aggregator/internal/scan"
)

// UTXO is the flat per-output row of a dump.
type UTXO struct {
	Txid       string `json:"txid"`
	Vout       uint32 `json:"vout"`
	Height     uint32 `json:"height"`
	Coinbase   bool   `json:"coinbase"`
	Amount     uint64 `json:"amount"`
	ScriptSize int    `json:"scriptsize"`
	ScriptType string `json:"scripttype"`
}

// NewUTXO decodes the key and script of a scanned record.
func NewUTXO(rec scan.Record) (UTXO, error) {
	op, err := chainstate.DecodeKey(rec.Key)
	if err != nil {
		return UTXO{}, err
	}
	script, err := chainstate.DecodeScript(chainstate.ScriptSegment(rec.Value, rec.Coin))
	if err != nil {
		return UTXO{}, err
	}
	return UTXO{
		Txid:       op.Txid.String(),
		Vout:       op.Vout,
		Height:     rec.Coin.Height,
		Coinbase:   rec.Coin.Coinbase,
		Amount:     rec.Coin.Amount,
		ScriptSize: rec.Coin.ScriptSize,
		ScriptType: script.Type,
	}, nil
}

// UTXOSink receives every dumped output. Close commits the output,
// Abort throws it away.
type UTXOSink interface {
	Write(u UTXO) error
	Close() error
	Abort()
}

// DumpUTXOs walks the pipeline into sink. On any error the sink is aborted.
func DumpUTXOs(p *scan.Pipeline, sink UTXOSink) (scan.Stats, error) {
	stats, err := p.Walk(func(rec scan.Record) error {
		u, err := NewUTXO(rec)
		if err != nil {
			return err
		}
		return sink.Write(u)
	})
	if err != nil {
		sink.Abort()
		return stats, err
	}
	return stats, sink.Close()
}

// JSONLinesSink writes one JSON object per line.
type JSONLinesSink struct {
	out *atomicFile
	enc *jsoniter.Encoder
}

func NewJSONLinesSink(path string) (*JSONLinesSink, error) {
	out, err := createAtomic(path)
	if err != nil {
		return nil, err
	}
	return &JSONLinesSink{out: out, enc: json.NewEncoder(out)}, nil
}

func (s *JSONLinesSink) Write(u UTXO) error {
	return s.enc.Encode(u)
}

func (s *JSONLinesSink) Close() error {
	return s.out.Commit()
}

func (s *JSONLinesSink) Abort() {
	s.out.Abort()
}
