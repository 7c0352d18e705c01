package chainstate

import (
	"github.com/btcsuite/btcd/txscript"
)

// Special nSize values of Bitcoin Core's script compression.
const (
	scriptP2PKH          = 0x00
	scriptP2SH           = 0x01
	scriptP2PKEven       = 0x02
	scriptP2PKOdd        = 0x03
	scriptP2PKUncompEven = 0x04
	scriptP2PKUncompOdd  = 0x05
	numSpecialScripts    = 6
)

// CompressedScript is the script part of a coin record.
type CompressedScript struct {
	NSize uint64
	// Payload is the hash, x coordinate or raw script, depending on NSize.
	Payload []byte
	Type    string
}

// DecodeScript decodes the compressed script segment of a coin value.
func DecodeScript(segment []byte) (CompressedScript, error) {
	var cs CompressedScript

	nsize, n, err := DecodeVarint(segment)
	if err != nil {
		return cs, err
	}
	cs.NSize = nsize

	var want uint64
	switch nsize {
	case scriptP2PKH:
		want, cs.Type = 20, "p2pkh"
	case scriptP2SH:
		want, cs.Type = 20, "p2sh"
	case scriptP2PKEven, scriptP2PKOdd:
		want, cs.Type = 32, "p2pk"
	case scriptP2PKUncompEven, scriptP2PKUncompOdd:
		want, cs.Type = 32, "p2pk_uncompressed"
	default:
		want = nsize - numSpecialScripts
	}

	rest := segment[n:]
	if uint64(len(rest)) != want {
		return cs, formatErrorf("script", "nsize %d wants %d bytes, have %d", nsize, want, len(rest))
	}
	cs.Payload = rest

	if cs.Type == "" {
		cs.Type = txscript.GetScriptClass(rest).String()
	}
	return cs, nil
}
