package timecode

import "fmt"

// Symbol is one half of a biphase bit cell, +1 or -1.
type Symbol int8

const (
	High Symbol = 1
	Low  Symbol = -1
)

// SymbolsPerFrame is the length of a biphase-encoded frame.
const SymbolsPerFrame = 2 * BitsPerFrame

// SymbolSequence is one biphase-encoded frame.
type SymbolSequence [SymbolsPerFrame]Symbol

// BiphaseEncode maps each bit to two symbols: 1 -> [+1,-1], 0 -> [-1,+1].
func BiphaseEncode(bits BitSequence) SymbolSequence {
	var out SymbolSequence
	for i, bit := range bits {
		if bit == 1 {
			out[2*i], out[2*i+1] = High, Low
		} else {
			out[2*i], out[2*i+1] = Low, High
		}
	}
	return out
}

// BiphaseDecode inverts BiphaseEncode.
func BiphaseDecode(symbols SymbolSequence) (BitSequence, error) {
	var out BitSequence
	for i := range out {
		a, b := symbols[2*i], symbols[2*i+1]
		switch {
		case a == High && b == Low:
			out[i] = 1
		case a == Low && b == High:
			out[i] = 0
		default:
			return BitSequence{}, fmt.Errorf("%w at bit %d: [%d,%d]", ErrInvalidSymbol, i, a, b)
		}
	}
	return out, nil
}
