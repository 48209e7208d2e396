package symbol

import (
	"github.com/spaolacci/murmur3"
	"golang.org/x/text/unicode/norm"
)

// DefaultSeed is the seed used by the default hasher. Changing it changes
// every code, so results from different seeds are not comparable.
const DefaultSeed uint32 = 0xc58f1a7b

// Hasher maps a symbol text to its 32-bit code.
// Implementations must be deterministic and safe for concurrent use.
type Hasher interface {
	Sum32(text string) uint32
}

// Murmur is the default Hasher: MurmurHash3 x86_32 with a fixed seed.
type Murmur struct {
	Seed uint32
}

// NewMurmur returns a Murmur hasher using DefaultSeed.
func NewMurmur() Murmur {
	return Murmur{Seed: DefaultSeed}
}

// Sum32 hashes the UTF-8 bytes of text.
func (m Murmur) Sum32(text string) uint32 {
	return murmur3.Sum32WithSeed([]byte(text), m.Seed)
}

// HasherFunc adapts a plain function to the Hasher interface.
type HasherFunc func(text string) uint32

// Sum32 calls f(text).
func (f HasherFunc) Sum32(text string) uint32 {
	return f(text)
}

// Text builds the canonical symbol text for an attribute value.
// The result is NFC-normalised so visually identical inputs share a code.
func Text(attribute, value string) string {
	return norm.NFC.String(attribute + "=" + value)
}

// Prefix returns the attribute part of a symbol text, including the '='.
// Texts without '=' are returned unchanged.
func Prefix(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] == '=' {
			return text[:i+1]
		}
	}
	return text
}
