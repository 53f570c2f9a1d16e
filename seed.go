package redact

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// seedHasher feeds values into an xxhash digest in a fixed, platform
// independent encoding. The derived seeds depend only on the values written,
// never on map iteration or pointer addresses.
type seedHasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func newSeedHasher(seed uint64) *seedHasher {
	h := &seedHasher{d: xxhash.New()}
	h.uint64(seed)
	return h
}

func (h *seedHasher) uint64(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	h.d.Write(h.buf[:])
}

func (h *seedHasher) string(s string) {
	h.uint64(uint64(len(s)))
	h.d.WriteString(s)
}

func (h *seedHasher) value(v any) {
	switch x := v.(type) {
	case string:
		h.d.Write([]byte{'s'})
		h.string(x)
	case int:
		h.d.Write([]byte{'i'})
		h.uint64(uint64(x))
	case int64:
		h.d.Write([]byte{'i'})
		h.uint64(uint64(x))
	case int32:
		h.d.Write([]byte{'i'})
		h.uint64(uint64(x))
	case uint64:
		h.d.Write([]byte{'u'})
		h.uint64(x)
	case uint32:
		h.d.Write([]byte{'u'})
		h.uint64(uint64(x))
	case uint8:
		h.d.Write([]byte{'u'})
		h.uint64(uint64(x))
	case bool:
		h.d.Write([]byte{'b'})
		if x {
			h.uint64(1)
		} else {
			h.uint64(0)
		}
	case Timing:
		h.d.Write([]byte{'t'})
		h.uint64(uint64(x.Start))
		h.uint64(uint64(x.End))
	case Kind:
		h.d.Write([]byte{'k'})
		h.string(string(x))
	case fmt.Stringer:
		h.d.Write([]byte{'S'})
		h.string(x.String())
	default:
		h.d.Write([]byte{'v'})
		h.string(fmt.Sprintf("%#v", x))
	}
}

func (h *seedHasher) sum() uint64 {
	return h.d.Sum64()
}

// ChildSeed derives the seed of a child segment from its parent's seed. Named
// children are seeded from their name, unnamed ones from their position among
// the siblings returned by the same renderer call.
func ChildSeed(parent uint64, index int, name string) uint64 {
	h := newSeedHasher(parent)
	if name != "" {
		h.d.Write([]byte{'n'})
		h.string(name)
	} else {
		h.d.Write([]byte{'#'})
		h.uint64(uint64(index))
	}
	return h.sum()
}

// MixSeed combines a seed with extra values.
func MixSeed(seed uint64, values ...any) uint64 {
	h := newSeedHasher(seed)
	for _, v := range values {
		h.value(v)
	}
	return h.sum()
}

// NewRand returns a deterministic random source for the seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, MixSeed(seed, "pcg")))
}
