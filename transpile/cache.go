package transpile

import (
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
)

// digest content-addresses a raw ELF by its Keccak-256 hash, the same hash
// primitive go-ethereum/crypto uses to address contract bytecode; reusing it
// here avoids pulling in a second hash dependency purely for cache keys.
type digest [32]byte

func keyOf(raw []byte) digest {
	return digest(crypto.Keccak256Hash(raw))
}

// Cache memoizes ELF transpilation by content hash, so a monitor loop or
// repeated test run that re-submits the same binary doesn't re-walk its ELF
// sections and re-convert its instruction stream every time.
type Cache struct {
	mu     sync.Mutex
	images map[digest]*Image
}

// NewCache returns an empty Cache ready for concurrent use.
func NewCache() *Cache {
	return &Cache{images: make(map[digest]*Image)}
}

// Transpile returns the cached Image for raw's content hash, transpiling
// and populating the cache on a miss.
func (c *Cache) Transpile(raw []byte) (*Image, error) {
	key := keyOf(raw)

	c.mu.Lock()
	if img, ok := c.images[key]; ok {
		c.mu.Unlock()
		return img, nil
	}
	c.mu.Unlock()

	img, err := ELF(raw)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[key] = img
	c.mu.Unlock()
	return img, nil
}
