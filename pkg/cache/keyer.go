package cache

// SolutionKeyOpts are the allocator settings that change a solution.
type SolutionKeyOpts struct {
	Allocator   string `json:"allocator"`
	MaxChildren int    `json:"max_children"`
	MaxPartial  int    `json:"max_partial"`
	Swap        int    `json:"swap"`
	Reversal    int    `json:"reversal"`
	Estimate    int    `json:"estimate"`
	Seed        uint64 `json:"seed"`
	TopK        int    `json:"top_k"`
}

// Keyer derives cache keys.
type Keyer interface {
	// SolutionKey identifies the solution of a stream on a device.
	SolutionKey(archHash, streamHash string, opts SolutionKeyOpts) string
}

// DefaultKeyer hashes every input into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) SolutionKey(archHash, streamHash string, opts SolutionKeyOpts) string {
	return hashKey("solution", archHash, streamHash, opts)
}

// ScopedKeyer prefixes the keys of another Keyer so several tenants can
// share one backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or DefaultKeyer if inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) SolutionKey(archHash, streamHash string, opts SolutionKeyOpts) string {
	return k.prefix + k.inner.SolutionKey(archHash, streamHash, opts)
}
