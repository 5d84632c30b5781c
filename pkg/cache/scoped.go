package cache

// ScopedKeyer prefixes every key of an inner Keyer. Runners scope keys
// per dataset so that unrelated dashboards never share entries:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "ds:local_mi_base_rank:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer uses the
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) TreeKey(rowsHash string, opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(rowsHash, opts)
}

func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
