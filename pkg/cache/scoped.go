package cache

// ScopedKeyer wraps a Keyer with a prefix, typically a user ID, so that
// entries for private sheets never collide in a shared backend.
//
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:"+sub+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key. A nil
// inner keyer selects the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) SheetKey(spreadsheetID string, opts SheetKeyOpts) string {
	return k.prefix + k.inner.SheetKey(spreadsheetID, opts)
}

func (k *ScopedKeyer) PhotoKey(url string) string {
	return k.prefix + k.inner.PhotoKey(url)
}

func (k *ScopedKeyer) ArtifactKey(itemsHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(itemsHash, opts)
}
