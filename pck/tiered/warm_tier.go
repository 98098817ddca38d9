package tiered

import "github.com/spf13/afero"

// WarmTier is SSD-class file-per-entity storage: patterns/<id>.pat,
// associations/<src>_<dst>.assoc, uncompressed. Grounded on warm_tier.cpp.
type WarmTier struct {
	*diskTier
}

// NewWarmTier constructs a WarmTier rooted at root on fs. fs is typically
// afero.NewOsFs() in production and afero.NewMemMapFs() in tests.
func NewWarmTier(fs afero.Fs, root string) (*WarmTier, error) {
	dt, err := newDiskTier(fs, TierWarm, root, "pat", "assoc", plainCodec{})
	if err != nil {
		return nil, err
	}
	return &WarmTier{diskTier: dt}, nil
}
