package tiered

import "github.com/spf13/afero"

// ColdTier is HDD-class file-per-entity storage: same uncompressed layout
// as WARM, just a slower backing filesystem in production (a spinning-disk
// mount rather than SSD). Both patterns and associations use ".cold", per
// SPEC_FULL §6's external layout (`cold/patterns/<id>.cold`,
// `cold/associations/<src>_<dst>.cold`).
type ColdTier struct {
	*diskTier
}

// NewColdTier constructs a ColdTier rooted at root on fs.
func NewColdTier(fs afero.Fs, root string) (*ColdTier, error) {
	dt, err := newDiskTier(fs, TierCold, root, "cold", "cold", plainCodec{})
	if err != nil {
		return nil, err
	}
	return &ColdTier{diskTier: dt}, nil
}
