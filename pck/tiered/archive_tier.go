package tiered

import "github.com/spf13/afero"

// ArchiveTier is long-term compressed storage: the same file-per-entity
// layout as WARM/COLD, but every entry is wrapped in a versioned zstd
// envelope (see codec.go), per the archive compression decision in
// SPEC_FULL §9. Grounded on archive_tier.cpp, which left compression as a
// documented TODO; this fills it in with klauspost/compress/zstd.
type ArchiveTier struct {
	*diskTier
}

// NewArchiveTier constructs an ArchiveTier rooted at root on fs.
func NewArchiveTier(fs afero.Fs, root string) (*ArchiveTier, error) {
	dt, err := newDiskTier(fs, TierArchive, root, "arc", "arc", archiveCodec{})
	if err != nil {
		return nil, err
	}
	return &ArchiveTier{diskTier: dt}, nil
}
