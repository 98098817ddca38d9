package tiered

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/jtomasevic/patterndb/pck/association"
	"github.com/jtomasevic/patterndb/pck/patterncore"
)

// diskTier is the shared file-per-entity implementation behind WARM, COLD,
// and ARCHIVE: one file per pattern under patterns/, one file per edge under
// associations/, an in-memory index rebuilt from the directory listing on
// construction, and a pluggable codec so ARCHIVE can layer compression over
// the same layout (SPEC_FULL §4.5, grounded on warm_tier.cpp/archive_tier.cpp).
type diskTier struct {
	fs       afero.Fs
	level    MemoryTier
	codec    entryCodec
	patExt   string
	assocExt string

	root            string
	patternsDir     string
	associationsDir string

	mu               sync.RWMutex
	patternIndex     map[patterncore.PatternID]struct{}
	associationIndex map[assocKey]struct{}
}

func newDiskTier(fs afero.Fs, level MemoryTier, root, patExt, assocExt string, codec entryCodec) (*diskTier, error) {
	t := &diskTier{
		fs:               fs,
		level:            level,
		codec:            codec,
		patExt:           patExt,
		assocExt:         assocExt,
		root:             root,
		patternsDir:      root + "/patterns",
		associationsDir:  root + "/associations",
		patternIndex:     make(map[patterncore.PatternID]struct{}),
		associationIndex: make(map[assocKey]struct{}),
	}

	if err := t.fs.MkdirAll(t.patternsDir, 0o755); err != nil {
		return nil, fmt.Errorf("tiered: create patterns dir: %w", patterncore.ErrIoError)
	}
	if err := t.fs.MkdirAll(t.associationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("tiered: create associations dir: %w", patterncore.ErrIoError)
	}
	t.rebuildIndex()
	return t, nil
}

// rebuildIndex reconstructs patternIndex/associationIndex from the files
// already on disk, so a restart doesn't forget what a prior run stored. Each
// filename stem is a PatternID.String() (or two, joined by "_"), which
// ParsePatternID round-trips exactly.
func (t *diskTier) rebuildIndex() {
	if entries, err := afero.ReadDir(t.fs, t.patternsDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			stem := strings.TrimSuffix(entry.Name(), "."+t.patExt)
			if stem == entry.Name() {
				continue
			}
			id, err := patterncore.ParsePatternID(stem)
			if err != nil {
				continue
			}
			t.patternIndex[id] = struct{}{}
		}
	}

	if entries, err := afero.ReadDir(t.fs, t.associationsDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			stem := strings.TrimSuffix(entry.Name(), "."+t.assocExt)
			if stem == entry.Name() {
				continue
			}
			parts := strings.SplitN(stem, "_", 2)
			if len(parts) != 2 {
				continue
			}
			source, err := patterncore.ParsePatternID(parts[0])
			if err != nil {
				continue
			}
			target, err := patterncore.ParsePatternID(parts[1])
			if err != nil {
				continue
			}
			t.associationIndex[assocKey{source, target}] = struct{}{}
		}
	}
}

func (t *diskTier) patternPath(id patterncore.PatternID) string {
	return t.patternsDir + "/" + id.String() + "." + t.patExt
}

func (t *diskTier) associationPath(source, target patterncore.PatternID) string {
	return t.associationsDir + "/" + source.String() + "_" + target.String() + "." + t.assocExt
}

func (t *diskTier) StorePattern(node *patterncore.PatternNode) bool {
	data, err := t.codec.encodePattern(node)
	if err != nil {
		return false
	}
	if err := afero.WriteFile(t.fs, t.patternPath(node.GetID()), data, 0o644); err != nil {
		return false
	}

	t.mu.Lock()
	t.patternIndex[node.GetID()] = struct{}{}
	t.mu.Unlock()
	return true
}

func (t *diskTier) LoadPattern(id patterncore.PatternID) (*patterncore.PatternNode, bool) {
	data, err := afero.ReadFile(t.fs, t.patternPath(id))
	if err != nil {
		return nil, false
	}
	node, err := t.codec.decodePattern(data)
	if err != nil {
		return nil, false
	}
	return node, true
}

func (t *diskTier) RemovePattern(id patterncore.PatternID) bool {
	t.mu.RLock()
	_, exists := t.patternIndex[id]
	t.mu.RUnlock()
	if !exists {
		return false
	}

	if err := t.fs.Remove(t.patternPath(id)); err != nil {
		return false
	}
	t.mu.Lock()
	delete(t.patternIndex, id)
	t.mu.Unlock()
	return true
}

func (t *diskTier) HasPattern(id patterncore.PatternID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.patternIndex[id]
	return ok
}

func (t *diskTier) StoreAssociation(edge *association.Edge) bool {
	data, err := t.codec.encodeEdge(edge)
	if err != nil {
		return false
	}
	path := t.associationPath(edge.GetSource(), edge.GetTarget())
	if err := afero.WriteFile(t.fs, path, data, 0o644); err != nil {
		return false
	}

	t.mu.Lock()
	t.associationIndex[assocKey{edge.GetSource(), edge.GetTarget()}] = struct{}{}
	t.mu.Unlock()
	return true
}

func (t *diskTier) LoadAssociation(source, target patterncore.PatternID) (*association.Edge, bool) {
	data, err := afero.ReadFile(t.fs, t.associationPath(source, target))
	if err != nil {
		return nil, false
	}
	edge, err := t.codec.decodeEdge(data)
	if err != nil {
		return nil, false
	}
	return edge, true
}

func (t *diskTier) RemoveAssociation(source, target patterncore.PatternID) bool {
	key := assocKey{source, target}
	t.mu.RLock()
	_, exists := t.associationIndex[key]
	t.mu.RUnlock()
	if !exists {
		return false
	}

	if err := t.fs.Remove(t.associationPath(source, target)); err != nil {
		return false
	}
	t.mu.Lock()
	delete(t.associationIndex, key)
	t.mu.Unlock()
	return true
}

func (t *diskTier) HasAssociation(source, target patterncore.PatternID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.associationIndex[assocKey{source, target}]
	return ok
}

func (t *diskTier) StorePatternsBatch(nodes []*patterncore.PatternNode) int {
	count := 0
	for _, node := range nodes {
		if t.StorePattern(node) {
			count++
		}
	}
	return count
}

func (t *diskTier) LoadPatternsBatch(ids []patterncore.PatternID) []*patterncore.PatternNode {
	result := make([]*patterncore.PatternNode, 0, len(ids))
	for _, id := range ids {
		if node, ok := t.LoadPattern(id); ok {
			result = append(result, node)
		}
	}
	return result
}

func (t *diskTier) RemovePatternsBatch(ids []patterncore.PatternID) int {
	count := 0
	for _, id := range ids {
		if t.RemovePattern(id) {
			count++
		}
	}
	return count
}

func (t *diskTier) StoreAssociationsBatch(edges []*association.Edge) int {
	count := 0
	for _, edge := range edges {
		if t.StoreAssociation(edge) {
			count++
		}
	}
	return count
}

func (t *diskTier) PatternCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.patternIndex)
}

func (t *diskTier) AssociationCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.associationIndex)
}

// PatternIDs returns every pattern id currently indexed, in no particular
// order.
func (t *diskTier) PatternIDs() []patterncore.PatternID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]patterncore.PatternID, 0, len(t.patternIndex))
	for id := range t.patternIndex {
		ids = append(ids, id)
	}
	return ids
}

func (t *diskTier) EstimateMemoryUsage() int64 {
	var total int64
	for _, dir := range []string{t.patternsDir, t.associationsDir} {
		entries, err := afero.ReadDir(t.fs, dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				total += entry.Size()
			}
		}
	}
	return total
}

func (t *diskTier) Level() MemoryTier { return t.level }
func (t *diskTier) Name() string      { return t.level.String() }

// Compact has no defragmentation to perform over afero's flat namespace;
// left as a hook for a future on-disk layout change.
func (t *diskTier) Compact() {}

func (t *diskTier) Clear() {
	for _, dir := range []string{t.patternsDir, t.associationsDir} {
		entries, err := afero.ReadDir(t.fs, dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				_ = t.fs.Remove(dir + "/" + entry.Name())
			}
		}
	}

	t.mu.Lock()
	t.patternIndex = make(map[patterncore.PatternID]struct{})
	t.associationIndex = make(map[assocKey]struct{})
	t.mu.Unlock()
}

// Flush is a no-op: afero writes synchronously, there is no buffer to drain.
func (t *diskTier) Flush() error { return nil }
