// Package facet maintains an inverted index from identifier structure fields
// (namespace, group, subgroup) to Roaring Bitmaps of dense local ids.
//
// The registry assigns every identifier a dense uint32 local id; this package
// maps each structural field value to the bitmap of local ids carrying it.
// Filter compilation is then a handful of bitmap AND operations instead of a
// table scan, and hierarchy views fall out of bitmap intersections.
package facet

import (
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Field names the indexed structural fields of an identifier.
type Field string

const (
	FieldNamespace Field = "namespace"
	FieldGroup     Field = "group"
	FieldSubgroup  Field = "subgroup"
)

// Fields holds the indexed structural values for one identifier.
type Fields struct {
	Namespace string
	Group     string
	Subgroup  string
}

// Index is the inverted facet index. Safe for concurrent use.
type Index struct {
	mu sync.RWMutex

	// fields remembers what each local id was indexed under, so Set can
	// unindex the previous values on replace.
	fields map[uint32]Fields

	// inverted: field -> value -> bitmap of local ids.
	inverted map[Field]map[string]*roaring.Bitmap
}

// NewIndex creates an empty facet index.
func NewIndex() *Index {
	return &Index{
		fields:   make(map[uint32]Fields),
		inverted: make(map[Field]map[string]*roaring.Bitmap),
	}
}

// Set indexes id under f, replacing any previous indexing of id.
func (ix *Index) Set(id uint32, f Fields) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if old, ok := ix.fields[id]; ok {
		ix.removeLocked(id, old)
	}
	ix.fields[id] = f
	ix.addLocked(id, f)
}

// Delete removes id from the index. Unknown ids are ignored.
func (ix *Index) Delete(id uint32) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	old, ok := ix.fields[id]
	if !ok {
		return
	}
	ix.removeLocked(id, old)
	delete(ix.fields, id)
}

// Len returns the number of indexed identifiers.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.fields)
}

// Clear drops all index state.
func (ix *Index) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.fields = make(map[uint32]Fields)
	ix.inverted = make(map[Field]map[string]*roaring.Bitmap)
}

// Filter compiles namespace/group equality predicates into a bitmap of
// matching local ids. Empty predicate strings are unconstrained. Returns
// (nil, false) when no predicate is given, so callers can skip filtering
// entirely; otherwise the returned bitmap is a copy the caller may mutate.
func (ix *Index) Filter(namespace, group string) (*roaring.Bitmap, bool) {
	if namespace == "" && group == "" {
		return nil, false
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var result *roaring.Bitmap
	intersect := func(field Field, value string) {
		bm := ix.bitmapLocked(field, value)
		if bm == nil {
			result = roaring.New() // no matches possible
			return
		}
		if result == nil {
			result = bm.Clone()
			return
		}
		result.And(bm)
	}

	if namespace != "" {
		intersect(FieldNamespace, namespace)
	}
	if group != "" {
		intersect(FieldGroup, group)
	}
	if result == nil {
		result = roaring.New()
	}
	return result, true
}

// Members returns the local ids indexed under the exact
// (namespace, group, subgroup) triple. The returned bitmap is a copy.
func (ix *Index) Members(namespace, group, subgroup string) *roaring.Bitmap {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	result := roaring.New()
	ns := ix.bitmapLocked(FieldNamespace, namespace)
	g := ix.bitmapLocked(FieldGroup, group)
	sg := ix.bitmapLocked(FieldSubgroup, subgroup)
	if ns == nil || g == nil || sg == nil {
		return result
	}
	result.Or(ns)
	result.And(g)
	result.And(sg)
	return result
}

// Values returns all distinct values indexed under field, sorted.
func (ix *Index) Values(field Field) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	valueMap := ix.inverted[field]
	values := make([]string, 0, len(valueMap))
	for v := range valueMap {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Lookup returns the fields id was indexed under.
func (ix *Index) Lookup(id uint32) (Fields, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	f, ok := ix.fields[id]
	return f, ok
}

func (ix *Index) addLocked(id uint32, f Fields) {
	for field, value := range f.pairs() {
		valueMap, ok := ix.inverted[field]
		if !ok {
			valueMap = make(map[string]*roaring.Bitmap)
			ix.inverted[field] = valueMap
		}
		bm, ok := valueMap[value]
		if !ok {
			bm = roaring.New()
			valueMap[value] = bm
		}
		bm.Add(id)
	}
}

func (ix *Index) removeLocked(id uint32, f Fields) {
	for field, value := range f.pairs() {
		valueMap, ok := ix.inverted[field]
		if !ok {
			continue
		}
		bm, ok := valueMap[value]
		if !ok {
			continue
		}
		bm.Remove(id)
		if bm.IsEmpty() {
			delete(valueMap, value)
			if len(valueMap) == 0 {
				delete(ix.inverted, field)
			}
		}
	}
}

func (ix *Index) bitmapLocked(field Field, value string) *roaring.Bitmap {
	valueMap, ok := ix.inverted[field]
	if !ok {
		return nil
	}
	return valueMap[value]
}

func (f Fields) pairs() map[Field]string {
	return map[Field]string{
		FieldNamespace: f.Namespace,
		FieldGroup:     f.Group,
		FieldSubgroup:  f.Subgroup,
	}
}

// Stats summarizes index shape, mirroring the registry's Stats surface.
type Stats struct {
	IdentifierCount  int
	NamespaceCount   int
	GroupCount       int
	SubgroupCount    int
	TotalCardinality uint64
}

// GetStats returns current index statistics.
func (ix *Index) GetStats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	stats := Stats{
		IdentifierCount: len(ix.fields),
		NamespaceCount:  len(ix.inverted[FieldNamespace]),
		GroupCount:      len(ix.inverted[FieldGroup]),
		SubgroupCount:   len(ix.inverted[FieldSubgroup]),
	}
	for _, valueMap := range ix.inverted {
		for _, bm := range valueMap {
			stats.TotalCardinality += bm.GetCardinality()
		}
	}
	return stats
}
