package pool

import "proxynest/pool/model"

// attrIndex maps each indexed attribute value to the set of list
// positions currently holding that value, for protocol, country and
// anonymity independently. Positions are only stable while the record
// list is append-only; any removal shifts them, so callers must rebuild
// after every structural change that is not a plain append.
type attrIndex struct {
	protocol  map[string]map[int]struct{}
	country   map[string]map[int]struct{}
	anonymity map[string]map[int]struct{}
}

func newAttrIndex() *attrIndex {
	ix := &attrIndex{}
	ix.clear()
	return ix
}

// clear empties all three maps.
func (ix *attrIndex) clear() {
	ix.protocol = make(map[string]map[int]struct{})
	ix.country = make(map[string]map[int]struct{})
	ix.anonymity = make(map[string]map[int]struct{})
}

// rebuild repopulates all maps from scratch in one pass.
func (ix *attrIndex) rebuild(records []*model.Record) {
	ix.clear()
	for i, r := range records {
		ix.add(i, r)
	}
}

// add inserts one position into the three buckets of the record's
// attribute values. Valid only right after an append, while positions
// are still stable.
func (ix *attrIndex) add(pos int, r *model.Record) {
	bucketAdd(ix.protocol, string(r.Protocol), pos)
	bucketAdd(ix.country, r.Country, pos)
	bucketAdd(ix.anonymity, r.Anonymity, pos)
}

// remove prunes one position from the three buckets. Removal shifts all
// subsequent positions, so the caller always follows up with rebuild;
// this is best-effort pruning, not a correctness-critical shortcut.
func (ix *attrIndex) remove(pos int, r *model.Record) {
	bucketRemove(ix.protocol, string(r.Protocol), pos)
	bucketRemove(ix.country, r.Country, pos)
	bucketRemove(ix.anonymity, r.Anonymity, pos)
}

func bucketAdd(m map[string]map[int]struct{}, key string, pos int) {
	bucket, ok := m[key]
	if !ok {
		bucket = make(map[int]struct{})
		m[key] = bucket
	}
	bucket[pos] = struct{}{}
}

func bucketRemove(m map[string]map[int]struct{}, key string, pos int) {
	if bucket, ok := m[key]; ok {
		delete(bucket, pos)
		if len(bucket) == 0 {
			delete(m, key)
		}
	}
}

// bucketUnion returns the union of the buckets for the given values.
func bucketUnion(m map[string]map[int]struct{}, values []string) map[int]struct{} {
	out := make(map[int]struct{})
	for _, v := range values {
		for pos := range m[v] {
			out[pos] = struct{}{}
		}
	}
	return out
}
