package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proxynest/pool/model"
)

func testRecords() []*model.Record {
	return []*model.Record{
		{URL: "http://10.0.0.1:8080", Protocol: model.ProtocolHTTP, Country: "US", Anonymity: "elite"},
		{URL: "https://10.0.0.2:8080", Protocol: model.ProtocolHTTPS, Country: "DE", Anonymity: "anonymous"},
		{URL: "http://10.0.0.3:8080", Protocol: model.ProtocolHTTP, Country: "US", Anonymity: "transparent"},
	}
}

// assertConsistent checks that every bucket position points at a record
// actually holding that attribute value, and that every record is
// findable through all three of its buckets.
func assertConsistent(t *testing.T, ix *attrIndex, records []*model.Record) {
	t.Helper()

	for value, bucket := range ix.protocol {
		for pos := range bucket {
			require.Less(t, pos, len(records))
			assert.Equal(t, value, string(records[pos].Protocol))
		}
	}
	for value, bucket := range ix.country {
		for pos := range bucket {
			require.Less(t, pos, len(records))
			assert.Equal(t, value, records[pos].Country)
		}
	}
	for value, bucket := range ix.anonymity {
		for pos := range bucket {
			require.Less(t, pos, len(records))
			assert.Equal(t, value, records[pos].Anonymity)
		}
	}

	for i, rec := range records {
		assert.Contains(t, ix.protocol[string(rec.Protocol)], i)
		assert.Contains(t, ix.country[rec.Country], i)
		assert.Contains(t, ix.anonymity[rec.Anonymity], i)
	}
}

func TestIndexRebuild(t *testing.T) {
	records := testRecords()
	ix := newAttrIndex()
	ix.rebuild(records)

	assertConsistent(t, ix, records)
	assert.Len(t, ix.protocol["http"], 2)
	assert.Len(t, ix.protocol["https"], 1)
	assert.Len(t, ix.country["US"], 2)
}

func TestIndexIncrementalAdd(t *testing.T) {
	records := testRecords()
	ix := newAttrIndex()
	ix.rebuild(records)

	extra := &model.Record{URL: "socks5://10.0.0.4:1080", Protocol: model.ProtocolSOCKS5, Country: "US", Anonymity: "elite"}
	records = append(records, extra)
	ix.add(len(records)-1, extra)

	assertConsistent(t, ix, records)
	assert.Len(t, ix.country["US"], 3)
}

func TestIndexRemoveThenRebuild(t *testing.T) {
	records := testRecords()
	ix := newAttrIndex()
	ix.rebuild(records)

	ix.remove(1, records[1])
	assert.NotContains(t, ix.protocol, "https")

	records = append(records[:1], records[2:]...)
	ix.rebuild(records)
	assertConsistent(t, ix, records)
}

func TestIndexClear(t *testing.T) {
	ix := newAttrIndex()
	ix.rebuild(testRecords())
	ix.clear()

	assert.Empty(t, ix.protocol)
	assert.Empty(t, ix.country)
	assert.Empty(t, ix.anonymity)
}

func TestBucketUnion(t *testing.T) {
	ix := newAttrIndex()
	ix.rebuild(testRecords())

	both := bucketUnion(ix.protocol, []string{"http", "https"})
	assert.Len(t, both, 3)

	none := bucketUnion(ix.protocol, []string{"socks4"})
	assert.Empty(t, none)
}
