package prfcdc

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestPoolGetPutReusesFingerprinter(t *testing.T) {
	pool := NewPool()
	var key Key
	key[0] = 0xAB

	fp1 := pool.Get(key, VariantAES)
	fp1.Update('a')
	pool.Put(key, VariantAES, fp1)

	fp2 := pool.Get(key, VariantAES)
	if fp2 != fp1 {
		t.Fatal("expected Get after Put to return the same instance")
	}

	// Reset on Get means no residue from the prior use.
	if pc, ok := fp2.(*AESFingerprinter); ok {
		if pc.core.filled != 0 || pc.core.state != 0 {
			t.Fatal("fingerprinter from pool was not reset")
		}
	} else {
		t.Fatal("expected *AESFingerprinter")
	}
}

func TestPoolKeyedByMasterAndVariant(t *testing.T) {
	pool := NewPool()
	var keyA, keyB Key
	keyB[0] = 1

	fpA := pool.Get(keyA, VariantPolyOnly)
	pool.Put(keyA, VariantPolyOnly, fpA)

	fpB := pool.Get(keyB, VariantPolyOnly)
	if fpA == fpB {
		t.Fatal("distinct master keys must not share a pooled fingerprinter")
	}

	if fpC := pool.Get(keyA, VariantAES); fpC == fpA {
		t.Fatal("distinct variants must not share a pooled fingerprinter")
	}
}

func TestNewPooledProducesSameChunksAsNew(t *testing.T) {
	r := rand.New(rand.NewSource(321))
	data := make([]byte, 4*1024*1024)
	r.Read(data)

	var key Key
	r.Read(key[:])

	var direct []Chunk
	cmDirect := New(key, bytes.NewReader(data), func(c Chunk) {
		cp := make([]byte, len(c.Data))
		copy(cp, c.Data)
		direct = append(direct, Chunk{Index: c.Index, Data: cp})
	})
	if err := cmDirect.Chunkify(); err != nil {
		t.Fatalf("Chunkify: %v", err)
	}

	pool := NewPool()
	var pooled []Chunk
	cmPooled := NewPooled(pool, key, bytes.NewReader(data), func(c Chunk) {
		cp := make([]byte, len(c.Data))
		copy(cp, c.Data)
		pooled = append(pooled, Chunk{Index: c.Index, Data: cp})
	})
	if err := cmPooled.Chunkify(); err != nil {
		t.Fatalf("Chunkify (pooled): %v", err)
	}

	if len(direct) != len(pooled) {
		t.Fatalf("direct produced %d chunks, pooled produced %d", len(direct), len(pooled))
	}
	for i := range direct {
		if direct[i].Index != pooled[i].Index || !bytes.Equal(direct[i].Data, pooled[i].Data) {
			t.Fatalf("chunk %d differs between direct and pooled runs", i)
		}
	}
}
