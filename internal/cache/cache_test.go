package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestKey_StablePerOperationAndParams(t *testing.T) {
	a := Key("get_json", "https://example.com", "alice")
	b := Key("get_json", "https://example.com", "alice")
	if a != b {
		t.Errorf("expected stable keys, got %q and %q", a, b)
	}

	if Key("get_json", "https://example.com") == Key("get_xml", "https://example.com") {
		t.Error("expected operation to distinguish keys")
	}
	if Key("get_json", "https://example.com", "alice") == Key("get_json", "https://example.com", "bob") {
		t.Error("expected params to distinguish keys")
	}
	// Parameter boundaries matter: ("ab","c") must differ from ("a","bc").
	if Key("op", "ab", "c") == Key("op", "a", "bc") {
		t.Error("expected parameter boundaries to distinguish keys")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for absent key")
	}

	key := Key("get_json", "https://example.com")
	if err := c.Set(key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, found := c.Get(key)
	if !found || !bytes.Equal(val, []byte("payload")) {
		t.Errorf("expected payload, got %q (found=%v)", val, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expected miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	key := Key("get_json", "https://example.com")
	if err := c.Set(key, []byte("payload"), time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, found := c.Get(key); found {
		t.Error("expected expired entry to miss")
	}
}

func TestDiskCache(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	key := Key("get_json", "https://example.com")

	if err := c.Set(key, []byte("payload"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, found := c.Get(key)
	if !found || !bytes.Equal(val, []byte("payload")) {
		t.Errorf("expected payload, got %q (found=%v)", val, found)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	key := Key("get_json", "https://example.com")

	if err := c.Set(key, []byte("payload"), -time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expected expired entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)
	key := Key("get_json", "https://example.com")

	// Write through the disk layer only, simulating a previous run.
	disk := NewDiskCache(dir, time.Minute)
	if err := disk.Set(key, []byte("payload"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	val, found := c.Get(key)
	if !found || !bytes.Equal(val, []byte("payload")) {
		t.Fatalf("expected disk hit, got %q (found=%v)", val, found)
	}
	if _, found := c.memory.Get(key); !found {
		t.Error("expected disk hit to be promoted to memory")
	}
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected Nop to store nothing")
	}
}
