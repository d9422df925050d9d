package birch

import (
	"testing"

	"github.com/Tony-Hui/KeyValueStore/lib/kv"
)

func TestSetGetDelete(t *testing.T) {
	mapping := NewMapping[string](nil)

	if _, loaded := mapping.Get("alice"); loaded {
		t.Errorf("Expected missing key to report loaded=false")
	}

	mapping.Set("alice", "23")
	value, loaded := mapping.Get("alice")
	if !loaded || value != "23" {
		t.Errorf("Expected (23, true), got (%s, %v)", value, loaded)
	}

	mapping.Set("alice", "24")
	value, _ = mapping.Get("alice")
	if value != "24" {
		t.Errorf("Expected overwrite to win, got %s", value)
	}

	mapping.Delete("alice")
	if _, loaded := mapping.Get("alice"); loaded {
		t.Errorf("Expected deleted key to report loaded=false")
	}

	// deleting again is a no-op
	mapping.Delete("alice")
}

func TestLenAndRange(t *testing.T) {
	mapping := NewMapping[int](&Options{InitialCapacity: 4})

	for i := 0; i < 10; i++ {
		mapping.Set(string(rune('a'+i)), i)
	}
	if n := mapping.Len(); n != 10 {
		t.Errorf("Expected Len 10, got %d", n)
	}

	seen := 0
	mapping.Range(func(key string, value int) bool {
		seen++
		return true
	})
	if seen != 10 {
		t.Errorf("Expected Range to visit 10 entries, got %d", seen)
	}

	// early termination
	seen = 0
	mapping.Range(func(key string, value int) bool {
		seen++
		return false
	})
	if seen != 1 {
		t.Errorf("Expected Range to stop after the first entry, got %d", seen)
	}
}

func TestFeaturesAndInfo(t *testing.T) {
	mapping := NewMapping[string](nil)

	all := kv.FeatureSet | kv.FeatureGet | kv.FeatureDelete | kv.FeatureLen | kv.FeatureRange
	if !mapping.SupportsFeature(all) {
		t.Errorf("Expected birch to support all mapping features")
	}

	mapping.Set("alice", "23")
	info := mapping.GetInfo()
	if info.MapType != kv.ImplBirch {
		t.Errorf("Expected map type %s, got %s", kv.ImplBirch, info.MapType)
	}
	if info.Records != 1 {
		t.Errorf("Expected 1 record, got %d", info.Records)
	}
}
