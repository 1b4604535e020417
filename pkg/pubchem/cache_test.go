package pubchem

import (
	"testing"
	"time"
)

func TestResponseCacheHitAndMiss(t *testing.T) {
	cache := newResponseCache()
	resp := &Response{StatusCode: 200, Body: []byte("ok")}

	if _, ok := cache.get("key", time.Hour); ok {
		t.Fatal("expected miss on empty cache")
	}

	cache.put("key", resp)
	got, ok := cache.get("key", time.Hour)
	if !ok {
		t.Fatal("expected hit after put")
	}
	if got != resp {
		t.Fatal("expected the stored response back")
	}
	if _, ok := cache.get("other", time.Hour); ok {
		t.Fatal("expected miss for unknown key")
	}
	if cache.size() != 1 {
		t.Fatalf("expected 1 entry, got %d", cache.size())
	}
}

func TestResponseCacheExpiry(t *testing.T) {
	now := time.Now()
	cache := newResponseCache()
	cache.now = func() time.Time { return now }

	cache.put("key", &Response{StatusCode: 200})

	now = now.Add(30 * time.Minute)
	if _, ok := cache.get("key", time.Hour); !ok {
		t.Fatal("expected hit before TTL")
	}

	now = now.Add(30 * time.Minute)
	if _, ok := cache.get("key", time.Hour); ok {
		t.Fatal("expected miss at TTL boundary")
	}

	// A fresh put resets the clock.
	cache.put("key", &Response{StatusCode: 200})
	if _, ok := cache.get("key", time.Hour); !ok {
		t.Fatal("expected hit after refresh")
	}
}

func TestPropertyAccessors(t *testing.T) {
	p := Property{
		"CID":              float64(2244),
		"Title":            "Aspirin",
		"MolecularWeight":  "180.16",
		"HBondDonorCount":  float64(1),
		"MonoisotopicMass": 180.042258736,
	}

	if p.CID() != 2244 {
		t.Fatalf("unexpected CID %d", p.CID())
	}
	if got := p.String("HBondDonorCount"); got != "1" {
		t.Fatalf("integral float rendered as %q", got)
	}
	if got := p.String("MonoisotopicMass"); got != "180.042258736" {
		t.Fatalf("fractional float rendered as %q", got)
	}
	if got := p.String("Missing"); got != "" {
		t.Fatalf("missing key rendered as %q", got)
	}
	if got := p.StringOr("Missing", "N/A"); got != "N/A" {
		t.Fatalf("fallback not applied, got %q", got)
	}
}
