package canonical

import (
	"encoding/json"
	"regexp"
	"testing"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestCanonicalize_KeyOrderIrrelevant(t *testing.T) {
	a := json.RawMessage(`{"b":1,"a":"x"}`)
	b := json.RawMessage(`{"a":"x","b":1}`)

	ca, err := Canonicalize(a)
	if err != nil {
		t.Fatalf("canonicalize a: %v", err)
	}
	cb, err := Canonicalize(b)
	if err != nil {
		t.Fatalf("canonicalize b: %v", err)
	}
	if string(ca) != string(cb) {
		t.Fatalf("expected identical canonical forms, got %s vs %s", ca, cb)
	}
}

func TestCanonicalize_OmittedFieldEqualsAbsent(t *testing.T) {
	type withOptional struct {
		Name string `json:"name"`
		Note string `json:"note,omitempty"`
	}
	type withoutOptional struct {
		Name string `json:"name"`
	}

	ha, err := Hash(withOptional{Name: "n"})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	hb, err := Hash(withoutOptional{Name: "n"})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if ha != hb {
		t.Fatalf("expected unset omitempty field to hash like an absent field")
	}
}

func TestCanonicalize_ArrayOrderPreserved(t *testing.T) {
	ha, err := Hash([]string{"a", "b"})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	hb, err := Hash([]string{"b", "a"})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if ha == hb {
		t.Fatalf("expected array order to change the hash")
	}
}

func TestHash_LowercaseHexDigest(t *testing.T) {
	h, err := Hash(map[string]int{"x": 1})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !hexPattern.MatchString(h) {
		t.Fatalf("expected 64-char lowercase hex, got %q", h)
	}
}

func TestHash_Deterministic(t *testing.T) {
	v := map[string]any{"k": []int{1, 2, 3}, "n": "name"}
	h1, err := Hash(v)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := Hash(v)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected identical hashes, got %q vs %q", h1, h2)
	}
}
