package digest_test

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"reachwatch/internal/digest"
)

const abcHex = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

func TestParseKnownDigest(t *testing.T) {
	d, err := digest.Parse(abcHex)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d != digest.Digest(sha256.Sum256([]byte("abc"))) {
		t.Fatalf("unexpected digest bytes: %x", d[:])
	}
	if d.String() != abcHex {
		t.Fatalf("String() = %s", d.String())
	}
}

func TestRoundTripRandomDigests(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 256; i++ {
		var d digest.Digest
		for j := range d {
			d[j] = byte(rng.UintN(256))
		}
		parsed, err := digest.Parse(d.String())
		if err != nil {
			t.Fatalf("Parse(%s): %v", d, err)
		}
		if parsed != d {
			t.Fatalf("round trip mismatch: %s != %s", parsed, d)
		}
	}
}

func TestRoundTripRandomHex(t *testing.T) {
	const alphabet = "0123456789abcdef"
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 256; i++ {
		var b strings.Builder
		for j := 0; j < 64; j++ {
			b.WriteByte(alphabet[rng.IntN(len(alphabet))])
		}
		s := b.String()
		d, err := digest.Parse(s)
		if err != nil {
			t.Fatalf("Parse(%s): %v", s, err)
		}
		if d.String() != s {
			t.Fatalf("re-encode mismatch: %s != %s", d.String(), s)
		}
	}
}

func TestParseRejectsInvalidInput(t *testing.T) {
	cases := map[string]string{
		"uppercase":   strings.ToUpper(abcHex),
		"mixed case":  "BA7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		"short":       abcHex[:62],
		"long":        abcHex + "00",
		"empty":       "",
		"non hex":     strings.Replace(abcHex, "b", "g", 1),
		"prefixed":    "0x" + abcHex[2:],
		"odd trailer": abcHex[:63] + " ",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := digest.Parse(input); !errors.Is(err, digest.ErrInvalidHex) {
				t.Fatalf("expected ErrInvalidHex for %q, got %v", input, err)
			}
		})
	}
}

func TestCompareIsLexicographic(t *testing.T) {
	var low, high digest.Digest
	low[0], high[0] = 0x01, 0x02
	high[31] = 0x00
	low[31] = 0xff
	if low.Compare(high) >= 0 {
		t.Fatal("expected low < high by first byte")
	}
	if high.Compare(low) <= 0 {
		t.Fatal("expected high > low")
	}
	if low.Compare(low) != 0 {
		t.Fatal("expected equality")
	}
}

func TestJSONUsesStrictText(t *testing.T) {
	var payload struct {
		SHA digest.Digest `json:"sha256"`
	}
	if err := json.Unmarshal([]byte(`{"sha256":"`+abcHex+`"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.SHA.String() != abcHex {
		t.Fatalf("unexpected digest: %s", payload.SHA)
	}
	if err := json.Unmarshal([]byte(`{"sha256":"`+strings.ToUpper(abcHex)+`"}`), &payload); err == nil {
		t.Fatal("expected uppercase digest to be rejected")
	}
	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"sha256":"`+abcHex+`"}` {
		t.Fatalf("unexpected json: %s", out)
	}
}

func TestFromBytes(t *testing.T) {
	sum := sha256.Sum256([]byte("abc"))
	d, err := digest.FromBytes(sum[:])
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if d.String() != abcHex {
		t.Fatalf("unexpected digest: %s", d)
	}
	if _, err := digest.FromBytes(sum[:31]); err == nil {
		t.Fatal("expected short buffer to fail")
	}
}

func TestSetCollapsesDuplicates(t *testing.T) {
	a, _ := digest.Parse(abcHex)
	var zero digest.Digest
	set := digest.NewSet(a, zero, a)
	if set.Len() != 2 {
		t.Fatalf("expected 2 members, got %d", set.Len())
	}
	if !set.Contains(a) || !set.Contains(zero) {
		t.Fatal("expected both digests to be members")
	}
	var other digest.Digest
	other[0] = 1
	if set.Contains(other) {
		t.Fatal("unexpected member")
	}
	sorted := set.Sorted()
	if sorted[0] != zero || sorted[1] != a {
		t.Fatalf("unexpected order: %v", sorted)
	}
}

func TestZeroSetIsEmpty(t *testing.T) {
	var set digest.Set
	if set.Len() != 0 || set.Contains(digest.Digest{}) {
		t.Fatal("expected zero set to be empty")
	}
}
