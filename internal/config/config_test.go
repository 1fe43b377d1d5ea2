package config

import (
	"encoding/binary"
	"testing"
)

func encodeRegion(tag Tag, payload []byte) []byte {
	out := make([]byte, 8+len(payload))
	copy(out[0:4], tag[:])
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(payload)))
	copy(out[8:], payload)
	return out
}

func TestParseSystemRegion(t *testing.T) {
	sys := make([]byte, 12)
	binary.LittleEndian.PutUint32(sys[0:4], 1000)
	binary.LittleEndian.PutUint32(sys[4:8], 5000)
	binary.LittleEndian.PutUint32(sys[8:12], 4)

	data := encodeRegion(TagSystem, sys)
	blob, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := blob.System()
	if err != nil {
		t.Fatalf("unexpected error decoding system region: %v", err)
	}
	if got.TimerPeriodUS != 1000 || got.SimulationTicks != 5000 || got.ApplicationWords != 4 {
		t.Fatalf("unexpected system region: %+v", got)
	}
}

func TestParseSkipsUnknownRegions(t *testing.T) {
	var data []byte
	data = append(data, encodeRegion(Tag{'Z', 'Z', 'Z', 'Z'}, []byte{1, 2, 3, 4})...)
	data = append(data, encodeRegion(TagKeyLookup, []byte{9, 9})...)

	blob, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := blob.Region(TagKeyLookup); !ok {
		t.Fatal("expected KeyLookup region to be present")
	}
}

func TestParseTruncatedHeader(t *testing.T) {
	_, err := Parse([]byte{'S', 'Y', 'S'})
	if err != ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestParseTruncatedPayload(t *testing.T) {
	data := encodeRegion(TagSystem, make([]byte, 12))
	data = data[:len(data)-4] // chop off the last 4 payload bytes
	_, err := Parse(data)
	if err != ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestSystemMissing(t *testing.T) {
	blob, _ := Parse(nil)
	if _, err := blob.System(); err != ErrTruncated {
		t.Fatalf("expected ErrTruncated for missing System region, got %v", err)
	}
}
