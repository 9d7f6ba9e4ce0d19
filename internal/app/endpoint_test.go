package app

import (
	"errors"
	"io"
	"testing"
)

// errKV fails every operation; used to prove the stores degrade instead of
// surfacing persistence errors.
type errKV struct{}

func (errKV) Get(string) (string, bool) { return "", false }
func (errKV) Set(string, string) error  { return errors.New("store unavailable") }
func (errKV) Delete(string) error       { return errors.New("store unavailable") }

func testEndpoints(t *testing.T, kv KVStore) *EndpointStore {
	t.Helper()
	if kv == nil {
		kv = NewFileKV(t.TempDir())
	}
	return NewEndpointStore(kv, NewLogger(io.Discard), "http://primary:8000", "http://alternate:8000")
}

func TestEndpointCurrentDefaultsToPrimary(t *testing.T) {
	s := testEndpoints(t, nil)
	if got := s.Current(); got != "http://primary:8000" {
		t.Fatalf("Current() on empty store = %q, want primary", got)
	}
}

func TestEndpointRememberRoundTrip(t *testing.T) {
	s := testEndpoints(t, nil)
	s.Remember("http://alternate:8000")
	if got := s.Current(); got != "http://alternate:8000" {
		t.Fatalf("Current() = %q, want remembered alternate", got)
	}
}

func TestEndpointCurrentIgnoresUnknownStoredValue(t *testing.T) {
	kv := NewFileKV(t.TempDir())
	if err := kv.Set(endpointKey, "http://attacker:9999"); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	s := testEndpoints(t, kv)
	if got := s.Current(); got != "http://primary:8000" {
		t.Fatalf("Current() with foreign value = %q, want primary", got)
	}
}

func TestEndpointCurrentNeverFails(t *testing.T) {
	s := testEndpoints(t, errKV{})
	if got := s.Current(); got != "http://primary:8000" {
		t.Fatalf("Current() with broken store = %q, want primary", got)
	}
	// Remember on a broken store must not panic or surface the error.
	s.Remember("http://alternate:8000")
}

func TestEndpointOther(t *testing.T) {
	s := testEndpoints(t, nil)
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "primary flips", in: "http://primary:8000", want: "http://alternate:8000"},
		{name: "alternate flips", in: "http://alternate:8000", want: "http://primary:8000"},
		{name: "unknown maps to primary", in: "http://elsewhere:1", want: "http://primary:8000"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Other(tc.in); got != tc.want {
				t.Fatalf("Other(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestEndpointStoreNormalizesURLs(t *testing.T) {
	s := NewEndpointStore(NewFileKV(t.TempDir()), NewLogger(io.Discard), "http://primary:8000/", " http://alternate:8000 ")
	if s.Primary != "http://primary:8000" || s.Alternate != "http://alternate:8000" {
		t.Fatalf("pair not normalized: %q / %q", s.Primary, s.Alternate)
	}
}
