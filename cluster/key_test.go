package cluster

import "testing"

func TestKeyCanonicalization(t *testing.T) {
	a := NewKey("auth", ep1, ep2, ep3)
	b := NewKey("auth", ep3, ep1, ep2, ep1) // shuffled, with a duplicate
	if a != b {
		t.Fatalf("keys built from the same endpoint set differ: %v vs %v", a, b)
	}
	if a == NewKey("other", ep1, ep2, ep3) {
		t.Fatalf("auth must participate in key identity")
	}
	if a == NewKey("auth", ep1, ep2) {
		t.Fatalf("endpoint sets must participate in key identity")
	}
}

func TestKeyEndpointListRoundTrip(t *testing.T) {
	k := NewKey("", ep2, ep1)
	got := k.EndpointList()
	if len(got) != 2 {
		t.Fatalf("EndpointList: %v", got)
	}
	// Canonical order is sorted by string form.
	if got[0] != ep1 || got[1] != ep2 {
		t.Fatalf("EndpointList = %v, want [%v %v]", got, ep1, ep2)
	}
}

func TestParseEndpoint(t *testing.T) {
	e, err := ParseEndpoint("db-1.internal:9042")
	if err != nil {
		t.Fatalf("ParseEndpoint: %v", err)
	}
	if e.Host != "db-1.internal" || e.Port != 9042 {
		t.Fatalf("ParseEndpoint = %+v", e)
	}
	if _, err := ParseEndpoint("no-port"); err == nil {
		t.Fatalf("expected error for endpoint without port")
	}
	v6, err := ParseEndpoint("[::1]:9042")
	if err != nil {
		t.Fatalf("ParseEndpoint v6: %v", err)
	}
	if v6.Host != "::1" || v6.Port != 9042 {
		t.Fatalf("ParseEndpoint v6 = %+v", v6)
	}
}
