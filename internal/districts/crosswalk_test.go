package districts

import (
	"errors"
	"testing"

	"whopaysthem/internal/finance"
)

const pipeCrosswalk = `GEOID_CD119_20|GEOID_ZCTA5_20|OTHER
0630|90210|x
0630|90211|x
0633|90211|x
5600|82001|x
4898|73301|x
`

func TestParseCrosswalkPipeDelimited(t *testing.T) {
	resolver, err := ParseCrosswalk(pipeCrosswalk)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	m, err := resolver.Lookup("90210")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if m.State != "CA" || m.StateName != "California" {
		t.Fatalf("unexpected state: %+v", m)
	}
	if len(m.Districts) != 1 || m.Districts[0] != "30" {
		t.Fatalf("unexpected districts: %+v", m.Districts)
	}
}

func TestParseCrosswalkMultiDistrictZip(t *testing.T) {
	resolver, err := ParseCrosswalk(pipeCrosswalk)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m, err := resolver.Lookup("90211")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(m.Districts) != 2 || m.Districts[0] != "30" || m.Districts[1] != "33" {
		t.Fatalf("unexpected districts: %+v", m.Districts)
	}
}

func TestParseCrosswalkAtLargeDistricts(t *testing.T) {
	resolver, err := ParseCrosswalk(pipeCrosswalk)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	wy, err := resolver.Lookup("82001")
	if err != nil {
		t.Fatalf("lookup WY: %v", err)
	}
	if wy.Districts[0] != finance.AtLargeDistrict {
		t.Fatalf("district 00 should be at-large: %+v", wy.Districts)
	}

	tx, err := resolver.Lookup("73301")
	if err != nil {
		t.Fatalf("lookup TX: %v", err)
	}
	if tx.Districts[0] != finance.AtLargeDistrict {
		t.Fatalf("district 98 should be at-large: %+v", tx.Districts)
	}
}

func TestParseCrosswalkCommaDelimited(t *testing.T) {
	raw := "zcta,geoid\n30301,1305\n"
	resolver, err := ParseCrosswalk(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m, err := resolver.Lookup("30301")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if m.State != "GA" || m.Districts[0] != "5" {
		t.Fatalf("unexpected mapping: %+v", m)
	}
}

func TestLookupUnknownZipReturnsNotFound(t *testing.T) {
	resolver, err := ParseCrosswalk(pipeCrosswalk)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = resolver.Lookup("00000")
	var nf *finance.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Key != "00000" {
		t.Fatalf("unexpected key: %q", nf.Key)
	}
}

func TestParseCrosswalkEmptyFile(t *testing.T) {
	if _, err := ParseCrosswalk(""); err == nil {
		t.Fatal("expected error for empty crosswalk")
	}
}
