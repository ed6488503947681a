package ublox6

import "testing"

const (
	rmcFix  = "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A\r\n"
	ggaFix  = "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47\r\n"
	rmcVoid = "$GPRMC,123519,V,,,,,,,230394,,*33\r\n"
)

func near(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-4
}

func TestFeed_RMC(t *testing.T) {
	p := NewParser()
	if n := p.Feed([]byte(rmcFix)); n != 1 {
		t.Fatalf("Feed parsed %d sentences, want 1", n)
	}
	fix := p.Fix()
	if !fix.Valid {
		t.Fatal("fix not valid after RMC with status A")
	}
	if !near(fix.Lat, 48.1173) || !near(fix.Lon, 11.516667) {
		t.Errorf("fix = %.5f,%.5f, want 48.11730,11.51667", fix.Lat, fix.Lon)
	}
	if fix.UTC != 123519 {
		t.Errorf("UTC = %d, want 123519", fix.UTC)
	}
}

func TestFeed_GGASatCount(t *testing.T) {
	p := NewParser()
	p.Feed([]byte(ggaFix))
	fix := p.Fix()
	if !fix.Valid || fix.Sats != 8 {
		t.Errorf("fix = %+v, want valid with 8 sats", fix)
	}
}

func TestFeed_SplitAcrossChunks(t *testing.T) {
	p := NewParser()
	half := len(rmcFix) / 2
	if n := p.Feed([]byte(rmcFix[:half])); n != 0 {
		t.Fatalf("partial sentence parsed early")
	}
	if n := p.Feed([]byte(rmcFix[half:])); n != 1 {
		t.Fatalf("sentence not parsed after completing chunk")
	}
	if !p.Fix().Valid {
		t.Fatal("fix not valid")
	}
}

func TestFeed_BadChecksumIgnored(t *testing.T) {
	p := NewParser()
	bad := "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*00\r\n"
	if n := p.Feed([]byte(bad)); n != 0 {
		t.Fatal("sentence with bad checksum was accepted")
	}
	if p.Fix().Valid {
		t.Fatal("bad sentence produced a fix")
	}
}

func TestFeed_VoidStatusClearsValidity(t *testing.T) {
	p := NewParser()
	p.Feed([]byte(rmcFix))
	if !p.Fix().Valid {
		t.Fatal("precondition: valid fix")
	}
	p.Feed([]byte(rmcVoid))
	if p.Fix().Valid {
		t.Fatal("void RMC should invalidate the fix")
	}
}

func TestFeed_GarbageTolerated(t *testing.T) {
	p := NewParser()
	p.Feed([]byte("\x00\xffnoise\r\n$GPTXT,01,01,02,u-blox ag*2A\r\n"))
	if p.Fix().Valid {
		t.Fatal("noise produced a fix")
	}
}
