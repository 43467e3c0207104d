package components

import "testing"

func TestDimensionDisplay(t *testing.T) {
	tests := []struct {
		d    Dimension
		want Dimension
	}{
		{Physical, Physical},
		{Between1, Physical},
		{Between2, Physical},
		{Between3, Spectral},
		{Spectral, Spectral},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			if got := tt.d.Display(); got != tt.want {
				t.Errorf("Display() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsBetween(t *testing.T) {
	for _, d := range []Dimension{Between1, Between2, Between3} {
		if !d.IsBetween() {
			t.Errorf("%v.IsBetween() = false", d)
		}
	}
	for _, d := range []Dimension{Physical, Spectral} {
		if d.IsBetween() {
			t.Errorf("%v.IsBetween() = true", d)
		}
	}
}

func TestLifetime(t *testing.T) {
	l := Lifetime{TTL: 100}
	l.Tick(60)
	if l.Expired() {
		t.Fatal("expired after 60 of 100 ms")
	}
	l.Tick(40)
	if !l.Expired() {
		t.Fatalf("not expired at TTL %d", l.TTL)
	}

	f := Lifetime{TTL: Forever}
	f.Tick(1 << 40)
	if f.TTL != Forever {
		t.Errorf("Forever TTL changed to %d", f.TTL)
	}
	f.Kill()
	if !f.Expired() {
		t.Error("Kill did not expire entity")
	}
}

func TestParseNames(t *testing.T) {
	for k := KindPlayer; k <= KindObstacle; k++ {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("dragon"); err == nil {
		t.Error("ParseKind(dragon) should fail")
	}
	if d, err := ParseDimension("spectral"); err != nil || d != Spectral {
		t.Errorf("ParseDimension(spectral) = %v, %v", d, err)
	}
	if _, err := ParseDimension("between1"); err == nil {
		t.Error("ParseDimension(between1) should fail")
	}
	if team, err := ParseTeam("enemy"); err != nil || team != TeamEnemy {
		t.Errorf("ParseTeam(enemy) = %v, %v", team, err)
	}
}

func TestRoleSuffix(t *testing.T) {
	if RoleSuffix(Between2) != "Physical" {
		t.Errorf("RoleSuffix(Between2) = %s", RoleSuffix(Between2))
	}
	if RoleSuffix(Between3) != "Spectral" {
		t.Errorf("RoleSuffix(Between3) = %s", RoleSuffix(Between3))
	}
}

func TestBodyRadius(t *testing.T) {
	if r := (Body{W: 16, H: 10}).Radius(); r != 8 {
		t.Errorf("Radius() = %v, want 8", r)
	}
}
