package audio

import "testing"

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}

func TestBalanceMatrixCenterIsUnity(t *testing.T) {
	m := BalanceMatrix(BalanceLinear, 0)
	if !approxEqual(m.LL, 1) || !approxEqual(m.RR, 1) {
		t.Errorf("center balance should pass both channels at unity, got %+v", m)
	}
}

func TestBalanceMatrixFullLeftSilencesRight(t *testing.T) {
	m := BalanceMatrix(BalanceLinear, -1)
	if !approxEqual(m.RR, 0) {
		t.Errorf("full-left balance should silence the right channel, got RR=%v", m.RR)
	}
}

func TestPanMatrixSinCosCenterIsEqualPower(t *testing.T) {
	m := PanMatrix(PanConstantPowerSinCos, 0)
	if !approxEqual(m.LL, m.RR) {
		t.Errorf("centered constant-power pan should be symmetric, got LL=%v RR=%v", m.LL, m.RR)
	}
}

func TestMix2x2ComposeWithIdentityGroupIsSourceMix(t *testing.T) {
	source := BalanceMatrix(BalanceLinear, 0.5)
	composed := source.Compose(IdentityMix())
	if composed != source {
		t.Errorf("composing with identity should be a no-op: got %+v, want %+v", composed, source)
	}
}

func TestMix2x2ScaleAppliesGainToAllEntries(t *testing.T) {
	m := Mix2x2{LL: 1, RL: 1, LR: 1, RR: 1}
	scaled := m.Scale(0.5)
	if scaled.LL != 0.5 || scaled.RR != 0.5 {
		t.Errorf("Scale did not apply uniformly: got %+v", scaled)
	}
}

func TestClampUnitBounds(t *testing.T) {
	if clampUnit(5) != 1 {
		t.Errorf("clampUnit(5) = %v, want 1", clampUnit(5))
	}
	if clampUnit(-5) != -1 {
		t.Errorf("clampUnit(-5) = %v, want -1", clampUnit(-5))
	}
}
