package audio

import (
	"testing"

	"pgregory.net/rapid"
)

// TestAccumulateFrameSaturates is the property-based check for the spec's
// §8 "Additive mixing saturates" invariant: for any input samples and any
// mix matrix built from an in-range gain/pan, the accumulated output never
// leaves the s16 range. Grounded on doismellburning-samoyed's
// fx25_send_test.go rapid.Check usage.
func TestAccumulateFrameSaturates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inL := rapid.Int32Range(-32768, 32767).Draw(t, "inL")
		inR := rapid.Int32Range(-32768, 32767).Draw(t, "inR")
		outL := rapid.Int16Range(-32768, 32767).Draw(t, "outL")
		outR := rapid.Int16Range(-32768, 32767).Draw(t, "outR")
		gain := rapid.Float64Range(0, 8).Draw(t, "gain")
		pan := rapid.Float64Range(-1, 1).Draw(t, "pan")
		law := rapid.SampledFrom([]PanLaw{PanConstantGain, PanConstantPowerSinCos, PanConstantPowerSqrt}).Draw(t, "law")

		mix := PanMatrix(law, pan).Scale(gain)
		out := []int16{outL, outR}
		accumulateFrame(out, 0, inL, inR, mix)

		for _, v := range out {
			if v < -32768 || v > 32767 {
				t.Fatalf("accumulated sample %d escaped s16 range", v)
			}
		}
	})
}

// TestPrecomputedMixBoundedByComposition is the property-based check for
// the spec's §8 invariant that the precomputed mix entries are bounded by
// the group-mix ⊗ source-mix product for any in-range gain/pan/balance.
func TestPrecomputedMixBoundedByComposition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sourceGain := rapid.Float64Range(0, 8).Draw(t, "sourceGain")
		groupGain := rapid.Float64Range(0, 8).Draw(t, "groupGain")
		sourcePan := rapid.Float64Range(-1, 1).Draw(t, "sourcePan")
		groupBalance := rapid.Float64Range(-1, 1).Draw(t, "groupBalance")

		sourceMix := PanMatrix(DefaultPanLaw, sourcePan)
		groupMix := BalanceMatrix(DefaultBalanceLaw, groupBalance)
		composed := sourceMix.Compose(groupMix)
		precomputed := composed.Scale(sourceGain * groupGain)

		wantScale := sourceGain * groupGain
		for _, pair := range [][2]float64{
			{precomputed.LL, composed.LL * wantScale},
			{precomputed.RL, composed.RL * wantScale},
			{precomputed.LR, composed.LR * wantScale},
			{precomputed.RR, composed.RR * wantScale},
		} {
			if !approxEqual(pair[0], pair[1]) {
				t.Fatalf("precomputed mix entry %v != composed*scale %v", pair[0], pair[1])
			}
		}
	})
}
