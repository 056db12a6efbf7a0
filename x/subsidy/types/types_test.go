package types

import (
	"testing"

	"cosmossdk.io/math"
)

// TestNewEmitterValidation tests the schedule parameter guards
func TestNewEmitterValidation(t *testing.T) {
	tests := []struct {
		name    string
		fund    math.Int
		amount  math.Int
		period  uint64
		rateBp  uint16
		wantErr error
	}{
		{"valid", math.NewInt(1000), math.NewInt(100), 10, 1000, nil},
		{"full decay rate", math.NewInt(1000), math.NewInt(100), 1, 10000, nil},
		{"rate above 100%", math.NewInt(1000), math.NewInt(100), 10, 10001, ErrInvalidDecreaseRate},
		{"zero period", math.NewInt(1000), math.NewInt(100), 0, 1000, ErrInvalidPeriodLength},
		{"negative fund", math.NewInt(-1), math.NewInt(100), 10, 1000, ErrInvalidFundBalance},
		{"negative amount", math.NewInt(1000), math.NewInt(-1), 10, 1000, ErrInvalidFundBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEmitter(tt.fund, tt.amount, tt.period, tt.rateBp)
			if err != tt.wantErr {
				t.Errorf("NewEmitter error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestEmitterDecay tests the periodic basis-point decrease of the
// distribution amount
func TestEmitterDecay(t *testing.T) {
	// 10% decrease every 2 distributions
	emitter, err := NewEmitter(math.NewInt(100000), math.NewInt(1000), 2, 1000)
	if err != nil {
		t.Fatalf("new emitter failed: %v", err)
	}

	if got := emitter.Advance(); !got.Equal(math.NewInt(1000)) {
		t.Errorf("first withdrawal = %s, want 1000", got.String())
	}
	if !emitter.CurrentDistributionAmount.Equal(math.NewInt(1000)) {
		t.Errorf("amount after 1 distribution = %s, want unchanged 1000",
			emitter.CurrentDistributionAmount.String())
	}

	if got := emitter.Advance(); !got.Equal(math.NewInt(1000)) {
		t.Errorf("second withdrawal = %s, want 1000", got.String())
	}
	if !emitter.CurrentDistributionAmount.Equal(math.NewInt(900)) {
		t.Errorf("amount after period = %s, want 900", emitter.CurrentDistributionAmount.String())
	}

	emitter.Advance()
	emitter.Advance()
	if !emitter.CurrentDistributionAmount.Equal(math.NewInt(810)) {
		t.Errorf("amount after two periods = %s, want 810", emitter.CurrentDistributionAmount.String())
	}
	if emitter.DistributionCounter != 4 {
		t.Errorf("distribution counter = %d, want 4", emitter.DistributionCounter)
	}
	if !emitter.FundBalance.Equal(math.NewInt(100000 - 1000 - 1000 - 900 - 900)) {
		t.Errorf("fund balance = %s, want 96200", emitter.FundBalance.String())
	}
}

// TestEmitterDecayFloors tests that the decrease floors toward zero
func TestEmitterDecayFloors(t *testing.T) {
	// 7% of 15 floors to 1
	emitter, err := NewEmitter(math.NewInt(1000), math.NewInt(15), 1, 700)
	if err != nil {
		t.Fatalf("new emitter failed: %v", err)
	}
	emitter.Advance()
	if !emitter.CurrentDistributionAmount.Equal(math.NewInt(14)) {
		t.Errorf("amount = %s, want 14", emitter.CurrentDistributionAmount.String())
	}
}

// TestEmitterFundExhaustion tests that withdrawals cap at the remaining fund
func TestEmitterFundExhaustion(t *testing.T) {
	emitter, err := NewEmitter(math.NewInt(250), math.NewInt(100), 10, 0)
	if err != nil {
		t.Fatalf("new emitter failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if got := emitter.Advance(); !got.Equal(math.NewInt(100)) {
			t.Fatalf("withdrawal %d = %s, want 100", i+1, got.String())
		}
	}
	// Only 50 left in the fund
	if got := emitter.Advance(); !got.Equal(math.NewInt(50)) {
		t.Errorf("capped withdrawal = %s, want 50", got.String())
	}
	if !emitter.FundBalance.IsZero() {
		t.Errorf("fund balance = %s, want 0", emitter.FundBalance.String())
	}
	// The fund is empty for good
	if got := emitter.Advance(); !got.IsZero() {
		t.Errorf("withdrawal from empty fund = %s, want 0", got.String())
	}
}
