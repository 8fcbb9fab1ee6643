package store

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestFrequencyCadence(t *testing.T) {
	tests := []struct {
		name    string
		freq    Frequency
		want    int
		wantErr error
	}{
		{"numeric", Every(30), 30, nil},
		{"sentinel", BirthdayOnlyFrequency(), 0, ErrCadenceDisabled},
		{"zero", Frequency{}, 0, ErrInvalidCadence},
		{"negative", Every(-3), 0, ErrInvalidCadence},
		{"unknown label", Frequency{Label: "sometimes"}, 0, ErrInvalidCadence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.freq.Cadence()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Cadence: %v", err)
			}
			if got != tt.want {
				t.Errorf("Cadence = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFrequencyValidate(t *testing.T) {
	if err := BirthdayOnlyFrequency().Validate(); err != nil {
		t.Errorf("sentinel should validate, got %v", err)
	}
	if err := Every(14).Validate(); err != nil {
		t.Errorf("14 days should validate, got %v", err)
	}
	if err := (Frequency{Label: "weekly"}).Validate(); err == nil {
		t.Error("unknown label should not validate")
	}
}

func TestFrequencyJSON(t *testing.T) {
	var c struct {
		F Frequency `json:"f"`
	}

	if err := json.Unmarshal([]byte(`{"f": 14}`), &c); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if c.F != Every(14) {
		t.Errorf("F = %+v, want 14 days", c.F)
	}

	if err := json.Unmarshal([]byte(`{"f": "Birthday only"}`), &c); err != nil {
		t.Fatalf("unmarshal sentinel: %v", err)
	}
	if c.F.Label != BirthdayOnly {
		t.Errorf("F = %+v, want sentinel", c.F)
	}

	if err := json.Unmarshal([]byte(`{"f": "21"}`), &c); err != nil {
		t.Fatalf("unmarshal numeric string: %v", err)
	}
	if c.F != Every(21) {
		t.Errorf("F = %+v, want 21 days", c.F)
	}

	if err := json.Unmarshal([]byte(`{"f": 1.5}`), &c); err == nil {
		t.Error("expected error for fractional cadence")
	}

	out, _ := json.Marshal(BirthdayOnlyFrequency())
	if string(out) != `"Birthday only"` {
		t.Errorf("marshal sentinel = %s", out)
	}
	out, _ = json.Marshal(Every(7))
	if string(out) != `7` {
		t.Errorf("marshal 7 = %s", out)
	}
}

func TestFrequencyScan(t *testing.T) {
	tests := []struct {
		src  any
		want Frequency
	}{
		{int64(7), Every(7)},
		{"Birthday only", BirthdayOnlyFrequency()},
		{[]byte("30"), Every(30)},
		{nil, Frequency{}},
	}
	for _, tt := range tests {
		var f Frequency
		if err := f.Scan(tt.src); err != nil {
			t.Fatalf("Scan(%v): %v", tt.src, err)
		}
		if f != tt.want {
			t.Errorf("Scan(%v) = %+v, want %+v", tt.src, f, tt.want)
		}
	}
}
