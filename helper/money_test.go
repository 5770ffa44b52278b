package helper

import "testing"

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"700000.00", 700000, false},
		{"200000", 200000, false},
		{" 15000.5 ", 15000, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseMoney(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseMinorUnits(t *testing.T) {
	got, err := ParseMinorUnits("20000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 200000 {
		t.Fatalf("expected 200000, got %d", got)
	}
	if _, err := ParseMinorUnits("x1"); err == nil {
		t.Fatalf("expected error for invalid amount")
	}
}

func TestFormatVND(t *testing.T) {
	cases := map[int64]string{
		0:       "0 ₫",
		999:     "999 ₫",
		200000:  "200.000 ₫",
		1234567: "1.234.567 ₫",
		-1500:   "-1.500 ₫",
	}
	for in, want := range cases {
		if got := FormatVND(in); got != want {
			t.Errorf("FormatVND(%d) = %q, want %q", in, got, want)
		}
	}
}
