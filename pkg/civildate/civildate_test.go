package civildate

import (
	"testing"
	"time"
)

func TestParseValid(t *testing.T) {
	cases := []struct {
		input string
		want  Date
	}{
		{"2024-01-15", Date{2024, 1, 15}},
		{"2024-02-29", Date{2024, 2, 29}}, // leap year
		{"2000-02-29", Date{2000, 2, 29}}, // divisible by 400
		{"1900-02-28", Date{1900, 2, 28}},
		{"2023-12-31", Date{2023, 12, 31}},
		{"0001-01-01", Date{1, 1, 1}},
		{"9999-12-31", Date{9999, 12, 31}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			got, err := Parse(tc.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{
		"",
		"2024-1-15",
		"2024-01-5",
		"20240115",
		"2024/01/15",
		" 2024-01-15",
		"2024-01-15 ",
		"2024-13-01",
		"2024-00-10",
		"2024-01-00",
		"2024-01-32",
		"2024-04-31",
		"2023-02-29", // not a leap year
		"1900-02-29", // divisible by 100 but not 400
		"0000-01-01",
		"abcd-ef-gh",
		"2024-01-1x",
	}
	for _, input := range cases {
		input := input
		t.Run(input, func(t *testing.T) {
			if _, err := Parse(input); err == nil {
				t.Fatalf("Parse(%q) accepted invalid date", input)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, raw := range []string{"2024-01-05", "0042-09-09", "2024-02-29"} {
		d := MustParse(raw)
		if d.String() != raw {
			t.Fatalf("round trip of %q produced %q", raw, d.String())
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustParse did not panic on invalid input")
		}
	}()
	MustParse("not-a-date")
}

func TestFromTime(t *testing.T) {
	ts := time.Date(2024, time.March, 7, 23, 59, 59, 0, time.UTC)
	got := FromTime(ts)
	want := Date{2024, 3, 7}
	if got != want {
		t.Fatalf("FromTime = %+v, want %+v", got, want)
	}
	if got.String() != "2024-03-07" {
		t.Fatalf("String = %q, want 2024-03-07", got.String())
	}
}
