package budget

import "testing"

func TestFormatPhone(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"11988887777", "(11) 98888-7777", true},
		{"1133224455", "(11) 3322-4455", true},
		{"(11) 98888-7777", "(11) 98888-7777", true},
		{"+55 11 3322-4455", "", false},
		{"11 9.8888-7777", "(11) 98888-7777", true},
		{"", "", false},
		{"   ", "", false},
		{"123", "", false},
		{"119888877771", "", false},
	}

	for _, tc := range cases {
		got, ok := formatPhone(tc.raw)
		if ok != tc.ok {
			t.Fatalf("formatPhone(%q): expected ok=%v, got %v", tc.raw, tc.ok, ok)
		}
		if got != tc.want {
			t.Fatalf("formatPhone(%q): expected %q, got %q", tc.raw, tc.want, got)
		}
	}
}
