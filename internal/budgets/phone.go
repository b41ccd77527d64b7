package budget

// formatPhone strips everything that is not a digit and renders the stored
// Brazilian display format: (99) 9999-9999 for 10 digits, (99) 99999-9999
// for 11. Any other digit count is rejected.
func formatPhone(raw string) (string, bool) {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}

	d := string(digits)
	switch len(d) {
	case 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:], true
	case 11:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:], true
	default:
		return "", false
	}
}
