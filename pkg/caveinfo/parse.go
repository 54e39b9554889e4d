package caveinfo

import (
	"strconv"
	"strings"
)

// ParseTruncatedFloat parses a CaveInfo numeric field the way the
// reference does: some community romhack floors carry malformed floats
// like "5.6.0000" (an extra trailing ".0000"). The reference recovers by
// truncating at the second '.', i.e. keeping only the first two
// dot-separated segments and discarding the rest. Preserving this quirk
// is required for those floors to parse at all (§9 Open Question a).
func ParseTruncatedFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, ".", 3)
	switch len(parts) {
	case 1:
		return strconv.ParseFloat(parts[0], 64)
	default:
		return strconv.ParseFloat(parts[0]+"."+parts[1], 64)
	}
}

// AmountCode decodes a teki/cap amount code per §6: for group 6 (plants)
// the whole code is the minimum amount with filler weight 0; for every
// other group the last digit is the filler weight and the remaining
// prefix is the minimum amount, defaulting to 0 when that prefix is
// empty.
func AmountCode(group SpawnGroup, code string) (minimum, fillerWeight int, err error) {
	if group == GroupPlant {
		if code == "" {
			return 0, 0, nil
		}
		m, err := strconv.Atoi(code)
		if err != nil {
			return 0, 0, err
		}
		return m, 0, nil
	}
	if code == "" {
		return 0, 0, nil
	}
	last := code[len(code)-1:]
	w, err := strconv.Atoi(last)
	if err != nil {
		return 0, 0, err
	}
	prefix := code[:len(code)-1]
	if prefix == "" {
		return 0, w, nil
	}
	m, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, 0, err
	}
	return m, w, nil
}

// SpawnMethodAndName splits a combined teki/cap identifier of the form
// "$<digit><name>" into its optional spawn method digit and bare name.
func SpawnMethodAndName(combined string) (spawnMethod, name string) {
	if len(combined) >= 2 && combined[0] == '$' {
		return combined[1:2], combined[2:]
	}
	return "", combined
}
