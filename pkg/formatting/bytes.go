// Package formatting converts byte sizes between counts and the human-readable
// strings used in configuration ("20MB") and log or error output ("1.5 MB").
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// units are base-1024 and indexed by power.
var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

var bytesPattern = regexp.MustCompile(`^(\d+(?:\.\d*)?)\s*([A-Za-z]*)$`)

// FormatBytes renders n in the largest unit that keeps the value at or above
// one, with precision decimals. Whole bytes are never given decimals.
func FormatBytes(n int64, precision int) string {
	if n < 0 {
		return "-" + FormatBytes(-n, precision)
	}
	if n < 1024 {
		return strconv.FormatInt(n, 10) + " B"
	}

	precision = max(precision, 0)

	f := float64(n)
	i := min(int(math.Log(f)/math.Log(1024)), len(units)-1)
	size := f / math.Pow(1024, float64(i))

	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[i]
}

// ParseBytes reads a size such as "50MB", "8 MiB", "512k", or a bare byte
// count. Units are case-insensitive and base-1024; the IEC "iB" spelling and
// single-letter forms are accepted as aliases.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	m := bytesPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}

	power, err := unitPower(m[2])
	if err != nil {
		return 0, err
	}

	n := value * math.Pow(1024, float64(power))
	if n >= math.MaxInt64 {
		return 0, fmt.Errorf("byte size %q overflows int64", s)
	}
	return int64(n), nil
}

func unitPower(unit string) (int, error) {
	u := strings.ToUpper(unit)
	switch {
	case u == "":
		return 0, nil
	case strings.HasSuffix(u, "IB"):
		u = strings.TrimSuffix(u, "IB") + "B"
	case len(u) == 1 && u != "B":
		u += "B"
	}

	idx := slices.Index(units, u)
	if idx == -1 {
		return 0, fmt.Errorf("unknown byte size unit: %q", unit)
	}
	return idx, nil
}
