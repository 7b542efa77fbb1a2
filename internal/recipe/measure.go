package recipe

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Unit is a measurement unit preference for ingredient quantities.
type Unit string

const (
	UnitML Unit = "ml"
	UnitOz Unit = "oz"
)

// DefaultUnit matches the preference default.
const DefaultUnit = UnitML

const mlPerOz = 30.0

// ParseUnit normalizes a unit string. Blank selects DefaultUnit.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultUnit, nil
	case "ml":
		return UnitML, nil
	case "oz":
		return UnitOz, nil
	default:
		return "", fmt.Errorf("unknown measurement unit %q (want ml or oz)", s)
	}
}

// leadingMeasure matches a quantity at the start of an ingredient line:
// "1 1/2 oz", "1/2 oz", "1.5 oz", "45ml", "2 cl".
var leadingMeasure = regexp.MustCompile(`(?i)^\s*(\d+\s+\d+/\d+|\d+/\d+|\d+(?:[.,]\d+)?)\s*(oz|ml|cl)\b(.*)$`)

// ConvertIngredient rewrites the leading quantity of line into unit. Lines
// without a recognizable volume (ranges, counts, "Juice of 1 Lime") are
// returned unchanged.
func ConvertIngredient(line string, to Unit) string {
	m := leadingMeasure.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	qty, ok := parseQuantity(m[1])
	if !ok {
		return line
	}
	from := strings.ToLower(m[2])
	rest := m[3]

	var ml float64
	switch from {
	case "oz":
		ml = qty * mlPerOz
	case "cl":
		ml = qty * 10
	default:
		ml = qty
	}

	switch to {
	case UnitOz:
		if from == "oz" {
			return line
		}
		return formatOz(ml/mlPerOz) + " oz" + rest
	case UnitML:
		if from == "ml" {
			return line
		}
		return strconv.FormatFloat(math.Round(ml), 'f', -1, 64) + " ml" + rest
	default:
		return line
	}
}

// ConvertIngredients applies ConvertIngredient to every line.
func ConvertIngredients(lines []string, to Unit) []string {
	if lines == nil {
		return nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = ConvertIngredient(line, to)
	}
	return out
}

func parseQuantity(s string) (float64, bool) {
	fields := strings.Fields(s)
	total := 0.0
	for _, f := range fields {
		if num, den, found := strings.Cut(f, "/"); found {
			n, err1 := strconv.ParseFloat(num, 64)
			d, err2 := strconv.ParseFloat(den, 64)
			if err1 != nil || err2 != nil || d == 0 {
				return 0, false
			}
			total += n / d
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(f, ",", "."), 64)
		if err != nil {
			return 0, false
		}
		total += v
	}
	return total, total > 0
}

// formatOz rounds to the nearest quarter ounce and renders a mixed fraction.
func formatOz(v float64) string {
	q := math.Round(v*4) / 4
	if q < 0.25 {
		q = 0.25
	}
	whole := int(q)
	var frac string
	switch q - float64(whole) {
	case 0.25:
		frac = "1/4"
	case 0.5:
		frac = "1/2"
	case 0.75:
		frac = "3/4"
	}
	switch {
	case whole == 0:
		return frac
	case frac == "":
		return strconv.Itoa(whole)
	default:
		return strconv.Itoa(whole) + " " + frac
	}
}
