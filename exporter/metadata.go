package exporter

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/airbusgeo/scene-exporter/exporter/entities"
)

// MissingValue is the text of a property that the scene does not have
const MissingValue = "null"

// MetadataText returns one line "<name>: <value>" per property, in the given order
func MetadataText(scene entities.Scene, properties []string) string {
	var sb strings.Builder
	for _, name := range properties {
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(FormatValue(scene.Properties[name]))
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatValue returns the text of a property value as rendered by the catalog:
// integral numbers without decimals, others in their shortest form
func FormatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return MissingValue
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case float32:
		return formatNumber(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return formatNumber(f)
		}
		return v.String()
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	// Exponent without leading zeros: 1e-7, 1e+21
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}
