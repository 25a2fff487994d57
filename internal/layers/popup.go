package layers

import (
	"fmt"
	"strconv"
	"strings"

	"stationmap/internal/geom"
)

// PopupContent formats a station's properties: the name as a title line,
// then the three trip counts.
func PopupContent(props map[string]any) string {
	var b strings.Builder
	b.WriteString(FormatValue(props[geom.PropStation]))
	for _, k := range []string{geom.PropTripsStarted, geom.PropTripsEnded, geom.PropTotalTrips} {
		fmt.Fprintf(&b, "\n%s: %s", k, FormatValue(props[k]))
	}
	return b.String()
}

// FormatValue renders a property value verbatim: numbers without trailing zeros.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}
