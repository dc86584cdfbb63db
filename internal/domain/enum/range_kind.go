package enum

// RangeKind selects the reporting window used by the dashboard and reports
type RangeKind string

const (
	RangeDay    RangeKind = "day"
	RangeWeek   RangeKind = "week"
	RangeMonth  RangeKind = "month"
	RangeYear   RangeKind = "year"
	RangeCustom RangeKind = "custom"
)

func (k RangeKind) String() string {
	return string(k)
}

// ParseRangeKind maps a query value onto a RangeKind, defaulting to month.
func ParseRangeKind(s string) (RangeKind, bool) {
	switch RangeKind(s) {
	case "":
		return RangeMonth, true
	case RangeDay, RangeWeek, RangeMonth, RangeYear, RangeCustom:
		return RangeKind(s), true
	}
	return "", false
}
