package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration is returned for static configuration defects. They are
// never transient; retrying without changing the configuration will fail again.
var ErrConfiguration = errors.New("configuration error")

// Layer is a side of a reconcile comparison.
type Layer string

const (
	LayerSource Layer = "source"
	LayerTarget Layer = "target"
)

// ParseLayer returns the layer named by s.
func ParseLayer(s string) (Layer, error) {
	switch l := Layer(strings.ToLower(strings.TrimSpace(s))); l {
	case LayerSource, LayerTarget:
		return l, nil
	default:
		return "", fmt.Errorf("%w: unknown layer %q", ErrConfiguration, s)
	}
}

func (l Layer) String() string {
	return string(l)
}

// ReportType selects what a reconcile run compares.
type ReportType string

const (
	// ReportRow compares whole rows and needs no join columns.
	ReportRow    ReportType = "row"
	ReportData   ReportType = "data"
	ReportSchema ReportType = "schema"
	ReportAll    ReportType = "all"
)

// ParseReportType returns the report type named by s.
func ParseReportType(s string) (ReportType, error) {
	switch r := ReportType(strings.ToLower(strings.TrimSpace(s))); r {
	case ReportRow, ReportData, ReportSchema, ReportAll:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown report type %q", ErrConfiguration, s)
	}
}

func (r ReportType) String() string {
	return string(r)
}

// NeedsJoinColumns is true for every report type except row.
func (r ReportType) NeedsJoinColumns() bool {
	return r != ReportRow
}
