package reconcile

import "github.com/go-ini/ini"

const (
	defaultSourceDialect = "snowflake"
	defaultTargetDialect = "databricks"
	defaultReportType    = "row"
)

// profile abstracts settings loaded from an ini file. It provides defaults
// when the receiver is nil or a setting is not defined.
//
//	[source]
//	dialect = snowflake
//
//	[target]
//	dialect = databricks
//
//	[recon]
//	report_type = data
type profile struct {
	sourceDialect, targetDialect, reportType string
}

func (p *profile) GetSourceDialect() string {
	if p == nil || p.sourceDialect == "" {
		return defaultSourceDialect
	}

	return p.sourceDialect
}

func (p *profile) GetTargetDialect() string {
	if p == nil || p.targetDialect == "" {
		return defaultTargetDialect
	}

	return p.targetDialect
}

func (p *profile) GetReportType() string {
	if p == nil || p.reportType == "" {
		return defaultReportType
	}

	return p.reportType
}

// newProfile attempts to load a profile from a path to an ini file.
func newProfile(path string) (*profile, error) {
	p := &profile{}

	if path == "" {
		return p, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, err
	}

	if file.HasSection("source") {
		p.sourceDialect = file.Section("source").Key("dialect").String()
	}
	if file.HasSection("target") {
		p.targetDialect = file.Section("target").Key("dialect").String()
	}
	if file.HasSection("recon") {
		p.reportType = file.Section("recon").Key("report_type").String()
	}

	return p, nil
}
