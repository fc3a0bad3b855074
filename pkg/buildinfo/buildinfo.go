// Package buildinfo reports the version of the recon binary.
// Values injected with -ldflags take priority over the VCS settings the Go
// toolchain embeds when building from a git checkout.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Info holds the resolved build metadata.
type Info struct {
	Version  string // version tag, or "dev"
	Commit   string // git commit, or "unknown"
	Date     string // build date, or "unknown"
	Modified bool   // the working tree had uncommitted changes
	GoVer    string
}

// Resolve merges ldflags-injected values over the embedded build info.
// Empty arguments fall through to the embedded values.
//
//	go build -ldflags "-X main.version=v1.2.3 -X main.commit=$(git rev-parse HEAD)"
func Resolve(version, commit, date string) Info {
	return resolve(version, commit, date, debug.ReadBuildInfo)
}

func resolve(version, commit, date string, read func() (*debug.BuildInfo, bool)) Info {
	info := Info{Version: "dev", Commit: "unknown", Date: "unknown"}
	if bi, ok := read(); ok {
		info.GoVer = bi.GoVersion
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Commit = s.Value
			case "vcs.time":
				info.Date = s.Value
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
		if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	if version != "" {
		info.Version = version
	}
	if commit != "" {
		info.Commit = commit
	}
	if date != "" {
		info.Date = date
	}
	return info
}

// String formats the info for a --version flag.
func (i Info) String() string {
	s := fmt.Sprintf("recon %s (commit %s, built %s", i.Version, i.Commit, i.Date)
	if i.Modified {
		s += ", modified"
	}
	if i.GoVer != "" {
		s += ", " + i.GoVer
	}
	return s + ")"
}
