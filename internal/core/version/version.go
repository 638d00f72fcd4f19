// Package version reports which build is running
package version

import "runtime/debug"

// set at link time, e.g. -ldflags "-X dcbadmin/internal/core/version.version=v1.4.0"
var (
	version = "dev"
	commit  = ""
	date    = ""
)

// BuildInfo is what /meta/version serves
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"goVersion,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

// Info returns the link time values, filling commit and date from the embedded VCS stamp when unset
func Info() BuildInfo {
	bi := BuildInfo{Service: "dcb-admin-api", Version: version, Commit: commit, Date: date}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return bi
	}
	bi.GoVersion = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if bi.Commit == "" {
				bi.Commit = s.Value
			}
		case "vcs.time":
			if bi.Date == "" {
				bi.Date = s.Value
			}
		case "vcs.modified":
			bi.Modified = s.Value == "true"
		}
	}
	return bi
}

// UserAgent is sent on upstream calls
func UserAgent() string { return "dcb-admin-api/" + version }
