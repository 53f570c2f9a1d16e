// Package version reports the version of the redact tools.
package version

import "runtime/debug"

// Version can be set at build time with something like:
// go build -ldflags "-X github.com/vsariola/redact/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short vcs revision the binary was built from, with a -dirty
// suffix for modified trees, or empty when the build info has none.
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return hashFromSettings(info.Settings)
}()

var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	if Hash != "" {
		return Hash
	}
	return "devel"
}()

func hashFromSettings(settings []debug.BuildSetting) string {
	modified := false
	revision := ""
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.modified":
			modified = setting.Value == "true"
		case "vcs.revision":
			revision = setting.Value
		}
	}
	if revision == "" {
		return ""
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if modified {
		return revision + "-dirty"
	}
	return revision
}
