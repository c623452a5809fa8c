package buildversion

import "runtime/debug"

const MODULE_PATH = "github.com/couchbaselabs/asgdns"

// MainPkgVersion can be set with -ldflags at release time.
var MainPkgVersion string

type Info struct {
	Version   string
	Revision  string
	Modified  bool
	GoVersion string
}

func getBuildSetting(info *debug.BuildInfo, key string) string {
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

func fromBuildInfo(buildInfo *debug.BuildInfo) *Info {
	info := &Info{
		GoVersion: buildInfo.GoVersion,
		Revision:  getBuildSetting(buildInfo, "vcs.revision"),
		Modified:  getBuildSetting(buildInfo, "vcs.modified") == "true",
	}

	switch {
	case MainPkgVersion != "":
		info.Version = MainPkgVersion
	case buildInfo.Main.Path == MODULE_PATH && buildInfo.Main.Version != "(devel)" && buildInfo.Main.Version != "":
		info.Version = buildInfo.Main.Version
	case info.Revision != "" && info.Modified:
		info.Version = info.Revision + "+local"
	case info.Revision != "":
		info.Version = info.Revision
	default:
		info.Version = "devel"
	}

	return info
}

func GetInfo() *Info {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return &Info{Version: "nobuilddata"}
	}

	return fromBuildInfo(buildInfo)
}

func GetVersion() string {
	return GetInfo().Version
}
