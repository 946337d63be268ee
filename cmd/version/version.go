package version

import (
	"bytes"
	"encoding/json"
	"runtime"
	"text/template"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pnetwork/event-attestator/internal/display"
)

// Template field labels
const (
	VersionLabel   = "Version:"
	CommitLabel    = "Git commit:"
	BuiltLabel     = "Built:"
	GoVersionLabel = "Go version:"
	OSArchLabel    = "OS/Arch:"
)

var versionTemplate = template.Must(template.New("version").Parse(`
 ` + VersionLabel + `	{{.Version}}
 ` + CommitLabel + `	{{.GitCommit}}
 ` + BuiltLabel + `		{{.BuildTime}}
 ` + GoVersionLabel + `	{{.GoVersion}}
 ` + OSArchLabel + `	{{.Os}}/{{.Arch}}`))

type versionInfo struct {
	// build-time info
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	// client machine info
	GoVersion string `json:"go_version"`
	Os        string `json:"os"`
	Arch      string `json:"arch"`
}

type respVersionInfo struct {
	Info *versionInfo
}

func (v *respVersionInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Info)
}

func (v *respVersionInfo) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	if err := versionTemplate.Execute(&buf, v.Info); err != nil {
		return nil, errors.Wrap(err, "template executing error")
	}
	return buf.Bytes(), nil
}

func (v *respVersionInfo) Table() ([]string, [][]string) {
	return []string{"Field", "Value"}, [][]string{
		{VersionLabel, v.Info.Version},
		{CommitLabel, v.Info.GitCommit},
		{BuiltLabel, v.Info.BuildTime},
		{GoVersionLabel, v.Info.GoVersion},
		{OSArchLabel, v.Info.Os + "/" + v.Info.Arch},
	}
}

func currentVersion() *respVersionInfo {
	return &respVersionInfo{
		Info: &versionInfo{
			Version:   getVersion(),
			GitCommit: getCommit(),
			BuildTime: getBuildTimeDisplay(),
			GoVersion: runtime.Version(),
			Os:        runtime.GOOS,
			Arch:      runtime.GOARCH,
		},
	}
}

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the application version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return display.PrintCmd(cmd, currentVersion())
		},
	}
}
