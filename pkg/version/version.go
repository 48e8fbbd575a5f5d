package version

import "fmt"

var (
	// Set via -ldflags at build time
	version = "v0.0.0-dev"
	commit  = "HEAD"
)

type Version struct {
	Version string `json:"version,omitempty"`
	Commit  string `json:"commit,omitempty"`
}

func Get() Version {
	return Version{
		Version: version,
		Commit:  commit,
	}
}

func (v Version) String() string {
	return fmt.Sprintf("%s (%s)", v.Version, v.Commit)
}
