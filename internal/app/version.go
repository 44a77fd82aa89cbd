package app

import (
	"fmt"
	"io"
)

// Version information (set by build flags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// ShowVersion writes version information to w
func ShowVersion(w io.Writer) {
	fmt.Fprintf(w, "asterix %s (commit %s, built %s)\n", Version, GitCommit, BuildTime)
}
