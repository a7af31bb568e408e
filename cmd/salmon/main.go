package main

import (
	"os"

	"github.com/vitalvas/salmon/internal/cli"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

func main() {
	if err := cli.Execute(cli.BuildInfo{
		Version:   version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
	}); err != nil {
		os.Exit(1)
	}
}
