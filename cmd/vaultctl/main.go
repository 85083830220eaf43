package main

import (
	"fmt"
	"os"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	c := newCLI(newStreams(os.Stdin, os.Stdout, os.Stderr))
	c.root.Version = buildInfo()

	if err := c.execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

func buildInfo() string {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	return fmt.Sprintf("%s (date: %s, commit: %s)", buildVersion, buildDate, buildCommit)
}
