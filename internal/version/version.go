/*
Copyright (c) Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags.
var (
	Version   = ""
	GitCommit = ""
)

func Release() string {
	if Version == "" {
		return "dev"
	}

	return Version
}

func Commit() string {
	if GitCommit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					return setting.Value
				}
			}
		}
		return "unknown"
	}

	return GitCommit
}

func Banner() string {
	return "" +
		" _       _   _\n" +
		"| |_ ___| |_| |__   ___ _ __\n" +
		"| __/ _ \\ __| '_ \\ / _ \\ '__|\n" +
		"| ||  __/ |_| | | |  __/ |\n" +
		" \\__\\___|\\__|_| |_|\\___|_|\n"
}

func Print() {
	fmt.Println(Banner())
	fmt.Printf("Release: %s\n", Release())
	fmt.Printf("Commit:  %s\n", Commit())
}
