// Package argument splits the command line arguments of the deployer.
//
// Any argument without the '--' prefix is considered to be a path to
// the environment file. The rest are the flags.
package argument

import (
	"strings"
)

const prefix = "--"

// GetEnvPaths returns the arguments that are the paths to .env files.
func GetEnvPaths(args []string) []string {
	paths := make([]string, 0, len(args))

	for _, arg := range args {
		if !strings.HasPrefix(arg, prefix) {
			paths = append(paths, arg)
		}
	}

	return paths
}
