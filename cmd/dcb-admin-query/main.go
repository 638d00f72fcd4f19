// Command dcb-admin-query encodes and decodes search query strings and grid list variables
// the same way the admin API does, for support work and scripting
package main

import (
	"os"

	"dcbadmin/internal/platform/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Get().Error().Err(err).Msg("dcb-admin-query failed")
		os.Exit(1)
	}
}
