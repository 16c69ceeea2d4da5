/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	logLevel   string
	logFile    string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "problemctl",
		Short: "Inspect and serve RFC 7807 problem mappings",
		Long: `problemctl works with the error-to-problem configuration of a service.

explain shows how a kind and reason resolve to HTTP and gRPC statuses.
serve runs a small gin server wired with the full problem pipeline.`,
		SilenceUsage: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "problem settings file (YAML)")
	pf.StringVar(&opts.logLevel, "log-level", "info", "console log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFile, "log-file", "", "also write JSON logs to this rotated file")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable colored console logs")

	cmd.AddCommand(newExplainCmd(opts), newServeCmd(opts))
	return cmd
}
