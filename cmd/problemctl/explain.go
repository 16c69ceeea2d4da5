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
	"fmt"

	"dirpx.dev/problem/config"
	"dirpx.dev/problem/kind"
	"dirpx.dev/problem/mapper"
	"dirpx.dev/problem/reason"
	"github.com/spf13/cobra"
)

func newExplainCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "explain KIND [REASON]",
		Short: "Show how a kind and reason resolve to transport statuses",
		Example: `  problemctl explain not_found
  problemctl explain conflict order.payment.declined --config problem.yaml`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kind.Parse(args[0])
			if err != nil {
				return fmt.Errorf("kind %q: %w", args[0], err)
			}
			r := reason.Empty
			if len(args) == 2 {
				if r, err = reason.Parse(args[1]); err != nil {
					return fmt.Errorf("reason %q: %w", args[1], err)
				}
			}

			s, err := config.Load(root.configFile)
			if err != nil {
				return err
			}
			opts, err := s.MapperOptions()
			if err != nil {
				return err
			}
			m, err := mapper.New(opts...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), m.Explain(k, r))
			return err
		},
	}
}
