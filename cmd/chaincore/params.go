// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/chaincore/internal/config"
	"github.com/blinklabs-io/chaincore/params"
	"github.com/spf13/cobra"
)

type paramSummary struct {
	Tag   uint16 `json:"tag"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}

func paramsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Inspect configuration parameters",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "decode FILE|-",
			Short: "Decode a parameter list and print it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := config.FromContext(cmd.Context())
				if cfg == nil {
					return errors.New("no config found in context")
				}
				data, err := readInput(args[0])
				if err != nil {
					return err
				}
				cps, err := params.DecodeConfigParams(data, cfg.DecodeOptions()...)
				if err != nil {
					return fmt.Errorf("decode parameters: %w", err)
				}
				ret := make([]paramSummary, 0, cps.Len())
				for _, p := range cps {
					ret = append(ret, paramSummary{
						Tag:   uint16(p.Tag()),
						Name:  p.Tag().String(),
						Value: p,
					})
				}
				return printJSON(cmd.OutOrStdout(), ret)
			},
		},
		&cobra.Command{
			Use:   "tags",
			Short: "List the known parameter tags",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				for _, tag := range params.AllTags() {
					fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", uint16(tag), tag)
				}
			},
		},
	)
	return cmd
}
