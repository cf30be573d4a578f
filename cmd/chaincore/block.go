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
	"fmt"

	"github.com/blinklabs-io/chaincore/block"
	"github.com/blinklabs-io/chaincore/database"
	"github.com/spf13/cobra"
)

type fragmentSummary struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Size int    `json:"size"`
}

type blockSummary struct {
	ID          string            `json:"id"`
	Parent      string            `json:"parent"`
	Version     string            `json:"version"`
	Date        string            `json:"date"`
	ChainLength uint32            `json:"chainLength"`
	ContentSize uint32            `json:"contentSize"`
	Fragments   []fragmentSummary `json:"fragments,omitempty"`
}

func summarizeBlock(b block.Block) (blockSummary, error) {
	ret := blockSummary{
		ID:          b.ID().String(),
		Parent:      b.ParentID().String(),
		Version:     b.Version().String(),
		Date:        b.Date().String(),
		ChainLength: uint32(b.ChainLength()),
		ContentSize: b.Header().ContentSize,
	}
	frags, err := b.Fragments()
	if err != nil {
		return ret, err
	}
	for i, f := range frags {
		ret.Fragments = append(ret.Fragments, fragmentSummary{
			ID:   f.ID().String(),
			Kind: f.Kind.String(),
			Size: len(b.Contents()[i]),
		})
	}
	return ret, nil
}

func summarizeBlockInfo(info database.BlockInfo) blockSummary {
	return blockSummary{
		ID:          info.ID.String(),
		Parent:      info.Parent.String(),
		Version:     info.Version.String(),
		Date:        info.Date.String(),
		ChainLength: uint32(info.ChainLength),
		ContentSize: info.ContentSize,
	}
}

func blockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Decode and store blocks",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "decode FILE",
			Short: "Decode a block and print a summary",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := readInput(args[0])
				if err != nil {
					return err
				}
				b, err := block.Decode(data)
				if err != nil {
					return fmt.Errorf("decode block: %w", err)
				}
				summary, err := summarizeBlock(b)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), summary)
			},
		},
		&cobra.Command{
			Use:   "import FILE",
			Short: "Verify a block and store it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := readInput(args[0])
				if err != nil {
					return err
				}
				return withSession(cmd, func(s *session) error {
					b, err := s.db.ImportBlock(cmd.Context(), data)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), b.ID().String())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "tip",
			Short: "Show the stored block with the greatest chain length",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSession(cmd, func(s *session) error {
					info, err := s.db.Tip(cmd.Context())
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), summarizeBlockInfo(info))
				})
			},
		},
	)
	return cmd
}
