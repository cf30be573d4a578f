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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/blinklabs-io/chaincore/digest"
	"github.com/blinklabs-io/chaincore/internal/config"
	"github.com/blinklabs-io/chaincore/ledger/snapshot"
	"github.com/spf13/cobra"
)

type snapshotSummary struct {
	ID             string `json:"id"`
	Date           string `json:"date"`
	ChainLength    uint32 `json:"chainLength"`
	Entries        uint64 `json:"entries"`
	RawSize        uint64 `json:"rawSize"`
	CompressedSize uint64 `json:"compressedSize"`
	CreatedAt      string `json:"createdAt"`
}

type verifySummary struct {
	Entries int            `json:"entries"`
	Bytes   int64          `json:"bytes"`
	ByCode  map[string]int `json:"byCode"`
}

// verifySnapshot walks a stream entry by entry without building a ledger
func verifySnapshot(r io.Reader, cfg *config.Config) (verifySummary, error) {
	ret := verifySummary{ByCode: make(map[string]int)}
	dec := snapshot.NewDecoder(bufio.NewReader(r), cfg.DecodeOptions()...)
	for {
		e, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ret, err
		}
		ret.ByCode[e.Code().String()]++
	}
	if err := dec.ExpectEnd(); err != nil {
		return ret, err
	}
	ret.Entries = dec.Count()
	ret.Bytes = dec.Pos()
	return ret, nil
}

func snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Verify and store ledger snapshots",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "verify FILE",
			Short: "Check that a snapshot stream decodes to its end marker",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := config.FromContext(cmd.Context())
				if cfg == nil {
					return errors.New("no config found in context")
				}
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				summary, err := verifySnapshot(f, cfg)
				if err != nil {
					return fmt.Errorf("verify snapshot: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), summary)
			},
		},
		&cobra.Command{
			Use:   "import FILE",
			Short: "Store a snapshot stream",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				return withSession(cmd, func(s *session) error {
					info, err := s.db.ImportSnapshot(cmd.Context(), f)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), info.ID.String())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "export ID FILE",
			Short: "Write a stored snapshot stream to a file",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := digest.FromHex(args[0])
				if err != nil {
					return fmt.Errorf("snapshot id: %w", err)
				}
				return withSession(cmd, func(s *session) error {
					f, err := os.Create(args[1])
					if err != nil {
						return err
					}
					w := bufio.NewWriter(f)
					if err := s.db.ExportSnapshot(cmd.Context(), id, w); err != nil {
						_ = f.Close()
						return err
					}
					if err := w.Flush(); err != nil {
						_ = f.Close()
						return err
					}
					return f.Close()
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored snapshots",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSession(cmd, func(s *session) error {
					infos, err := s.db.ListSnapshots(cmd.Context())
					if err != nil {
						return err
					}
					ret := make([]snapshotSummary, 0, len(infos))
					for _, info := range infos {
						ret = append(ret, snapshotSummary{
							ID:             info.ID.String(),
							Date:           info.Date.String(),
							ChainLength:    uint32(info.ChainLength),
							Entries:        info.EntryCount,
							RawSize:        info.RawSize,
							CompressedSize: info.CompressedSize,
							CreatedAt:      info.CreatedAt.UTC().Format(time.RFC3339),
						})
					}
					return printJSON(cmd.OutOrStdout(), ret)
				})
			},
		},
	)
	return cmd
}
