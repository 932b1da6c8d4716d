// Copyright 2025 The multiparts Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/packetd/multiparts/multipart"
)

var parseContentType string

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a multipart fixture file and print its event trace",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open %s: %v\n", args[0], err)
			os.Exit(1)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to stat %s: %v\n", args[0], err)
			os.Exit(1)
		}

		ctx := context.Background()
		stream, err := multipart.Parse(ctx, f, parseContentType, info.Size())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start parsing: %v\n", err)
			os.Exit(1)
		}
		defer stream.Close()

		partNum := 0
		for {
			evt, err := stream.Next(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
				os.Exit(1)
			}
			if evt == nil {
				break
			}

			switch e := evt.(type) {
			case *multipart.PreambleEvent:
				fmt.Printf("preamble: %d bytes\n", len(e.Body))

			case *multipart.EpilogueEvent:
				fmt.Printf("epilogue: %d bytes\n", len(e.Body))

			case *multipart.PartEvent:
				partNum++
				headers, err := e.Headers(ctx)
				if err != nil {
					fmt.Fprintf(os.Stderr, "part %d: failed to read headers: %v\n", partNum, err)
					os.Exit(1)
				}
				n, err := io.Copy(io.Discard, e.Body())
				if err != nil {
					fmt.Fprintf(os.Stderr, "part %d: failed to read body: %v\n", partNum, err)
					os.Exit(1)
				}
				fmt.Printf("part %d [%s]: %d header(s), %d body byte(s)\n", partNum, e.ID(), headers.Len(), n)
			}
		}
	},
	Example: "# multiparts parse request.bin --content-type 'multipart/form-data; boundary=XYZ'",
}

func init() {
	parseCmd.Flags().StringVar(&parseContentType, "content-type", "", "Content-Type header to parse the boundary from")
	_ = parseCmd.MarkFlagRequired("content-type")
	rootCmd.AddCommand(parseCmd)
}
