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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/packetd/multiparts/common"
)

var rootCmd = &cobra.Command{
	Use:   "multiparts",
	Short: "Streaming parser and server for HTTP multipart/* bodies",
}

// Execute runs the root command, exiting the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	info := common.GetBuildInfo()
	version := info.Version
	if version == "" {
		version = common.Version
	}
	rootCmd.Version = fmt.Sprintf("%s (%s) built at %s", version, info.GitHash, info.Time)
}
