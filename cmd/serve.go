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
	"time"

	"github.com/spf13/cobra"

	"github.com/packetd/multiparts/common"
	"github.com/packetd/multiparts/confengine"
	"github.com/packetd/multiparts/internal/sigs"
	"github.com/packetd/multiparts/logger"
	"github.com/packetd/multiparts/multipart"
	"github.com/packetd/multiparts/server"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the multipart parsing HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := confengine.LoadConfigPath(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		var logOpt logger.Options
		if err := cfg.UnpackChild("logger", &logOpt); err == nil {
			logger.SetOptions(logOpt)
		}

		srv, err := server.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}
		if srv == nil {
			return fmt.Errorf("server.enabled is false in %s, nothing to run", serveConfigPath)
		}

		var multipartOpts common.Options
		var parseOpts []multipart.Option
		if err := cfg.UnpackChild("multipart", &multipartOpts); err == nil {
			parseOpts = multipart.OptionsFromConfig(multipartOpts)
		}
		srv.RegisterPostRoute("/v1/parse", server.NewParseHandler(parseOpts...))

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-sigs.Terminate():
			logger.Infof("received termination signal, shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
	Example: "# multiparts serve --config multiparts.yaml",
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "multiparts.yaml", "Configuration file path")
	rootCmd.AddCommand(serveCmd)
}
