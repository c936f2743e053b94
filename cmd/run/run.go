/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package run

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tschaefer/tether/internal/manager"
)

var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Run Tether manager",
	Run:   runCmd,
}

func init() {
	Cmd.Flags().StringP("management.listen-address", "", "", "Address to listen on for management traffic (defaults to the management.listen-address property)")
	Cmd.Flags().StringP("server.log-level", "", "info", "Log level (debug, info, warn, error)")
	Cmd.Flags().StringP("server.log-format", "", "structured", "Log format (structured, json)")
	Cmd.Flags().StringP("properties-file", "", "", "Properties file (defaults to application.yaml in the working directory)")

	_ = Cmd.RegisterFlagCompletionFunc("server.log-level", completeServerLogLevel)
	_ = Cmd.RegisterFlagCompletionFunc("server.log-format", completeServerLogFormat)
}

func runCmd(cmd *cobra.Command, args []string) {
	listenAddr, _ := cmd.Flags().GetString("management.listen-address")
	propertiesFile, _ := cmd.Flags().GetString("properties-file")
	logLevel, _ := cmd.Flags().GetString("server.log-level")
	logFormat, _ := cmd.Flags().GetString("server.log-format")

	setLogger(logLevel, logFormat)

	manager, err := manager.New(propertiesFile)
	cobra.CheckErr(err)

	manager.Run(context.Background(), listenAddr)
}
