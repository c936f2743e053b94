/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package env

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tschaefer/tether/internal/cloud"
	"github.com/tschaefer/tether/internal/datasource"
	"github.com/tschaefer/tether/internal/properties"
)

var Cmd = &cobra.Command{
	Use:   "env",
	Short: "Print the resolved datasource",
	Long: "Resolve the effective datasource from properties, service " +
		"bindings and the embedded fallback, and print driver and " +
		"connection URL to the error stream.",
	Run: envCmd,
}

func init() {
	Cmd.Flags().StringP("properties-file", "", "", "Properties file (defaults to application.yaml in the working directory)")
	Cmd.Flags().BoolP("show-secrets", "", false, "Print the connection URL with user info intact")
}

func envCmd(cmd *cobra.Command, args []string) {
	propertiesFile, _ := cmd.Flags().GetString("properties-file")
	showSecrets, _ := cmd.Flags().GetBool("show-secrets")

	props, err := properties.Load(propertiesFile)
	cobra.CheckErr(err)

	var env *cloud.Env
	if cloud.Detected() {
		env, err = cloud.Current()
		cobra.CheckErr(err)
	}

	source, err := datasource.Resolve(props, env)
	cobra.CheckErr(err)

	if showSecrets {
		fmt.Fprintf(os.Stderr, "%s, %s\n", source.Driver, source.URL)
		return
	}
	fmt.Fprintln(os.Stderr, source.String())
}
