/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package token

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tschaefer/tether/internal/controller"
	"github.com/tschaefer/tether/internal/properties"
)

var Cmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a management token",
	Run:   tokenCmd,
}

func init() {
	Cmd.Flags().StringP("properties-file", "", "", "Properties file (defaults to application.yaml in the working directory)")
	Cmd.Flags().DurationP("expiry", "", 30*time.Minute, "Token lifetime")
}

func tokenCmd(cmd *cobra.Command, args []string) {
	propertiesFile, _ := cmd.Flags().GetString("properties-file")
	expiry, _ := cmd.Flags().GetDuration("expiry")

	props, err := properties.Load(propertiesFile)
	cobra.CheckErr(err)

	ctrl := controller.New(nil, props)
	token, expiresAt, err := ctrl.GenerateManagementToken(expiry)
	cobra.CheckErr(err)

	fmt.Printf("Token:      %s\n", token)
	fmt.Printf("Expires at: %s\n", expiresAt.Format(time.RFC3339))
}
