// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package main

import (
	"github.com/spf13/cobra"

	"github.com/nttcom/gtp/internal/pkg/version"
)

var jsonFmt bool

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "gtpctl",
		Version:      version.Version(),
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&jsonFmt, "json", "j", false, "output json format")

	rootCmd.AddCommand(newDecodeCmd(), newEncodeCmd())
	rootCmd.Run = runRootCmd

	return rootCmd
}

func runRootCmd(cmd *cobra.Command, args []string) {
	cmd.HelpFunc()(cmd, args)
}
