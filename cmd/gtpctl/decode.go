// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	yaml "gopkg.in/yaml.v2"

	"github.com/nttcom/gtp/pkg/server"
)

func newDecodeCmd() *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:   "decode HEX...",
		Short: "decode a GTP message given as a hex dump",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planeName, err := cmd.Flags().GetString("plane")
			if err != nil {
				return err
			}
			plane, err := server.ParsePlane(planeName)
			if err != nil {
				return err
			}
			data, err := hex.DecodeString(strings.Join(args, ""))
			if err != nil {
				return fmt.Errorf("invalid hex input: %w", err)
			}
			return decodeMessage(cmd.OutOrStdout(), plane, data, jsonFmt)
		},
	}

	decodeCmd.Flags().StringP("plane", "p", "c", "protocol plane of the message (c: GTPv2-C, u: GTP-U)")
	return decodeCmd
}

func decodeMessage(w io.Writer, plane server.Plane, data []byte, jsonFlag bool) error {
	d, err := server.Decode(plane, data)
	if err != nil {
		return err
	}
	enc := zapcore.NewMapObjectEncoder()
	if err := d.MarshalLogObject(enc); err != nil {
		return err
	}
	fields := printable(enc.Fields)

	if jsonFlag {
		// output json format
		outputJSON, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", outputJSON)
		return nil
	}
	// output user-friendly format
	outputYAML, err := yaml.Marshal(fields)
	if err != nil {
		return err
	}
	fmt.Fprint(w, string(outputYAML))
	return nil
}

// printable replaces binary values of a log object with hex strings.
func printable(v interface{}) interface{} {
	switch v := v.(type) {
	case []byte:
		return hex.EncodeToString(v)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, e := range v {
			out[k] = printable(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = printable(e)
		}
		return out
	}
	return v
}
