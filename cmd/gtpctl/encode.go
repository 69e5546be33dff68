// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"os"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"

	"github.com/nttcom/gtp/pkg/packet/gtpu"
	"github.com/nttcom/gtp/pkg/packet/gtpv2"
	"github.com/nttcom/gtp/pkg/server"
)

func newEncodeCmd() *cobra.Command {
	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "encode a GTP message described in a yaml file",
		RunE: func(cmd *cobra.Command, args []string) error {
			filepath, err := cmd.Flags().GetString("file")
			if err != nil {
				return err
			}
			if filepath == "" {
				return fmt.Errorf("file path option \"-f filepath\" is mandatory")
			}
			f, err := os.Open(filepath)
			if err != nil {
				return fmt.Errorf("file \"%s\" can't open", filepath)
			}
			defer f.Close()

			input := InputFormat{}
			if err := yaml.NewDecoder(f).Decode(&input); err != nil {
				return fmt.Errorf("file \"%s\" can't be parsed: %w", filepath, err)
			}
			return encodeMessage(cmd.OutOrStdout(), input, jsonFmt)
		},
	}

	encodeCmd.Flags().StringP("file", "f", "", "[mandatory] path to yaml formatted message file")
	return encodeCmd
}

type InputFormat struct {
	Plane                string  `yaml:"plane"`
	Message              string  `yaml:"message"`
	TEID                 uint32  `yaml:"teid"`
	Sequence             uint32  `yaml:"sequence"`
	RestartCounter       uint8   `yaml:"restartCounter"`
	Cause                uint8   `yaml:"cause"`
	LinkedEBI            uint8   `yaml:"linkedEbi"`
	PTI                  uint8   `yaml:"pti"`
	DataTEID             uint32  `yaml:"dataTeid"`
	Peer                 string  `yaml:"peer"`
	UDPPort              uint16  `yaml:"udpPort"`
	Payload              string  `yaml:"payload"`
	QFI                  *uint8  `yaml:"qfi"`
	ExtensionHeaderTypes []uint8 `yaml:"extensionHeaderTypes"`
}

const sampleInput = "plane: c\n" +
	"message: bearerResourceFailureInd\n" +
	"teid: 1\n" +
	"sequence: 104\n" +
	"cause: 64\n" +
	"linkedEbi: 5\n" +
	"pti: 255\n\n" +
	"plane: u\n" +
	"message: gpdu\n" +
	"teid: 1\n" +
	"qfi: 9\n" +
	"payload: 4500\n"

var errUnknownMessage = errors.New("unknown message")

func encodeMessage(w io.Writer, input InputFormat, jsonFlag bool) error {
	b, err := buildMessage(input)
	if err != nil {
		if errors.Is(err, errUnknownMessage) {
			return fmt.Errorf("%w\ninput example is below\n\n%s", err, sampleInput)
		}
		return err
	}
	if jsonFlag {
		outputJSON, err := json.Marshal(map[string]interface{}{
			"plane":   input.Plane,
			"message": input.Message,
			"hex":     hex.EncodeToString(b),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", outputJSON)
		return nil
	}
	fmt.Fprintln(w, hex.EncodeToString(b))
	return nil
}

func buildMessage(input InputFormat) ([]byte, error) {
	plane, err := server.ParsePlane(input.Plane)
	if err != nil {
		return nil, err
	}
	if plane == server.PlaneControl {
		m, err := buildGtpcMessage(input)
		if err != nil {
			return nil, err
		}
		return gtpv2.Marshal(m)
	}
	m, err := buildGtpuMessage(input)
	if err != nil {
		return nil, err
	}
	return gtpu.Marshal(m)
}

func buildGtpcMessage(input InputFormat) (gtpv2.Message, error) {
	switch input.Message {
	case "echoRequest":
		return gtpv2.NewEchoRequest(input.Sequence, input.RestartCounter), nil
	case "echoResponse":
		req := gtpv2.NewEchoRequest(input.Sequence, 0)
		return gtpv2.NewEchoResponse(req, input.RestartCounter), nil
	case "versionNotSupported":
		return gtpv2.NewVersionNotSupportedIndication(input.Sequence), nil
	case "bearerResourceCommand":
		return gtpv2.NewBearerResourceCommand(input.TEID, input.Sequence, input.LinkedEBI, input.PTI), nil
	case "bearerResourceFailureInd":
		return gtpv2.NewBearerResourceFailureInd(input.TEID, input.Sequence, input.Cause, input.LinkedEBI, input.PTI), nil
	case "deleteBearerResponse":
		return gtpv2.NewDeleteBearerResponse(input.TEID, input.Sequence, input.Cause), nil
	case "deleteBearerRequest":
		m := gtpv2.NewDeleteBearerRequest(input.TEID, input.Sequence)
		m.LinkedEBI = &gtpv2.EPSBearerID{Value: input.LinkedEBI}
		return m, nil
	case "createSessionResponse":
		return gtpv2.NewCreateSessionResponse(input.TEID, input.Sequence, input.Cause), nil
	case "modifyBearerResponse":
		return gtpv2.NewModifyBearerResponse(input.TEID, input.Sequence, input.Cause), nil
	case "deleteSessionRequest":
		return gtpv2.NewDeleteSessionRequest(input.TEID, input.Sequence, input.LinkedEBI), nil
	case "deleteSessionResponse":
		return gtpv2.NewDeleteSessionResponse(input.TEID, input.Sequence, input.Cause), nil
	}
	return nil, fmt.Errorf("%w: %q", errUnknownMessage, input.Message)
}

func buildGtpuMessage(input InputFormat) (gtpu.Message, error) {
	seq := uint16(input.Sequence)
	switch input.Message {
	case "echoRequest":
		return gtpu.NewEchoRequest(seq), nil
	case "echoResponse":
		return gtpu.NewEchoResponse(gtpu.NewEchoRequest(seq)), nil
	case "errorIndication":
		peer, err := netip.ParseAddr(input.Peer)
		if err != nil {
			return nil, fmt.Errorf("invalid peer address: %w", err)
		}
		return gtpu.NewErrorIndication(seq, input.DataTEID, peer, input.UDPPort), nil
	case "supportedExtensionHeaders":
		types := make([]gtpu.ExtensionHeaderType, 0, len(input.ExtensionHeaderTypes))
		for _, t := range input.ExtensionHeaderTypes {
			types = append(types, gtpu.ExtensionHeaderType(t))
		}
		return gtpu.NewSupportedExtensionHeadersNotification(seq, types...), nil
	case "endMarker":
		return gtpu.NewEndMarker(input.TEID), nil
	case "gpdu":
		payload, err := hex.DecodeString(input.Payload)
		if err != nil {
			return nil, fmt.Errorf("invalid payload: %w", err)
		}
		var exts []gtpu.ExtensionHeader
		if input.QFI != nil {
			exts = append(exts, gtpu.NewPDUSessionContainer(gtpu.PDUTypeULPDUSessionInformation, *input.QFI))
		}
		return gtpu.NewGPDU(input.TEID, payload, exts...), nil
	}
	return nil, fmt.Errorf("%w: %q", errUnknownMessage, input.Message)
}
