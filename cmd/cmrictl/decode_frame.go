package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robertgauld/cmri/internal/frame"
	"github.com/robertgauld/cmri/internal/packet"
)

type decodeFrameFlags struct {
	allowExperimenter bool
}

func newDecodeFrameCmd() *cobra.Command {
	flags := &decodeFrameFlags{}

	cmd := &cobra.Command{
		Use:   "decode-frame <hex bytes>",
		Short: "Decode a raw CMRInet frame given as hex",
		Long: `Parses a hex string of raw wire bytes (the SYN SYN STX ... ETX frame,
DLE-escaped body included) and prints the decoded unit address,
message type, and payload.`,
		Example: `  cmrictl decode-frame ffff0241500003
  cmrictl decode-frame "ff ff 02 41 50 00 03"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(strings.ReplaceAll(args[0], " ", ""))
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid hex: %v\n", err)
				os.Exit(2)
			}

			rf, err := frame.FromBytes(raw)
			if err != nil {
				fmt.Fprintf(os.Stderr, "frame error: %v\n", err)
				os.Exit(2)
			}

			p, err := packet.TryDecodeFrame(&rf, flags.allowExperimenter)
			if err != nil {
				fmt.Fprintf(os.Stderr, "decode error: %v\n", err)
				os.Exit(2)
			}

			fmt.Printf("unit address: %d (node %d)\n", p.Address().UnitAddress(), p.Address().NodeAddress())
			describePayload(p.Payload())
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.allowExperimenter, "allow-experimenter", false, "accept experimenter message types (any uppercase letter)")

	return cmd
}

func describePayload(p packet.Payload) {
	switch p.Kind() {
	case packet.KindInitialization:
		nodeSort, _ := p.NodeSort()
		fmt.Printf("kind: Initialization\nnode sort: %s\n", nodeSort.Kind())
	case packet.KindPollRequest:
		fmt.Println("kind: PollRequest")
	case packet.KindReceiveData:
		data, _ := p.ReceiveData()
		fmt.Printf("kind: ReceiveData\nbody: %x\n", data.AsSlice())
	case packet.KindTransmitData:
		data, _ := p.TransmitData()
		fmt.Printf("kind: TransmitData\nbody: %x\n", data.AsSlice())
	case packet.KindUnknown:
		msgType, body, _ := p.Unknown()
		fmt.Printf("kind: Unknown\nmessage type: %c\nbody: %x\n", msgType, body)
	}
}
