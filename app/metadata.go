package app

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/pnetwork/event-attestator/attestation"
	"github.com/pnetwork/event-attestator/internal/display"
)

// Placeholder identifiers used when the event is not tied to a real block.
const (
	defaultTxHash    = "0x11365bbee18058f12c27236e891a66999c4325879865303f785854e9169c257a"
	defaultBlockHash = "0xa880cb2ab67ec9140db0f6de238b34d4108f6fab99315772ee987ef9002e0e63"
)

type metadataFlags struct {
	blockHash string
	txHash    string
}

func addMetadataFlags(cmd *cobra.Command, f *metadataFlags, defaultFormat attestation.SignatureFormat) {
	flags := cmd.Flags()
	flags.StringVarP(&f.blockHash, "block-hash", "b", defaultBlockHash, "the block including the event")
	flags.StringVarP(&f.txHash, "tx-hash", "t", defaultTxHash, "the transaction including the event")
	flags.StringP(chainFlag, "c", "", "origin chain: catalog name, hex or decimal id (default $ATTESTATOR_CHAIN)")
	flags.StringP(privateKeyFileFlag, "p", "", "file holding the hex private key (default $ATTESTATOR_PRIVATE_KEY_FILE)")
	flags.String(formatFlag, defaultFormat.String(), "signature format: evm or eos")
}

func newEvmMetadataCmd(rt *session) *cobra.Command {
	var f metadataFlags
	cmd := &cobra.Command{
		Use:   "evm-metadata <address> <data> [topics...]",
		Short: "Attest an EVM log and print its metadata",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := map[string]any{
				"address":         args[0],
				"data":            args[1],
				"topics":          lo.ToAnySlice(args[2:]),
				"blockHash":       f.blockHash,
				"transactionHash": f.txHash,
			}
			return rt.printMetadata(cmd, attestation.ProtocolEvm, attestation.FormatEvm, doc)
		},
	}
	addMetadataFlags(cmd, &f, attestation.FormatEvm)
	return cmd
}

func newEosMetadataCmd(rt *session) *cobra.Command {
	var f metadataFlags
	cmd := &cobra.Command{
		Use:   "eos-metadata <account> <action> <data>",
		Short: "Attest an Antelope action and print its metadata",
		Long: "Attest an Antelope action and print its metadata.\n\n" +
			"data is hex when 0x-prefixed and taken verbatim otherwise.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := map[string]any{
				"account":         args[0],
				"action":          args[1],
				"data":            args[2],
				"blockHash":       f.blockHash,
				"transactionHash": f.txHash,
			}
			return rt.printMetadata(cmd, attestation.ProtocolEos, attestation.FormatEos, doc)
		},
	}
	addMetadataFlags(cmd, &f, attestation.FormatEos)
	return cmd
}

func (rt *session) printMetadata(cmd *cobra.Command, protocol attestation.ProtocolID, defaultFormat attestation.SignatureFormat, doc map[string]any) error {
	ev, err := attestation.DecodeEvent(doc)
	if err != nil {
		return err
	}
	format, err := rt.signatureFormat(cmd, defaultFormat)
	if err != nil {
		return err
	}
	ctx, err := rt.cfg.ContextFor(protocol)
	if err != nil {
		return err
	}
	a, err := rt.attester(ctx)
	if err != nil {
		return err
	}
	att, err := a.Attest(ev, format)
	if err != nil {
		return err
	}
	return display.PrintCmd(cmd, &attestationResponse{att})
}
