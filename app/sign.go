package app

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/pnetwork/event-attestator/attestation"
	"github.com/pnetwork/event-attestator/attestation/antelope"
	"github.com/pnetwork/event-attestator/internal/display"
)

func newSignBytesCmd(rt *session) *cobra.Command {
	var asHex bool
	cmd := &cobra.Command{
		Use:   "sign-bytes <message>",
		Short: "Sign sha256(message) outside of the event flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := []byte(args[0])
			if asHex {
				b, err := attestation.DecodeHex(args[0])
				if err != nil {
					return err
				}
				msg = b
			}

			format, err := rt.signatureFormat(cmd, 0)
			if err != nil {
				return err
			}
			key, err := rt.privateKey()
			if err != nil {
				return err
			}
			sig, err := attestation.SignRaw(msg, key)
			if err != nil {
				return err
			}
			formatted, err := attestation.Format(sig, format)
			if err != nil {
				return err
			}

			digest := attestation.Commit(msg)
			kv := display.NewKeyValue().
				Add("digest", digest.Hex()).
				Add("signature", hexutil.Encode(formatted)).
				Add("format", format.String())
			if format == attestation.FormatEos {
				s, err := antelope.SignatureString(formatted)
				if err != nil {
					return err
				}
				kv.Add("signature_k1", s)
			}
			return display.PrintCmd(cmd, kv)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&asHex, "hex", false, "treat message as hex instead of UTF-8 text")
	flags.StringP(privateKeyFileFlag, "p", "", "file holding the hex private key (default $ATTESTATOR_PRIVATE_KEY_FILE)")
	flags.String(formatFlag, "", "signature format: evm or eos (default $ATTESTATOR_SIGNATURE_FORMAT)")
	return cmd
}
