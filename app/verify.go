package app

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pnetwork/event-attestator/attestation"
	"github.com/pnetwork/event-attestator/attestation/antelope"
	"github.com/pnetwork/event-attestator/internal/display"
)

func newVerifyCmd(rt *session) *cobra.Command {
	var preimageHex, signatureArg, signerArg string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check an attestation against the expected attester key",
		Long: "Check an attestation against the expected attester key.\n\n" +
			"--signer accepts a hex public key, an EVM address, or a PUB_K1_/EOS key string.\n" +
			"--signature accepts hex or a SIG_K1_ string (which implies --format eos).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			preimage, err := attestation.DecodeHex(preimageHex)
			if err != nil {
				return errors.Wrap(err, "preimage")
			}
			signer, err := parseSigner(signerArg)
			if err != nil {
				return err
			}

			format, err := rt.signatureFormat(cmd, 0)
			if err != nil {
				return err
			}
			var signature []byte
			if strings.HasPrefix(signatureArg, antelope.SignaturePrefix) {
				signature, err = antelope.ParseSignature(signatureArg)
				format = attestation.FormatEos
			} else {
				signature, err = attestation.DecodeHex(signatureArg)
			}
			if err != nil {
				return errors.Wrap(err, "signature")
			}

			// The registry holds the one expected key for the origin the
			// preimage claims.
			registry := attestation.NewMemoryRegistry()
			if len(preimage) >= attestation.ContextLength {
				origin, err := attestation.ParseContext(preimage[:attestation.ContextLength])
				if err != nil {
					return err
				}
				if err := registry.SetSigner(origin.ProtocolID, origin.ChainID, signer); err != nil {
					return err
				}
			}

			verifier, err := attestation.NewVerifier(registry, format, rt.options()...)
			if err != nil {
				return err
			}
			parsed, verr := verifier.Verify(preimage, signature)

			kv := display.NewKeyValue().Add("accepted", verr == nil)
			if parsed != nil {
				kv.Add("eventid", parsed.Commitment().Hex()).
					Add("protocol", parsed.Context.ProtocolID.String()).
					Add("chain_id", parsed.Context.ChainID.Hex())
			}
			if verr != nil {
				kv.Add("reason", string(attestation.ReasonOf(verr)))
			}
			if err := display.PrintCmd(cmd, kv); err != nil {
				return err
			}
			return verr
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&preimageHex, "preimage", "", "hex preimage")
	flags.StringVar(&signatureArg, "signature", "", "formatted signature")
	flags.StringVar(&signerArg, "signer", "", "expected attester key or address")
	flags.String(formatFlag, "", "signature format: evm or eos (default $ATTESTATOR_SIGNATURE_FORMAT)")
	for _, name := range []string{"preimage", "signature", "signer"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func parseSigner(s string) ([]byte, error) {
	if strings.HasPrefix(s, antelope.PublicKeyPrefix) || strings.HasPrefix(s, antelope.LegacyPublicKeyPrefix) {
		return antelope.ParsePublicKey(s)
	}
	b, err := attestation.DecodeHex(s)
	if err != nil {
		return nil, errors.Wrap(err, "signer")
	}
	return b, nil
}
