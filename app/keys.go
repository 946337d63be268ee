package app

import (
	"crypto/ecdsa"
	"crypto/rand"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pnetwork/event-attestator/attestation"
	"github.com/pnetwork/event-attestator/attestation/antelope"
	"github.com/pnetwork/event-attestator/internal/display"
)

func newPubkeyCmd(rt *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Print the attester public key in every supported form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := rt.privateKey()
			if err != nil {
				return err
			}
			kv, err := publicKeyFields(&key.PublicKey)
			if err != nil {
				return err
			}
			return display.PrintCmd(cmd, kv)
		},
	}
	cmd.Flags().StringP(privateKeyFileFlag, "p", "", "file holding the hex private key (default $ATTESTATOR_PRIVATE_KEY_FILE)")
	return cmd
}

func newKeygenCmd(rt *session) *cobra.Command {
	var out string
	var force bool
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new attester key and write it as hex",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = rt.cfg.PrivateKeyFile
			}
			if _, err := os.Stat(out); err == nil && !force {
				return errors.Errorf("%s already exists (use --force to overwrite)", out)
			}

			key, err := attestation.GenerateKey(rand.Reader)
			if err != nil {
				return err
			}
			encoded := hexutil.Encode(crypto.FromECDSA(key))[2:]
			if err := os.WriteFile(out, []byte(encoded+"\n"), 0o600); err != nil {
				return errors.Wrap(err, "write key file")
			}
			rt.logger.Info("attester key written", zap.String("path", out))

			kv, err := publicKeyFields(&key.PublicKey)
			if err != nil {
				return err
			}
			kv.Add("file", out)
			return display.PrintCmd(cmd, kv)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "destination file (default $ATTESTATOR_PRIVATE_KEY_FILE)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func publicKeyFields(pub *ecdsa.PublicKey) (*display.KeyValue, error) {
	compressed := crypto.CompressPubkey(pub)
	k1, err := antelope.PublicKeyString(compressed)
	if err != nil {
		return nil, err
	}
	legacy, err := antelope.LegacyPublicKeyString(compressed)
	if err != nil {
		return nil, err
	}
	return display.NewKeyValue().
		Add("public_key", hexutil.Encode(crypto.FromECDSAPub(pub))).
		Add("compressed", hexutil.Encode(compressed)).
		Add("pub_k1", k1).
		Add("eos_legacy", legacy).
		Add("address", crypto.PubkeyToAddress(*pub).Hex()), nil
}
