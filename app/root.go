package app

import (
	"crypto/ecdsa"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pnetwork/event-attestator/attestation"
	"github.com/pnetwork/event-attestator/attestation/metrics"
	"github.com/pnetwork/event-attestator/cmd/version"
	"github.com/pnetwork/event-attestator/internal/config"
	"github.com/pnetwork/event-attestator/internal/display"
)

const (
	logLevelFlag       = "log-level"
	privateKeyFileFlag = "private-key-file"
	chainFlag          = "chain-id"
	formatFlag         = "format"
)

// session is shared by every sub-command once the root pre-run has loaded the
// configuration.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
}

// RootCmd builds the attestator command tree.
func RootCmd() *cobra.Command {
	rt := &session{}

	cmd := &cobra.Command{
		Use:          "attestator",
		Short:        "Sign and verify cross-chain event attestations",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP(display.OutputFlag, "o", "", "output format: text, json or markdown (default $ATTESTATOR_OUTPUT)")
	flags.String(logLevelFlag, "", "log level: debug, info, warn or error (default $ATTESTATOR_LOG_LEVEL)")

	cmd.AddCommand(
		newEvmMetadataCmd(rt),
		newEosMetadataCmd(rt),
		newAttestCmd(rt),
		newSignBytesCmd(rt),
		newVerifyCmd(rt),
		newPubkeyCmd(rt),
		newKeygenCmd(rt),
		version.NewVersionCmd(),
	)

	return cmd
}

// init loads the environment, applies flag overrides and installs the logger.
func (rt *session) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed(display.OutputFlag) {
		cfg.Output, _ = flags.GetString(display.OutputFlag)
	} else if err := flags.Set(display.OutputFlag, cfg.Output); err != nil {
		return err
	}
	if flags.Changed(logLevelFlag) {
		cfg.LogLevel, _ = flags.GetString(logLevelFlag)
	}
	if f := flags.Lookup(privateKeyFileFlag); f != nil && f.Changed {
		cfg.PrivateKeyFile = f.Value.String()
	}
	if f := flags.Lookup(chainFlag); f != nil && f.Changed {
		cfg.Chain = f.Value.String()
	}
	if f := flags.Lookup(formatFlag); f != nil && f.Changed {
		cfg.Format = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)

	rt.cfg = cfg
	rt.logger = logger
	return nil
}

func (rt *session) options() []attestation.Option {
	opts := []attestation.Option{attestation.WithLogger(rt.logger)}
	if rt.cfg.MetricsEnabled {
		opts = append(opts, attestation.WithMetrics(metrics.NewRecorder(rt.logger)))
	}
	return opts
}

func (rt *session) privateKey() (*ecdsa.PrivateKey, error) {
	key, err := rt.cfg.LoadPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "load attester key")
	}
	return key, nil
}

// attester binds the configured key to ctx.
func (rt *session) attester(ctx attestation.Context) (*attestation.Attester, error) {
	key, err := rt.privateKey()
	if err != nil {
		return nil, err
	}
	return attestation.NewAttester(ctx, key, rt.options()...)
}

// signatureFormat returns the --format value when given, otherwise fallback.
// A zero fallback defers to the configured format.
func (rt *session) signatureFormat(cmd *cobra.Command, fallback attestation.SignatureFormat) (attestation.SignatureFormat, error) {
	if f := cmd.Flags().Lookup(formatFlag); (f != nil && f.Changed) || fallback == 0 {
		return rt.cfg.SignatureFormat()
	}
	return fallback, nil
}
