package app

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pnetwork/event-attestator/attestation"
	"github.com/pnetwork/event-attestator/internal/display"
)

func newAttestCmd(rt *session) *cobra.Command {
	var (
		protocol string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "attest <file>",
		Short: "Attest every event of a JSON or YAML document (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := readEventFile(cmd, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("protocol") {
				rt.cfg.Protocol = protocol
			}
			if cmd.Flags().Changed("limit") {
				rt.cfg.BatchLimit = limit
			}
			if err := rt.cfg.Validate(); err != nil {
				return err
			}

			ctx, err := rt.cfg.Context()
			if err != nil {
				return err
			}
			format, err := rt.signatureFormat(cmd, 0)
			if err != nil {
				return err
			}
			a, err := rt.attester(ctx)
			if err != nil {
				return err
			}

			rt.logger.Info("attesting events",
				zap.Int("count", len(events)),
				zap.Stringer("protocol", ctx.ProtocolID),
				zap.Stringer("format", format))

			atts, err := a.AttestBatch(cmd.Context(), events, format, rt.cfg.BatchLimit)
			if err != nil {
				return err
			}
			return display.PrintCmd(cmd, &batchResponse{atts})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&protocol, "protocol", "", "origin protocol: evm or eos (default $ATTESTATOR_PROTOCOL)")
	flags.IntVar(&limit, "limit", 0, "maximum concurrent signatures, 0 for GOMAXPROCS (default $ATTESTATOR_BATCH_LIMIT)")
	flags.StringP(chainFlag, "c", "", "origin chain: catalog name, hex or decimal id (default $ATTESTATOR_CHAIN)")
	flags.StringP(privateKeyFileFlag, "p", "", "file holding the hex private key (default $ATTESTATOR_PRIVATE_KEY_FILE)")
	flags.String(formatFlag, "", "signature format: evm or eos (default $ATTESTATOR_SIGNATURE_FORMAT)")
	return cmd
}

func readEventFile(cmd *cobra.Command, path string) ([]attestation.Event, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open event file")
		}
		defer f.Close()
		r = f
	}
	events, err := attestation.ReadEvents(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read events from %s", path)
	}
	return events, nil
}
