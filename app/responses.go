package app

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"

	"github.com/pnetwork/event-attestator/attestation"
	"github.com/pnetwork/event-attestator/attestation/antelope"
	"github.com/pnetwork/event-attestator/internal/display"
)

// attestationResponse prints one attestation with the field names used by
// settlement tooling.
type attestationResponse struct {
	att *attestation.Attestation
}

func (r *attestationResponse) fields() *display.KeyValue {
	kv := display.NewKeyValue().
		Add("context", r.att.Context.Hex()).
		Add("preimage", hexutil.Encode(r.att.Preimage)).
		Add("eventid", r.att.EventID.Hex()).
		Add("signature", hexutil.Encode(r.att.Signature))
	if r.att.Format == attestation.FormatEos {
		if s, err := antelope.SignatureString(r.att.Signature); err == nil {
			kv.Add("signature_k1", s)
		}
	}
	return kv
}

func (r *attestationResponse) MarshalText() ([]byte, error) {
	return r.fields().MarshalText()
}

func (r *attestationResponse) MarshalJSON() ([]byte, error) {
	return r.att.MarshalJSON()
}

func (r *attestationResponse) Table() ([]string, [][]string) {
	return r.fields().Table()
}

type batchResponse struct {
	atts []*attestation.Attestation
}

func (r *batchResponse) MarshalText() ([]byte, error) {
	blocks := make([]string, 0, len(r.atts))
	for _, att := range r.atts {
		text, err := (&attestationResponse{att}).MarshalText()
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, string(text))
	}
	return []byte(strings.Join(blocks, "\n\n")), nil
}

func (r *batchResponse) MarshalJSON() ([]byte, error) {
	if r.atts == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.atts)
}

func (r *batchResponse) Table() ([]string, [][]string) {
	rows := lo.Map(r.atts, func(att *attestation.Attestation, i int) []string {
		return []string{
			strconv.Itoa(i),
			att.Context.ProtocolID.String(),
			att.EventID.Hex(),
			hexutil.Encode(att.Signature),
			strconv.Itoa(len(att.Preimage)),
		}
	})
	return []string{"#", "Protocol", "Event ID", "Signature", "Preimage bytes"}, rows
}
