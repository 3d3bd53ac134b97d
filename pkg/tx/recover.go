package tx

import (
	"github.com/alanyoungcy/ethcore/pkg/ecode"
	"github.com/alanyoungcy/ethcore/pkg/evmtype"
	"github.com/alanyoungcy/ethcore/pkg/signer"
)

// RecoverSender reconstructs env's sighash and recovers the address that
// produced its signature.
func RecoverSender(env Envelope) (evmtype.Address, error) {
	if env.Signature == nil {
		return evmtype.Address{}, ecode.New(ecode.Validation, "tx: RecoverSender", "envelope is unsigned")
	}
	digest, err := Sighash(env)
	if err != nil {
		return evmtype.Address{}, err
	}
	return signer.RecoverAddress(*env.Signature, digest)
}

// Sign computes env's sighash and attaches the signer's signature, deriving
// legacy replay-protection from env.ChainID/ReplayProtected.
func Sign(env Envelope, s *signer.Signer) (Envelope, error) {
	unsigned := env
	unsigned.Signature = nil
	digest, err := Sighash(unsigned)
	if err != nil {
		return Envelope{}, err
	}
	sig, err := s.Sign(digest)
	if err != nil {
		return Envelope{}, err
	}
	signed := unsigned
	signed.Signature = &sig
	return signed, nil
}
