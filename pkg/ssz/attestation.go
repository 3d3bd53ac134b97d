package ssz

// Checkpoint identifies an epoch boundary block, as referenced by an
// attestation's source and target votes.
type Checkpoint struct {
	Epoch uint64
	Root  Root
}

// AttestationData is the fixed-size vote body an attesting validator
// signs over.
type AttestationData struct {
	Slot            uint64
	CommitteeIndex  uint64
	BeaconBlockRoot Root
	Source          Checkpoint
	Target          Checkpoint
}

// Attestation pairs a committee aggregation bitlist with the vote it
// attests to and the validators' aggregate BLS signature. AggregationBits
// is the container's only variable-size field.
type Attestation struct {
	AggregationBits []byte
	Data            AttestationData
	Signature       [96]byte
}
