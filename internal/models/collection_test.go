package models

import "testing"

func TestProofOfCollectionComplete(t *testing.T) {
	full := ProofOfCollection{
		CollectedAt:  "2024-06-10T09:30:00Z",
		SignatureRef: "sig-1",
		PhotoRefs:    []string{"photo-1"},
	}
	if !full.Complete() {
		t.Error("proof with timestamp, signature and photo should be complete")
	}

	cases := map[string]ProofOfCollection{
		"missing timestamp": {SignatureRef: "sig-1", PhotoRefs: []string{"photo-1"}},
		"missing signature": {CollectedAt: "2024-06-10T09:30:00Z", PhotoRefs: []string{"photo-1"}},
		"missing photos":    {CollectedAt: "2024-06-10T09:30:00Z", SignatureRef: "sig-1"},
	}
	for name, proof := range cases {
		if proof.Complete() {
			t.Errorf("%s: proof should be incomplete", name)
		}
	}
}
