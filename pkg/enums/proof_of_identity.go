package enums

import "fmt"

// ProofOfIdentity is the document type a user submitted for verification.
type ProofOfIdentity string

const (
	ProofOfIdentityPassport       ProofOfIdentity = "passport"
	ProofOfIdentityDriversLicense ProofOfIdentity = "drivers_license"
	ProofOfIdentityNationalID     ProofOfIdentity = "national_id"
)

var validProofsOfIdentity = []ProofOfIdentity{
	ProofOfIdentityPassport,
	ProofOfIdentityDriversLicense,
	ProofOfIdentityNationalID,
}

// String implements fmt.Stringer.
func (p ProofOfIdentity) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProofOfIdentity.
func (p ProofOfIdentity) IsValid() bool {
	for _, candidate := range validProofsOfIdentity {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProofOfIdentity converts raw input into a ProofOfIdentity.
func ParseProofOfIdentity(value string) (ProofOfIdentity, error) {
	for _, candidate := range validProofsOfIdentity {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid proof of identity %q", value)
}
