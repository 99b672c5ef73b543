package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainCircuit = "qdist/circuit/v1"
	DomainPlan    = "qdist/plan/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CircuitFingerprint identifies an input circuit. Names are NFC normalized
// so visually identical names hash the same.
func CircuitFingerprint(name string, nodes NodeMap, gates []Gate) (string, error) {
	data, err := json.Marshal(struct {
		Name  string  `json:"name"`
		Nodes NodeMap `json:"nodes"`
		Gates []Gate  `json:"gates"`
	}{norm.NFC.String(name), nodes, gates})
	if err != nil {
		return "", fmt.Errorf("CircuitFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCircuit, data), nil
}

// PlanFingerprint identifies a compiled element stream together with the
// compiler version that produced it.
func PlanFingerprint(name string, elems []Element) (string, error) {
	data, err := json.Marshal(struct {
		Name     string          `json:"name"`
		Version  string          `json:"version"`
		Elements []ElementRecord `json:"elements"`
	}{norm.NFC.String(name), PlanVersion, EncodeElements(elems)})
	if err != nil {
		return "", fmt.Errorf("PlanFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainPlan, data), nil
}
