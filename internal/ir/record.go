package ir

import "fmt"

// Element record kinds.
const (
	KindGate  = "gate"
	KindBlock = "block"
)

// ElementRecord is the serialized form of an Element. Plans are stored and
// printed as lists of records.
type ElementRecord struct {
	Kind     string   `json:"kind" yaml:"kind"`
	Gate     *Gate    `json:"gate,omitempty" yaml:"gate,omitempty"`
	Protocol Protocol `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Source   *int     `json:"source,omitempty" yaml:"source,omitempty"`
	Targets  []int    `json:"targets,omitempty" yaml:"targets,omitempty"`
	Gates    []Gate   `json:"gates,omitempty" yaml:"gates,omitempty"`
}

// EncodeElements converts a stream into records.
func EncodeElements(elems []Element) []ElementRecord {
	records := make([]ElementRecord, 0, len(elems))
	for _, e := range elems {
		switch v := e.(type) {
		case Gate:
			g := v.Clone()
			records = append(records, ElementRecord{Kind: KindGate, Gate: &g})
		case *Block:
			rec := ElementRecord{
				Kind:     KindBlock,
				Protocol: v.Protocol,
				Gates:    NewBlock(v.Gates, v.Assignment).Gates,
			}
			if src, ok := v.Assignment.Source(); ok {
				rec.Source = &src
				rec.Targets = v.Assignment.Targets()
			}
			records = append(records, rec)
		}
	}
	return records
}

// DecodeElements rebuilds a stream from records.
func DecodeElements(records []ElementRecord) ([]Element, error) {
	elems := make([]Element, 0, len(records))
	for i, rec := range records {
		switch rec.Kind {
		case KindGate:
			if rec.Gate == nil {
				return nil, NewMalformedError(i, "gate record without gate")
			}
			elems = append(elems, rec.Gate.Clone())
		case KindBlock:
			a := Unassigned()
			if rec.Source != nil {
				a = Assigned(*rec.Source, rec.Targets)
			}
			b := NewBlock(rec.Gates, a)
			b.Protocol = rec.Protocol
			elems = append(elems, b)
		default:
			return nil, NewMalformedError(i, "unknown element kind %q", rec.Kind)
		}
	}
	return elems, nil
}

// MustDecodeElements is like DecodeElements but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustDecodeElements(records []ElementRecord) []Element {
	elems, err := DecodeElements(records)
	if err != nil {
		panic(fmt.Sprintf("decode elements: %v", err))
	}
	return elems
}
