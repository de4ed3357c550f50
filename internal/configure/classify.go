package configure

import (
	"strings"

	"git.home.luguber.info/inful/ffbuild/internal/process"
)

// Signature is the classification of a configure failure.
type Signature int

const (
	// Unclassified is any failure without a known recovery.
	Unclassified Signature = iota
	// MissingAssembler means nasm/yasm is absent or too old; configure can be
	// retried with the assembly codepath disabled.
	MissingAssembler
)

func (s Signature) String() string {
	switch s {
	case MissingAssembler:
		return "missing_assembler"
	default:
		return "unclassified"
	}
}

// missingAssemblerText is matched against configure's lowercased output.
// Matching tool output text is brittle: a reworded message in a future FFmpeg
// release silently turns this into Unclassified.
const missingAssemblerText = "nasm/yasm not found or too old"

// Classify inspects a failed configure result. Successful results are
// Unclassified.
func Classify(res process.Result) Signature {
	if res.Success {
		return Unclassified
	}
	combined := strings.ToLower(res.Stdout + "\n" + res.Stderr)
	if strings.Contains(combined, missingAssemblerText) {
		return MissingAssembler
	}
	return Unclassified
}
