package rustgen

import "github.com/libninjago/libninja/pkg/hir"

// RequiredStructThreshold is the number of required parameters an
// operation must exceed before its required parameters are promoted into
// a generated {Op}Required struct. Pinned at 3: an operation with 4
// required parameters promotes, one with 3 does not.
const RequiredStructThreshold = 3

// ShouldPromoteRequired reports whether op's non-optional parameters
// should be collected into a generated {OperationName}Required struct
// rather than passed as positional arguments.
func ShouldPromoteRequired(op hir.Operation) bool {
	return len(op.RequiredParameters()) > RequiredStructThreshold
}
