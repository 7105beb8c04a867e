package rustgen

import (
	"testing"

	"github.com/libninjago/libninja/pkg/hir"
)

func opWithRequiredCount(n int) hir.Operation {
	var params []hir.Parameter
	for i := 0; i < n; i++ {
		params = append(params, hir.Parameter{Name: string(rune('a' + i)), Ty: hir.String(), Optional: false})
	}
	return hir.Operation{Name: "Get", Parameters: params}
}

func TestShouldPromoteRequiredFourParams(t *testing.T) {
	if !ShouldPromoteRequired(opWithRequiredCount(4)) {
		t.Error("an operation with 4 required parameters must promote")
	}
}

func TestShouldPromoteRequiredThreeParams(t *testing.T) {
	if ShouldPromoteRequired(opWithRequiredCount(3)) {
		t.Error("an operation with 3 required parameters must not promote")
	}
}
