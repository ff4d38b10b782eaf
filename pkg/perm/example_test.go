package perm_test

import (
	"fmt"

	"github.com/matzehuels/qmap/pkg/perm"
)

func ExampleGenerate() {
	perms := perm.Generate(3, -1)
	for _, p := range perms {
		fmt.Println(p)
	}
	// Output:
	// [0 1 2]
	// [1 0 2]
	// [2 0 1]
	// [0 2 1]
	// [1 2 0]
	// [2 1 0]
}

func ExampleFactorial() {
	fmt.Println("5! =", perm.Factorial(5))
	// Output:
	// 5! = 120
}

func ExampleMapping_String() {
	m := perm.Mapping{2, perm.Undef, 0}
	fmt.Println(m)
	fmt.Println(m.Inverse(3))
	// Output:
	// [0 => 2; 1 => _; 2 => 0]
	// [2 -1 0]
}

func ExampleMapping_Fill() {
	m := perm.Mapping{perm.Undef, 0, perm.Undef}
	filled, _ := m.Fill(4)
	fmt.Println(filled)
	// Output:
	// [0 => 1; 1 => 0; 2 => 2]
}

func ExampleSwapSeq_Apply() {
	a := perm.Assignment{0, 1, 2}
	perm.SwapSeq{{U: 0, V: 1}, {U: 1, V: 2}}.Apply(a)
	fmt.Println(a)
	// Output:
	// [1 2 0]
}
