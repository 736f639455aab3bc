package layout_test

import (
	"fmt"

	"github.com/matzehuels/deckview/pkg/layout"
)

func ExampleBuild() {
	// Target set of the table layout for three cards
	set := layout.Build(layout.TableAt, 3)
	fmt.Println(len(set))
	fmt.Printf("%.0f\n", set[0].Position)
	fmt.Printf("%.0f\n", set[1].Position)
	// Output:
	// 3
	// [-1400 90 0]
	// [-1260 90 0]
}

func ExampleParseName() {
	name, err := layout.ParseName("Pyramid")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(name)
	fmt.Println(layout.Names())
	// Output:
	// tetrahedron
	// [table sphere helix grid tetrahedron]
}
