// SPDX-License-Identifier: MIT

package bfs_test

import (
	"fmt"

	"github.com/katalvlaran/ct/bfs"
)

// ExampleWalk groups a division {0,1,2} and a chain 3–4 into two components.
func ExampleWalk() {
	res, err := bfs.Walk(5, [][]int{{0, 1, 2}, {4, 3}})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Order, res.Components, res.Component)
	// Output:
	// [0 1 2 3 4] 2 [0 0 0 1 1]
}
