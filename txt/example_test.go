// SPDX-License-Identifier: MIT

package txt_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/katalvlaran/ct/model"
	"github.com/katalvlaran/ct/primals"
	"github.com/katalvlaran/ct/txt"
)

func ExampleFormat() {
	in := `H 0 1 -2
H 1 2 -2
APP 3 1 1
DISAPP 4 1 1
APP 5 2 1
DISAPP 6 2 1
MOVE 7 1 2 0
`
	m, bm, err := txt.Convert(txt.NewReader(strings.NewReader(in)))
	if err != nil {
		fmt.Println(err)
		return
	}
	p := primals.New(m)
	_ = p.SetDetection(0, 0, true)
	_ = p.SetDetection(1, 0, true)
	_ = p.SetTransition(model.TransitionKey{Timestep: 0, From: 0, To: 0}, true)

	if err := txt.Format(os.Stdout, p, bm); err != nil {
		fmt.Println(err)
	}
	// Output:
	// APP 3
	// H 1
	// H 2
	// DISAPP 6
	// MOVE 7
}
