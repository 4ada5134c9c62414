// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"io"

	"github.com/hasys/mapper-xml/cmd/beanwire/cli"
)

// input is one named document.
type input struct {
	name string
	text string
}

// readInputs reads every file in paths, or stdin when paths is empty.
func readInputs(paths []string, stdin io.Reader) ([]input, error) {
	if len(paths) == 0 {
		paths = []string{""}
	}
	inputs := make([]input, 0, len(paths))
	for _, path := range paths {
		data, err := cli.ReadInput(path, stdin)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input{name: displayName(path), text: string(data)})
	}
	return inputs, nil
}
