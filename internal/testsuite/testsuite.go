// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package testsuite provides access to conversion examples
// for the markup dialect with the custom class extension enabled.
package testsuite

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// Example is a single conversion example.
type Example struct {
	Name    string
	Markup  string
	HTML    string
	Example int
	Section string
}

//go:embed examples.json
var examplesData []byte

// Load returns the conversion examples.
func Load() ([]Example, error) {
	var examples []Example
	if err := json.Unmarshal(examplesData, &examples); err != nil {
		return nil, fmt.Errorf("load examples: %w", err)
	}
	return examples, nil
}

// LoadSection returns the conversion examples in the given section.
func LoadSection(section string) ([]Example, error) {
	examples, err := Load()
	if err != nil {
		return nil, err
	}
	filtered := examples[:0]
	for _, ex := range examples {
		if ex.Section == section {
			filtered = append(filtered, ex)
		}
	}
	return filtered, nil
}
