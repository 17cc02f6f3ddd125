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

package testsuite

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadSection(t *testing.T) {
	all, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, section := range []string{"core", "span", "summary", "details"} {
		examples, err := LoadSection(section)
		if err != nil {
			t.Fatal(err)
		}
		if len(examples) == 0 {
			t.Errorf("LoadSection(%q) is empty", section)
		}
		for _, ex := range examples {
			if ex.Section != section {
				t.Errorf("LoadSection(%q) returned example %d from section %q", section, ex.Example, ex.Section)
			}
		}
		total += len(examples)
	}
	if diff := cmp.Diff(len(all), total); diff != "" {
		t.Errorf("examples across sections (-want +got):\n%s", diff)
	}

	unknown, err := LoadSection("nope")
	if err != nil {
		t.Fatal(err)
	}
	if len(unknown) != 0 {
		t.Errorf("LoadSection(%q) = %d examples; want 0", "nope", len(unknown))
	}
}
