// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cleaner

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var embeddedRules []byte

// RuleFile is the on-disk rule format.
type RuleFile struct {
	Rules []Rule `yaml:"rules"`
}

// Rule is a named group of replacement patterns.
type Rule struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Priority    int       `yaml:"priority"`
	Optional    bool      `yaml:"optional"`
	Patterns    []Pattern `yaml:"patterns"`
}

// Pattern is one regular expression and its replacement template.
type Pattern struct {
	ID          string `yaml:"id"`
	Regex       string `yaml:"regex"`
	Replacement string `yaml:"replacement"`

	compiled *regexp.Regexp
}

// ParseRules decodes, compiles and sorts a rule file by descending priority.
func ParseRules(data []byte) ([]Rule, error) {
	var f RuleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rules: %w", err)
	}
	for i := range f.Rules {
		for j := range f.Rules[i].Patterns {
			p := &f.Rules[i].Patterns[j]
			re, err := regexp.Compile(p.Regex)
			if err != nil {
				return nil, fmt.Errorf("failed to compile rule %s/%s: %w", f.Rules[i].Name, p.ID, err)
			}
			p.compiled = re
		}
	}
	sort.SliceStable(f.Rules, func(i, j int) bool {
		return f.Rules[i].Priority > f.Rules[j].Priority
	})
	return f.Rules, nil
}

// DefaultRules returns the embedded rules.
func DefaultRules() []Rule {
	rules, err := ParseRules(embeddedRules)
	if err != nil {
		// embedded at build time
		panic(err)
	}
	return rules
}
