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

package redact

import (
	"sort"
	"strings"
)

// DefaultFields is the fixed set of sensitive substrings. Matching is
// case-insensitive and anywhere in the metric name.
var DefaultFields = []string{
	"system name",
	"system description",
	"host name",
	"ip address",
	"mac address",
	"serial number",
	"redacted",
}

var defaultPolicy = NewPolicy()

// Policy decides whether a metric name is sensitive.
// A Policy is immutable once built and safe for concurrent use.
type Policy struct {
	fields []string
}

// NewPolicy returns a Policy matching DefaultFields plus any extra substrings.
// Extra entries are trimmed and lower-cased; empty entries and duplicates are ignored.
func NewPolicy(extra ...string) *Policy {
	seen := make(map[string]struct{}, len(DefaultFields)+len(extra))
	fields := make([]string, 0, len(DefaultFields)+len(extra))

	add := func(f string) {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			return
		}
		if _, ok := seen[f]; ok {
			return
		}
		seen[f] = struct{}{}
		fields = append(fields, f)
	}

	for _, f := range DefaultFields {
		add(f)
	}
	for _, f := range extra {
		add(f)
	}

	return &Policy{fields: fields}
}

// ShouldRedact reports whether metricName contains any sensitive substring.
func (p *Policy) ShouldRedact(metricName string) bool {
	if p == nil {
		p = defaultPolicy
	}
	lower := strings.ToLower(metricName)
	for _, f := range p.fields {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

// Fields returns the sorted substrings the policy matches.
func (p *Policy) Fields() []string {
	if p == nil {
		p = defaultPolicy
	}
	out := make([]string, len(p.fields))
	copy(out, p.fields)
	sort.Strings(out)
	return out
}

// ShouldRedact applies the default policy.
func ShouldRedact(metricName string) bool {
	return defaultPolicy.ShouldRedact(metricName)
}
