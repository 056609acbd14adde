// Copyright 2025 samber.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://github.com/samber/ro/blob/main/licenses/LICENSE.apache.md
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rxbackpressure

// Base tags the index space a flowable's elements are drawn from, and Equal
// tells whether two tags denote the same index space. Range attaches one to
// its Subscription. No operator in this package reads it: Zip,
// ControlledZip and Match take plain Observables, and Match always pairs
// elements by comparing them.
type Base interface {
	// Equal reports whether other denotes the same index space.
	Equal(other Base) bool
}

// NumericalBase tags a flowable whose elements are indexed 0..N-1, e.g. the
// output of Range(N). Two NumericalBase values are Equal only if N matches.
type NumericalBase int

// Equal implements Base.
func (b NumericalBase) Equal(other Base) bool {
	o, ok := other.(NumericalBase)
	return ok && o == b
}

// Selector translates elements of one flowable's index space into another's,
// registered against a target Base so a later consumer can align both sides
// without repeating the negotiation. Concretely it is an Observable of index
// pairs (left index, right index); operators consuming a Selector zip it
// against their own upstream the same way ControlledZip zips two data
// streams.
type Selector struct {
	Target Base
	Stream Observable[[2]int]
}

// SelectorMap collects the selectors negotiated for a subscription, keyed by
// the Base they translate into. No operator in this package populates it;
// ControlledZip and Match do not negotiate or publish selectors.
type SelectorMap map[Base]Selector

// Merge returns a new SelectorMap containing every entry of m and other;
// entries in other take precedence on key collision, matching how a
// downstream operator's own negotiation supersedes what it inherited.
func (m SelectorMap) Merge(other SelectorMap) SelectorMap {
	if len(m) == 0 {
		return other
	}
	if len(other) == 0 {
		return m
	}

	merged := make(SelectorMap, len(m)+len(other))
	for k, v := range m {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// BaseAndSelectors is the metadata half of a Subscription: the optional Base
// of the subscribed flowable, and whatever selectors were negotiated to
// reach it.
type BaseAndSelectors struct {
	Base      Base
	Selectors SelectorMap
}
