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

// Package xerrors joins the errors collected while running a batch of
// teardown or finalizer callbacks, preserving every one of them instead of
// only the first.
package xerrors

import "errors"

// Join wraps the standard library's errors.Join. It is kept as a thin
// indirection so call sites (subscription teardown, disposable composition)
// read the same way they did in the originating codebase and so the join
// strategy can be swapped later without touching every call site.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
