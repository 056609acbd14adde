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

// Package rxbackpressure is a push-based reactive streams runtime with
// explicit, asynchronous back-pressure. A producer pushes discrete Batches
// of elements through a graph of operators to one or more Observers; flow
// control is an Ack reply per Batch rather than a pull-based request, and
// the producer suspends whenever an Ack has not yet resolved.
//
// The package favors the same shape the teacher codebase does: small
// capability-set interfaces (Observer, Observable, Disposable), explicit
// concurrency modes (locking and non-locking subject variants), and
// constructors that
// return interfaces backed by unexported struct implementations.
package rxbackpressure
