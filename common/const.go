// Copyright 2025 The multiparts Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

const (
	// App is the program name, used in metric namespaces and log tags.
	App = "multiparts"

	// Version is the fallback build version when no linker flags were set.
	Version = "v0.1.0"

	// DefaultReadBufferSize is a default read buffer size in bytes. The
	// multipart package's delimited reader does not read it; it sizes its
	// own buffer with a separate constant of the same value.
	DefaultReadBufferSize = 4096
)
