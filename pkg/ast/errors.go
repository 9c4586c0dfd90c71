// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package ast

import (
	"fmt"
)

// MalformedError reports a tree which does not respect the rules of the
// language, such as an unknown variable or a tuple used where an integer is
// expected.  Errors are attached to the node at fault (where known), such that
// they can be reported against the original source text.
type MalformedError struct {
	// Enclosing function (if known)
	Function string
	// Node at fault (if known)
	Node any
	// Message being reported
	Message string
}

// Malformed constructs an error for a given node with a formatted message.
func Malformed(node any, format string, args ...any) *MalformedError {
	return &MalformedError{"", node, fmt.Sprintf(format, args...)}
}

// In returns this error attached to a given function, unless it is already
// attached to some other function.
func (p *MalformedError) In(function string) *MalformedError {
	if p.Function == "" {
		return &MalformedError{function, p.Node, p.Message}
	}
	//
	return p
}

func (p *MalformedError) Error() string {
	if p.Function == "" {
		return p.Message
	}
	//
	return fmt.Sprintf("%s: %s", p.Function, p.Message)
}
