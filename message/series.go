// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"net/http"
	"strings"
)

// Parameter is a single name/value pair within a Series.
type Parameter struct {
	Name  string
	Value string
}

// Series is an ordered collection of parameters.  Duplicate names are allowed
// and insertion order is preserved.  Name lookups are case insensitive.
//
// The zero value is an empty, usable Series.
type Series struct {
	p []Parameter
}

// Add appends a name/value pair.
func (s *Series) Add(name, value string) {
	s.p = append(s.p, Parameter{Name: name, Value: value})
}

// Len returns the number of pairs, counting duplicates.
func (s *Series) Len() int {
	return len(s.p)
}

// All returns a copy of the pairs in insertion order.
func (s *Series) All() []Parameter {
	return append([]Parameter(nil), s.p...)
}

// First returns the value of the first pair with the given name.
func (s *Series) First(name string) (string, bool) {
	for _, p := range s.p {
		if strings.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}

	return "", false
}

// Values returns every value stored under name, in insertion order.
func (s *Series) Values(name string) (values []string) {
	for _, p := range s.p {
		if strings.EqualFold(p.Name, name) {
			values = append(values, p.Value)
		}
	}

	return
}

// AddTo appends each pair to an http.Header, keeping order and duplicates.
func (s *Series) AddTo(dst http.Header) {
	for _, p := range s.p {
		dst.Add(p.Name, p.Value)
	}
}
