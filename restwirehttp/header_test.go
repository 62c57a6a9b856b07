// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwirehttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderAddResponse(t *testing.T) {
	testData := []struct {
		description string
		src         http.Header
		expected    http.Header
	}{
		{
			description: "Nil",
			expected:    http.Header{},
		},
		{
			description: "Canonicalized",
			src:         http.Header{"x-served-by": {"restwire"}},
			expected:    http.Header{"X-Served-By": {"restwire"}},
		},
		{
			description: "MultiValued",
			src:         http.Header{"X-Served-By": {"one", "two"}, "x-region": {"east"}},
			expected:    http.Header{"X-Served-By": {"one", "two"}, "X-Region": {"east"}},
		},
	}

	for _, record := range testData {
		t.Run(record.description, func(t *testing.T) {
			var (
				assert   = assert.New(t)
				header   = NewHeader(record.src)
				response = httptest.NewRecorder()
				called   bool

				next = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
					called = true
				})
			)

			assert.Equal(len(record.expected), header.Len())
			header.AddResponse(next).ServeHTTP(response, httptest.NewRequest("GET", "/", nil))
			assert.True(called)
			assert.Equal(record.expected, response.Header())
		})
	}
}

func TestHeaderAddResponseOverride(t *testing.T) {
	var (
		assert   = assert.New(t)
		header   = NewHeader(http.Header{"Server": {"configured"}})
		response = httptest.NewRecorder()
	)

	header.AddResponse(
		http.HandlerFunc(func(response http.ResponseWriter, _ *http.Request) {
			assert.Equal("configured", response.Header().Get("Server"))
			response.Header().Set("Server", "handler")
		}),
	).ServeHTTP(response, httptest.NewRequest("GET", "/", nil))

	assert.Equal("handler", response.Header().Get("Server"))
}

type countingHandler struct {
	calls int
}

func (ch *countingHandler) ServeHTTP(http.ResponseWriter, *http.Request) {
	ch.calls++
}

func TestHeaderEmptyIsUndecorated(t *testing.T) {
	var (
		assert = assert.New(t)
		next   = new(countingHandler)
	)

	assert.Equal(0, NewHeader(nil).Len())
	assert.Same(next, NewHeader(nil).AddResponse(next))
	assert.Same(next, NewHeader(http.Header{"X-Empty": {}}).AddResponse(next))
}
