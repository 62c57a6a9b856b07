// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package connector

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/restwire"
	"github.com/xmidt-org/restwire/message"
)

func TestNewConnectedResponse(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)
		)

		cr, err := NewConnectedResponse(200, "OK", "10.0.0.5", 8080)
		require.NoError(err)
		require.NotNil(cr)

		assert.Equal(200, cr.Status().Code)
		assert.Equal("OK", cr.Status().ReasonPhrase)
		assert.Equal("10.0.0.5", cr.ServerAddress())
		assert.Equal(8080, cr.ServerPort())
		assert.False(cr.Stamped())
	})

	t.Run("CustomReason", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)
		)

		cr, err := NewConnectedResponse(404, "Nobody Home", "10.0.0.5", 8080)
		require.NoError(err)
		assert.Equal("Not Found", cr.Status().ReasonPhrase)
		assert.Equal("Nobody Home", cr.Status().Description)
		assert.Equal("404 Not Found", cr.Status().String())
	})

	t.Run("EmptyReasonKeepsDescription", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)
		)

		cr, err := NewConnectedResponse(message.StatusConnectorErrorInternal, "", "10.0.0.5", 8080)
		require.NoError(err)
		assert.Equal("Internal Connector Error", cr.Status().ReasonPhrase)
		assert.Equal("The connector encountered an unexpected condition", cr.Status().Description)
	})

	t.Run("InvalidStatusCode", func(t *testing.T) {
		assert := assert.New(t)

		cr, err := NewConnectedResponse(42, "", "10.0.0.5", 8080)
		assert.ErrorIs(err, message.ErrInvalidStatusCode)
		assert.Nil(cr)
	})

	t.Run("MultilineReason", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)
		)

		cr, err := NewConnectedResponse(200, "line one\nline two", "10.0.0.5", 8080)
		require.NoError(err)
		assert.Equal("OK", cr.Status().ReasonPhrase)
		assert.Equal("line one\nline two", cr.Status().Description)
	})
}

func TestConnectedResponseServerInfo(t *testing.T) {
	testData := []struct {
		address string
		port    int
	}{
		{address: "10.0.0.5", port: 8080},
		{address: "::1", port: 443},
		{address: "", port: 0},
	}

	for _, record := range testData {
		t.Run(record.address, func(t *testing.T) {
			var (
				assert  = assert.New(t)
				require = require.New(t)
			)

			cr, err := NewConnectedResponse(200, "OK", record.address, record.port)
			require.NoError(err)

			first := cr.ServerInfo()
			require.NotNil(first)
			assert.True(cr.Stamped())
			assert.Equal(
				message.ServerInfo{
					Address: record.address,
					Port:    record.port,
					Agent:   restwire.Agent,
				},
				*first,
			)

			snapshot := *first
			for i := 0; i < 5; i++ {
				next := cr.ServerInfo()
				assert.Same(first, next)
				assert.Equal(snapshot, *next)
			}
		})
	}
}

func TestConnectedResponseServerInfoNotOverwritten(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	cr, err := NewConnectedResponse(200, "OK", "10.0.0.5", 8080)
	require.NoError(err)

	info := cr.ServerInfo()
	info.Agent = "custom"

	assert.Equal("custom", cr.ServerInfo().Agent)
	assert.Equal("10.0.0.5", cr.ServerInfo().Address)
}

func TestConnectedResponseConcurrentStamp(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		wg      sync.WaitGroup
		results = make([]*message.ServerInfo, 32)
	)

	cr, err := NewConnectedResponse(200, "OK", "192.168.1.1", 9000)
	require.NoError(err)

	wg.Add(len(results))
	for i := range results {
		go func(i int) {
			defer wg.Done()
			results[i] = cr.ServerInfo()
		}(i)
	}

	wg.Wait()
	for _, r := range results {
		assert.Same(results[0], r)
		assert.Equal(
			message.ServerInfo{Address: "192.168.1.1", Port: 9000, Agent: restwire.Agent},
			*r,
		)
	}
}

func TestAddHeader(t *testing.T) {
	t.Run("ConnectedResponse", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)
		)

		cr, err := NewConnectedResponse(200, "OK", "10.0.0.5", 8080)
		require.NoError(err)

		assert.True(AddHeader(cr, "X-Test", "one"))
		assert.True(AddHeader(cr, "X-Test", "two"))
		assert.Equal([]string{"one", "two"}, cr.Headers().Values("X-Test"))
	})

	t.Run("Incompatible", func(t *testing.T) {
		var (
			assert = assert.New(t)
			plain  = message.NewResponse(message.Status{Code: 200})
		)

		assert.NotPanics(func() {
			assert.False(AddHeader(plain, "X-Test", "one"))
			assert.False(AddHeader(nil, "X-Test", "one"))
			assert.False(AddHeader((*ConnectedResponse)(nil), "X-Test", "one"))
			assert.False(AddHeader("not a response", "X-Test", "one"))
		})

		assert.Zero(plain.Headers().Len())
	})
}
