package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientWithoutKeyIsNil(t *testing.T) {
	assert.Nil(t, NewClient("", "farmbook"))
	assert.Nil(t, NewClient("   ", "farmbook"))
	assert.NotNil(t, NewClient("key-123", "farmbook"))
}

func TestNilClientSendFails(t *testing.T) {
	var c *Client
	err := c.Send(context.Background(), "+233200000000", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL("key-123", "farmbook", srv.URL)
}

func TestSendEncodesGatewayQuery(t *testing.T) {
	var got url.Values
	c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{"code":"ok","message":"Successfully Sent"}`))
	})

	require.NoError(t, c.Send(context.Background(), "+233200000000", "egg prices updated"))
	assert.Equal(t, "send-sms", got.Get("action"))
	assert.Equal(t, "key-123", got.Get("api_key"))
	assert.Equal(t, "+233200000000", got.Get("to"))
	assert.Equal(t, "farmbook", got.Get("from"))
	assert.Equal(t, "egg prices updated", got.Get("sms"))
	assert.Equal(t, "plain", got.Get("type"))
}

func TestSendStructuredSuccessByStatus(t *testing.T) {
	c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success"}`))
	})
	assert.NoError(t, c.Send(context.Background(), "+233200000000", "hello"))
}

func TestSendStructuredErrorCarriesReason(t *testing.T) {
	c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"109","message":"Insufficient balance"}`))
	})

	err := c.Send(context.Background(), "+233200000000", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient balance")
	assert.Contains(t, err.Error(), "code 109")
}

func TestSendPlainTextResponses(t *testing.T) {
	ok := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	assert.NoError(t, ok.Send(context.Background(), "+233200000000", "hello"))

	down := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway offline", http.StatusBadGateway)
	})
	err := down.Send(context.Background(), "+233200000000", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "gateway offline")
}

func TestSendValidatesInputs(t *testing.T) {
	c := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	assert.Error(t, c.Send(context.Background(), "", "hello"))
	assert.Error(t, c.Send(context.Background(), "+233200000000", "   "))
}
