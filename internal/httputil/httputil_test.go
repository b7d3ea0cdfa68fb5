// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sauron/test", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":"CERN"}`)
	}))
	defer ts.Close()

	var out struct {
		Name string `json:"name"`
	}
	err := GetJSON(context.Background(), ts.Client(), "registry", ts.URL, "sauron/test", time.Second, &out)
	require.NoError(t, err)
	assert.Equal(t, "CERN", out.Name)
}

func TestGetJSON_StatusError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusBadGateway, ErrUnavailable},
		{"not found", http.StatusNotFound, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer ts.Close()

			var out map[string]any
			err := GetJSON(context.Background(), ts.Client(), "registry", ts.URL, "", time.Second, &out)
			require.Error(t, err)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, OutcomeStatus, Classify(err))
		})
	}
}

func TestGetJSON_DecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{not json`)
	}))
	defer ts.Close()

	var out map[string]any
	err := GetJSON(context.Background(), ts.Client(), "registry", ts.URL, "", time.Second, &out)
	require.Error(t, err)
	assert.Equal(t, OutcomeDecode, Classify(err))
	assert.Contains(t, err.Error(), "parsing registry response")
}

func TestGetJSON_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	var out map[string]any
	err := GetJSON(context.Background(), ts.Client(), "registry", ts.URL, "", 20*time.Millisecond, &out)
	require.Error(t, err)
	assert.Equal(t, OutcomeTimeout, Classify(err))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, OutcomeOK},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), OutcomeTimeout},
		{"canceled", context.Canceled, OutcomeCanceled},
		{"status", &StatusError{Service: "x", StatusCode: 500}, OutcomeStatus},
		{"decode", &DecodeError{Service: "x", Err: errors.New("bad")}, OutcomeDecode},
		{"other", errors.New("connection refused"), OutcomeTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{Service: "OpenAI API", StatusCode: 401, Body: "invalid key"}
	assert.Equal(t, "OpenAI API returned HTTP 401: invalid key", err.Error())

	err = &StatusError{Service: "INSPIRE API", StatusCode: 503}
	assert.Equal(t, "INSPIRE API returned HTTP 503", err.Error())
}
