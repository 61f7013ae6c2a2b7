package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTools_Names(t *testing.T) {
	tb := New(&fakeFetcher{}, nil).Tools()

	names := make([]string, 0, 4)
	for _, tool := range tb.Tools() {
		names = append(names, tool.Name)
		assert.True(t, json.Valid(tool.InputSchema), tool.Name)
	}

	assert.Equal(t, []string{"classify", "factor", "health", "lotto_factor"}, names)
}

func TestTools_Factor(t *testing.T) {
	f := &fakeFetcher{body: `{"factors":[7,13]}`}
	tb := New(f, nil).Tools()

	out, err := tb.Call(context.Background(), "factor", json.RawMessage(`{"n":91,"timeout_ms":"200"}`))
	require.NoError(t, err)

	assert.JSONEq(t, `{"factors":[7,13]}`, out)
	require.Len(t, f.targets, 1)
	assert.Equal(t, "/api/factor?n=91&timeout_ms=200", f.targets[0])
}

func TestTools_MissingN(t *testing.T) {
	f := &fakeFetcher{}
	tb := New(f, nil).Tools()

	_, err := tb.Call(context.Background(), "classify", json.RawMessage(`{"n":null}`))
	assert.EqualError(t, err, "classify: Provide n")
	assert.Zero(t, f.calls())
}

func TestTools_InvalidInput(t *testing.T) {
	tb := New(&fakeFetcher{}, nil).Tools()

	_, err := tb.Call(context.Background(), "factor", json.RawMessage(`{"n":true}`))
	assert.ErrorContains(t, err, "factor: invalid input")
}

func TestTools_Lotto(t *testing.T) {
	f := &fakeFetcher{body: `{"result":"factors"}`}
	tb := New(f, nil).Tools()

	_, err := tb.Call(context.Background(), "lotto_factor", json.RawMessage(`{"n":"91","budget_ms":250,"rho_restarts":8}`))
	require.NoError(t, err)

	require.Len(t, f.inits, 1)
	assert.JSONEq(t, `{"n":"91","budget_ms":250,"rho_restarts":8,"schedule":"luby"}`, string(f.inits[0].Body))
}

func TestTools_CallError(t *testing.T) {
	f := &fakeFetcher{err: errors.New("fetch: do request: timeout")}
	tb := New(f, nil).Tools()

	_, err := tb.Call(context.Background(), "factor", json.RawMessage(`{"n":"91"}`))
	assert.EqualError(t, err, "fetch: do request: timeout")
}

func TestTools_Health(t *testing.T) {
	f := &fakeFetcher{err: io.ErrUnexpectedEOF}
	tb := New(f, nil).Tools()

	out, err := tb.Call(context.Background(), "health", nil)
	require.NoError(t, err)
	assert.Equal(t, "unreachable", out)
}
