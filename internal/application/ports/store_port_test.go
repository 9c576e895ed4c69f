package ports_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain"
)

func TestSplitPath(t *testing.T) {
	cases := []struct {
		path, collection, key string
		ok                    bool
	}{
		{"users", "users", "", true},
		{"users/admin", "users", "admin", true},
		{"/menu/", "menu", "", true},
		{"", "", "", false},
		{"a//b", "", "", false},
		{"a/b/c", "", "", false},
	}
	for _, c := range cases {
		collection, key, err := ports.SplitPath(c.path)
		if !c.ok {
			assert.True(t, errors.Is(err, domain.ErrValidation), c.path)
			continue
		}
		require.NoError(t, err, c.path)
		assert.Equal(t, c.collection, collection)
		assert.Equal(t, c.key, key)
	}
}

func TestSnapshot_ChildrenOrdenadosPorClave(t *testing.T) {
	snap := ports.Snapshot{Path: "orders", Exists: true, Value: json.RawMessage(`{"b":1,"a":2,"c":3}`)}

	children, err := snap.Children()
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, "a", children[0].Key)
	assert.Equal(t, "b", children[1].Key)
	assert.Equal(t, "c", children[2].Key)
}

func TestSnapshot_InexistenteNoDecodifica(t *testing.T) {
	var v map[string]string
	require.NoError(t, ports.Snapshot{Path: "users/x"}.Decode(&v))
	assert.Nil(t, v)

	children, err := ports.Snapshot{Path: "users"}.Children()
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestMergeFields(t *testing.T) {
	out, err := ports.MergeFields(json.RawMessage(`{"name":"Es Teh","price":5000}`), map[string]any{"price": 6000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Es Teh","price":6000}`, string(out))

	out, err = ports.MergeFields(nil, map[string]any{"name": "Baru"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Baru"}`, string(out))

	_, err = ports.MergeFields(json.RawMessage(`[1,2]`), map[string]any{"x": 1})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
