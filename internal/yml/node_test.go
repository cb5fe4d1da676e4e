package yml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func decode(t *testing.T, text string) *Node {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(text), &node); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return (*Node)(&node).Root()
}

func TestNode_Strings(t *testing.T) {
	testCases := []struct {
		description string
		document    string
		expect      []string
		expectErr   bool
	}{
		{description: "scalar", document: "key: 0-3", expect: []string{"0-3"}},
		{description: "integer scalar", document: "key: 2", expect: []string{"2"}},
		{description: "sequence", document: "key: [\"0-1\", \"2-3\"]", expect: []string{"0-1", "2-3"}},
		{description: "empty string", document: "key: \"\"", expect: nil},
		{description: "null", document: "key:", expect: nil},
		{description: "nested sequence", document: "key: [[1]]", expectErr: true},
		{description: "mapping", document: "key: {a: 1}", expectErr: true},
	}
	for _, testCase := range testCases {
		root := decode(t, testCase.document)
		actual, err := root.Lookup("key").Strings()
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestNode_Int(t *testing.T) {
	root := decode(t, "a: -1\nb: three\nc: [1]")
	value, err := root.Lookup("a").Int()
	assert.NoError(t, err)
	assert.Equal(t, -1, value)

	_, err = root.Lookup("b").Int()
	assert.Error(t, err)
	_, err = root.Lookup("c").Int()
	assert.Error(t, err)
}

func TestNode_Lookup(t *testing.T) {
	root := decode(t, "vars:\n  a: 1\ntasks: []")
	assert.NotNil(t, root.Lookup("vars"))
	assert.NotNil(t, root.Lookup("tasks"))
	assert.Nil(t, root.Lookup("missing"))
	assert.True(t, root.Lookup("missing").IsNull())

	var keys []string
	err := root.Lookup("vars").Pairs(func(key string, _ *Node) error {
		keys = append(keys, key)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"a"}, keys)
}

func TestNode_RootEmptyDocument(t *testing.T) {
	var node yaml.Node
	assert.NoError(t, yaml.Unmarshal([]byte(""), &node))
	root := (*Node)(&node).Root()
	assert.Nil(t, root)
	assert.True(t, root.IsNull())
}

func TestNode_Aliases(t *testing.T) {
	root := decode(t, "base: &base {a: 1, b: 2}\nlist: &list [x, y]\nmerged:\n  <<: *base\n  b: 3\nref: *list\n")
	merged := root.Lookup("merged")
	a, err := merged.Lookup("a").Int()
	assert.NoError(t, err)
	assert.Equal(t, 1, a)
	b, err := merged.Lookup("b").Int()
	assert.NoError(t, err)
	assert.Equal(t, 3, b)

	var keys []string
	assert.NoError(t, merged.Pairs(func(key string, _ *Node) error {
		keys = append(keys, key)
		return nil
	}))
	assert.Equal(t, []string{"a", "b"}, keys)

	values, err := root.Lookup("ref").Strings()
	assert.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, values)
}
