package yml

import (
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

type (
	Node yaml.Node
)

// Root unwraps a document node into its top-level content node.
func (n *Node) Root() *Node {
	if n == nil || n.Kind == 0 {
		return nil
	}
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		return (*Node)(n.Content[0]).resolve()
	}
	return n.resolve()
}

// resolve follows alias nodes to their anchored value.
func (n *Node) resolve() *Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = (*Node)(n.Alias)
	}
	return n
}

// Lookup returns the value node mapped to name, merge keys included, or nil.
func (n *Node) Lookup(name string) *Node {
	var result *Node
	_ = n.Pairs(func(key string, node *Node) error {
		if key == name {
			result = node
			return errFound
		}
		return nil
	})
	return result
}

var errFound = errors.New("found")

func (n *Node) Items(callback func(index int, node *Node) error) error {
	n = n.resolve()
	if n == nil {
		return nil
	}
	for i := 0; i < len(n.Content); i++ {
		value := n.Content[i]
		nodeValue := (*Node)(value).resolve()
		if err := callback(i, nodeValue); err != nil {
			return err
		}
	}
	return nil
}

// Pairs visits every key of a mapping in document order. Keys pulled in
// with "<<" merge keys are visited in place of the merge key unless the
// mapping sets them itself; with a sequence of merged mappings the first
// one wins.
func (n *Node) Pairs(callback func(key string, node *Node) error) error {
	n = n.resolve()
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	visited := map[string]bool{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if !isMergeKey(n.Content[i]) {
			visited[n.Content[i].Value] = true
		}
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		value := (*Node)(n.Content[i+1]).resolve()
		if !isMergeKey(key) {
			if err := callback(key.Value, value); err != nil {
				return err
			}
			continue
		}
		if err := value.merge(visited, callback); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) merge(visited map[string]bool, callback func(key string, node *Node) error) error {
	var sources []*Node
	switch n.Kind {
	case yaml.MappingNode:
		sources = append(sources, n)
	case yaml.SequenceNode:
		for _, item := range n.Content {
			sources = append(sources, (*Node)(item).resolve())
		}
	default:
		return fmt.Errorf("line %d: merge value must be a mapping or a list of mappings, got %s", n.line(), n.kind())
	}
	for _, source := range sources {
		if source == nil || source.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: merge value must be a mapping, got %s", source.line(), source.kind())
		}
		err := source.Pairs(func(key string, node *Node) error {
			if visited[key] {
				return nil
			}
			visited[key] = true
			return callback(key, node)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func isMergeKey(key *yaml.Node) bool {
	return key.Kind == yaml.ScalarNode && key.Value == "<<" && (key.Tag == "!!merge" || key.Tag == "")
}

// IsNull reports whether the node is absent or an explicit null.
func (n *Node) IsNull() bool {
	n = n.resolve()
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// Scalar returns the literal text of a scalar node.
func (n *Node) Scalar() (string, error) {
	n = n.resolve()
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: expected scalar, got %s", n.line(), n.kind())
	}
	if n.Tag == "!!null" {
		return "", nil
	}
	return n.Value, nil
}

// Strings returns a scalar as a single element slice or every scalar of a
// sequence, preserving order.
func (n *Node) Strings() ([]string, error) {
	n = n.resolve()
	if n.IsNull() {
		return nil, nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		value, _ := n.Scalar()
		if value == "" {
			return nil, nil
		}
		return []string{value}, nil
	case yaml.SequenceNode:
		result := make([]string, 0, len(n.Content))
		err := n.Items(func(_ int, item *Node) error {
			value, err := item.Scalar()
			if err != nil {
				return err
			}
			result = append(result, value)
			return nil
		})
		return result, err
	}
	return nil, fmt.Errorf("line %d: expected scalar or sequence, got %s", n.line(), n.kind())
}

// Int returns an integer scalar.
func (n *Node) Int() (int, error) {
	text, err := n.Scalar()
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("line %d: expected integer, got %q", n.line(), text)
	}
	return value, nil
}

func (n *Node) line() int {
	if n == nil {
		return 0
	}
	return n.Line
}

func (n *Node) kind() string {
	if n == nil {
		return "nothing"
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	}
	return "unknown"
}
