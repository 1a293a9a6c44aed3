package alsasync

import "fmt"

// NodeKind is the shape of a configuration node.
type NodeKind int

const (
	// NodeComponent groups other nodes and cannot be bound to hardware.
	NodeComponent NodeKind = iota
	// NodeParameter is a scalar or array of integers of Size bytes each.
	NodeParameter
	// NodeBitParameterBlock packs bit fields into one integer of Size bytes.
	NodeBitParameterBlock
	// NodeParameterBlock is a structure of child nodes, optionally repeated ArrayLength times.
	NodeParameterBlock
)

var nodeKindNames = map[NodeKind]string{
	NodeComponent:         "component",
	NodeParameter:         "parameter",
	NodeBitParameterBlock: "bit-parameter-block",
	NodeParameterBlock:    "parameter-block",
}

// String returns the lower-case kind name used in configuration documents.
func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}

	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// ParseNodeKind returns the kind with the given name.
func ParseNodeKind(name string) (NodeKind, error) {
	for k, s := range nodeKindNames {
		if s == name {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown node kind %q", ErrUnsupportedType, name)
}

// Node describes the configuration element a blackboard belongs to.
type Node struct {
	Path        string
	Kind        NodeKind
	Size        uint32 // Bytes per scalar, for parameters and bit parameter blocks
	ArrayLength uint32 // Zero for scalars
	Signed      bool
	Children    []*Node
}

// Footprint returns the number of blackboard bytes the node occupies.
func (n *Node) Footprint() uint32 {
	if n == nil {
		return 0
	}

	switch n.Kind {
	case NodeParameter:
		return n.Size * max(n.ArrayLength, 1)
	case NodeBitParameterBlock:
		return n.Size
	case NodeParameterBlock:
		return n.childFootprint() * max(n.ArrayLength, 1)
	default:
		return n.childFootprint()
	}
}

// ScalarWidth returns the byte size of one element. It is zero for node kinds that cannot be
// bound to a control.
func (n *Node) ScalarWidth() uint32 {
	if n == nil {
		return 0
	}

	switch n.Kind {
	case NodeParameter, NodeBitParameterBlock:
		return n.Size
	case NodeParameterBlock:
		return n.Footprint() / max(n.ArrayLength, 1)
	default:
		return 0
	}
}

func (n *Node) childFootprint() uint32 {
	var total uint32
	for _, c := range n.Children {
		total += c.Footprint()
	}

	return total
}
