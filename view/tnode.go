package view

import (
	"fmt"

	"github.com/wippyai/view-runtime/errors"
)

// TNodeType classifies a logical node. The values are single bits so masks
// like AnyRNode can test families cheaply.
type TNodeType uint8

const (
	TypeText TNodeType = 1 << iota
	TypeElement
	TypeContainer
	TypeElementContainer
	TypeProjection
	TypeIcu
	// TypePlaceholder is a provisional node created while processing
	// translated templates, before the concrete node kind is known. It is
	// the only type that may be upgraded.
	TypePlaceholder

	// AnyRNode matches nodes backed by a renderer node.
	AnyRNode = TypeText | TypeElement
	// AnyContainer matches both container kinds.
	AnyContainer = TypeContainer | TypeElementContainer
)

func (t TNodeType) String() string {
	switch t {
	case TypeText:
		return "Text"
	case TypeElement:
		return "Element"
	case TypeContainer:
		return "Container"
	case TypeElementContainer:
		return "ElementContainer"
	case TypeProjection:
		return "Projection"
	case TypeIcu:
		return "Icu"
	case TypePlaceholder:
		return "Placeholder"
	}
	return fmt.Sprintf("TNodeType(%d)", uint8(t))
}

// TNodeFlags is the per-node shape bitset.
type TNodeFlags uint16

const (
	// FlagIsDirectiveHost is set when at least one directive matched.
	FlagIsDirectiveHost TNodeFlags = 1 << iota
	// FlagIsComponentHost is set when one of the matched directives is a
	// component.
	FlagIsComponentHost
	// FlagHasHostBindings is set when any matched directive contributes
	// host bindings.
	FlagHasHostBindings
	// FlagHasContentQuery is set when any matched directive has content
	// queries.
	FlagHasContentQuery
	// FlagHasClassInput is set when a directive declares "class" as input.
	FlagHasClassInput
	// FlagHasStyleInput is set when a directive declares "style" as input.
	FlagHasStyleInput
	// FlagIsProjected is set once the node has been projected.
	FlagIsProjected
	// FlagIsDetached is set for nodes removed from the render tree while
	// remaining in the shape.
	FlagIsDetached
)

// AliasEntry is one target of a public input/output name.
type AliasEntry struct {
	DirectiveIndex int
	PrivateName    string
}

// AliasMap maps public names to every directive slot bound under that name.
// Two directives binding the same input both appear and receive the value.
type AliasMap map[string][]AliasEntry

// InitialInput is a static attribute captured as an initial directive input.
type InitialInput struct {
	Public  string
	Private string
	Value   string
}

// TNode describes the shape of one logical node. It is shared by every
// instance of the owning TView and sealed after the first creation pass.
type TNode struct {
	Type  TNodeType
	Index int

	// InsertBeforeIndex reorders sibling insertion for translated
	// templates; -1 means document order.
	InsertBeforeIndex int

	// DirectiveStart/DirectiveEnd delimit the half-open expando range
	// holding this node's directive instances.
	DirectiveStart int
	DirectiveEnd   int

	// ComponentOffset is the offset of the component definition within the
	// directive range, or -1 when the node hosts no component.
	ComponentOffset int

	Flags TNodeFlags

	// Tag is the element tag name, or the static text of a text node.
	Tag string

	// Attrs is the marker-encoded static attribute array from the
	// template; MergedAttrs additionally folds in matched directives'
	// host attributes, lowest priority first.
	Attrs       []any
	MergedAttrs []any

	// LocalNames holds (name, index) pairs for local references: the index
	// is a directive slot, or -1 for the native node itself.
	LocalNames []any

	// Inputs and Outputs are the resolved alias tables.
	Inputs  AliasMap
	Outputs AliasMap

	// InitialInputs is keyed by offset within the directive range.
	InitialInputs map[int][]InitialInput

	// DirectiveTokens publishes each matched directive's DI token to the
	// node injector: token -> absolute directive slot index.
	DirectiveTokens map[any]int

	// PropertyBindings lists the binding indices that target properties of
	// this node, in consumption order.
	PropertyBindings []int

	// TView is the embedded template's shape for container nodes.
	TView *TView

	Parent         *TNode
	Child          *TNode
	Next           *TNode
	ProjectionNext *TNode

	// Projection is the index of the projection slot this node was
	// distributed into, or -1.
	Projection int
}

// NewTNode creates an unlinked node descriptor.
func NewTNode(typ TNodeType, index int, tag string, attrs []any) *TNode {
	return &TNode{
		Type:              typ,
		Index:             index,
		InsertBeforeIndex: -1,
		ComponentOffset:   -1,
		Projection:        -1,
		Tag:               tag,
		Attrs:             attrs,
	}
}

// UpgradeType performs the one-shot placeholder upgrade used by late-bound
// translated nodes. Any other type mutation is rejected.
func (n *TNode) UpgradeType(to TNodeType, tag string, attrs []any) error {
	if n.Type != TypePlaceholder {
		return errors.TypeUpgrade(n.Tag, n.Type.String(), to.String())
	}
	if to == TypePlaceholder {
		return errors.TypeUpgrade(n.Tag, n.Type.String(), to.String())
	}
	n.Type = to
	n.Tag = tag
	if n.Attrs == nil {
		n.Attrs = attrs
	}
	return nil
}

// IsDirectiveHost reports whether any directive matched this node.
func (n *TNode) IsDirectiveHost() bool {
	return n.Flags&FlagIsDirectiveHost != 0
}

// IsComponentHost reports whether a component matched this node.
func (n *TNode) IsComponentHost() bool {
	return n.Flags&FlagIsComponentHost != 0
}

// DirectiveCount returns the number of directives attached to the node.
func (n *TNode) DirectiveCount() int {
	return n.DirectiveEnd - n.DirectiveStart
}
