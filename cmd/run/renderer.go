package main

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	viewruntime "github.com/wippyai/view-runtime"
)

// termNode is one node of the terminal render tree.
type termNode struct {
	tag      string // "" for text/comment nodes
	text     string
	comment  bool
	attrs    map[string]string
	props    map[string]any
	styles   map[string]string
	classes  map[string]bool
	children []*termNode
	parent   *termNode
}

func (n *termNode) remove(child *termNode) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// termRenderer implements viewruntime.Renderer against the in-memory tree.
// It also counts operations so the demo can show what change detection
// actually touched.
type termRenderer struct {
	root *termNode
	ops  *opCounter
}

type opCounter struct {
	setProperty int
	setValue    int
	classOps    int
	creates     int
	listeners   map[*termNode]map[string]func(any)
}

func newOpCounter() *opCounter {
	return &opCounter{listeners: make(map[*termNode]map[string]func(any))}
}

// termRendererFactory hands out renderers sharing one tree and counter.
type termRendererFactory struct {
	root *termNode
	ops  *opCounter
}

func newTermRendererFactory() *termRendererFactory {
	return &termRendererFactory{
		root: &termNode{tag: "root"},
		ops:  newOpCounter(),
	}
}

func (f *termRendererFactory) CreateRenderer(host viewruntime.NativeElement, typ *viewruntime.RendererType) viewruntime.Renderer {
	return &termRenderer{root: f.root, ops: f.ops}
}

func newTermNode(tag string) *termNode {
	return &termNode{
		tag:     tag,
		attrs:   map[string]string{},
		props:   map[string]any{},
		styles:  map[string]string{},
		classes: map[string]bool{},
	}
}

func (r *termRenderer) CreateElement(name, namespace string) viewruntime.NativeElement {
	r.ops.creates++
	return newTermNode(name)
}

func (r *termRenderer) CreateText(value string) viewruntime.NativeElement {
	r.ops.creates++
	n := newTermNode("")
	n.text = value
	return n
}

func (r *termRenderer) CreateComment(value string) viewruntime.NativeElement {
	n := newTermNode("")
	n.comment = true
	n.text = value
	return n
}

func (r *termRenderer) SelectRootElement(selectorOrNode any, preserveContent bool) viewruntime.NativeElement {
	if n, ok := selectorOrNode.(*termNode); ok {
		return n
	}
	if !preserveContent {
		r.root.children = nil
	}
	return r.root
}

func (r *termRenderer) SetProperty(el viewruntime.NativeElement, name string, value any) {
	r.ops.setProperty++
	el.(*termNode).props[name] = value
}

func (r *termRenderer) SetAttribute(el viewruntime.NativeElement, name, value, namespace string) {
	el.(*termNode).attrs[name] = value
}

func (r *termRenderer) RemoveAttribute(el viewruntime.NativeElement, name, namespace string) {
	delete(el.(*termNode).attrs, name)
}

func (r *termRenderer) SetValue(node viewruntime.NativeElement, value string) {
	r.ops.setValue++
	node.(*termNode).text = value
}

func (r *termRenderer) AddClass(el viewruntime.NativeElement, name string) {
	r.ops.classOps++
	el.(*termNode).classes[name] = true
}

func (r *termRenderer) RemoveClass(el viewruntime.NativeElement, name string) {
	r.ops.classOps++
	delete(el.(*termNode).classes, name)
}

func (r *termRenderer) SetStyle(el viewruntime.NativeElement, style, value string) {
	el.(*termNode).styles[style] = value
}

func (r *termRenderer) RemoveStyle(el viewruntime.NativeElement, style string) {
	delete(el.(*termNode).styles, style)
}

func (r *termRenderer) AppendChild(parent, child viewruntime.NativeElement) {
	p, c := parent.(*termNode), child.(*termNode)
	p.children = append(p.children, c)
	c.parent = p
}

func (r *termRenderer) InsertBefore(parent, child, ref viewruntime.NativeElement) {
	c, anchor := child.(*termNode), ref.(*termNode)
	p, _ := parent.(*termNode)
	if p == nil {
		p = anchor.parent
	}
	if p == nil {
		return
	}
	for i, existing := range p.children {
		if existing == anchor {
			p.children = append(p.children, nil)
			copy(p.children[i+1:], p.children[i:])
			p.children[i] = c
			c.parent = p
			return
		}
	}
	p.children = append(p.children, c)
	c.parent = p
}

func (r *termRenderer) RemoveChild(parent, child viewruntime.NativeElement) {
	c := child.(*termNode)
	p, _ := parent.(*termNode)
	if p == nil {
		p = c.parent
	}
	if p != nil {
		p.remove(c)
	}
}

func (r *termRenderer) Listen(el viewruntime.NativeElement, event string, handler func(event any)) func() {
	n := el.(*termNode)
	if r.ops.listeners[n] == nil {
		r.ops.listeners[n] = map[string]func(any){}
	}
	r.ops.listeners[n][event] = handler
	return func() {
		delete(r.ops.listeners[n], event)
	}
}

func (r *termRenderer) Destroy() {}

// fire dispatches an event to the first listener registered for it,
// searching the tree in document order.
func (f *termRendererFactory) fire(event string, payload any) bool {
	var found func(any)
	var walk func(n *termNode) bool
	walk = func(n *termNode) bool {
		if handlers, ok := f.ops.listeners[n]; ok {
			if h, ok := handlers[event]; ok {
				found = h
				return true
			}
		}
		for _, c := range n.children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if !walk(f.root) || found == nil {
		return false
	}
	found(payload)
	return true
}

var (
	tagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
	attrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	textStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	classStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))
)

// renderTree pretty-prints the node tree, one node per line.
func renderTree(n *termNode, indent int) string {
	var b strings.Builder
	pad := strings.Repeat("  ", indent)

	switch {
	case n.comment:
		// anchors stay invisible
	case n.tag == "":
		b.WriteString(pad)
		b.WriteString(textStyle.Render(n.text))
		b.WriteString("\n")
	default:
		b.WriteString(pad)
		b.WriteString(tagStyle.Render("<" + n.tag))
		if len(n.classes) > 0 {
			names := make([]string, 0, len(n.classes))
			for c := range n.classes {
				names = append(names, c)
			}
			sort.Strings(names)
			b.WriteString(" ")
			b.WriteString(classStyle.Render("." + strings.Join(names, ".")))
		}
		for _, k := range sortedKeys(n.attrs) {
			b.WriteString(" ")
			b.WriteString(attrStyle.Render(k + "=" + n.attrs[k]))
		}
		for _, k := range sortedAnyKeys(n.props) {
			b.WriteString(" ")
			b.WriteString(attrStyle.Render("[" + k + "]"))
		}
		b.WriteString(tagStyle.Render(">"))
		b.WriteString("\n")
	}

	next := indent
	if n.tag != "" && n.tag != "root" {
		next++
	}
	for _, c := range n.children {
		b.WriteString(renderTree(c, next))
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedAnyKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
