// Package rendertest provides a recording Renderer for tests: element and
// text creation, attribute, property, class, style, value and listener
// operations are logged as flat op strings so assertions can compare exactly
// what change detection touched. Comment creation and tree insertion or
// removal are not logged.
package rendertest

import (
	"fmt"

	viewruntime "github.com/wippyai/view-runtime"
)

// Node is a minimal host node.
type Node struct {
	Tag      string
	Text     string
	Comment  bool
	Attrs    map[string]string
	Props    map[string]any
	Classes  map[string]bool
	Styles   map[string]string
	Children []*Node
	Parent   *Node

	id int
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Comment {
		return fmt.Sprintf("#comment%d", n.id)
	}
	if n.Tag == "" {
		return fmt.Sprintf("#text%d", n.id)
	}
	return fmt.Sprintf("%s%d", n.Tag, n.id)
}

// Factory creates recording renderers that share one op log.
type Factory struct {
	Ops       []string
	Host      *Node
	Destroyed int
	Begun     int
	Ended     int

	// listeners by node and event name
	Listeners map[*Node]map[string]func(any)

	nextID int
}

// NewFactory creates a factory with a fresh host node.
func NewFactory() *Factory {
	f := &Factory{Listeners: make(map[*Node]map[string]func(any))}
	f.Host = f.newNode("host")
	return f
}

func (f *Factory) newNode(tag string) *Node {
	f.nextID++
	return &Node{
		Tag:     tag,
		Attrs:   map[string]string{},
		Props:   map[string]any{},
		Classes: map[string]bool{},
		Styles:  map[string]string{},
		id:      f.nextID,
	}
}

func (f *Factory) CreateRenderer(host viewruntime.NativeElement, typ *viewruntime.RendererType) viewruntime.Renderer {
	return &Renderer{f: f}
}

// Begin implements viewruntime.RenderCycleHooks.
func (f *Factory) Begin() { f.Begun++ }

// End implements viewruntime.RenderCycleHooks.
func (f *Factory) End() { f.Ended++ }

func (f *Factory) log(format string, args ...any) {
	f.Ops = append(f.Ops, fmt.Sprintf(format, args...))
}

// TakeOps returns the recorded ops and clears the log.
func (f *Factory) TakeOps() []string {
	ops := f.Ops
	f.Ops = nil
	return ops
}

// Fire dispatches an event to the node's registered listener.
func (f *Factory) Fire(n *Node, event string, payload any) bool {
	if handlers, ok := f.Listeners[n]; ok {
		if h, ok := handlers[event]; ok {
			h(payload)
			return true
		}
	}
	return false
}

// FindByTag returns the first node with the tag, in document order.
func (f *Factory) FindByTag(tag string) *Node {
	var walk func(n *Node) *Node
	walk = func(n *Node) *Node {
		if n.Tag == tag {
			return n
		}
		for _, c := range n.Children {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(f.Host)
}

// Renderer records its logged operations on the shared factory log.
type Renderer struct {
	f *Factory
}

func (r *Renderer) CreateElement(name, namespace string) viewruntime.NativeElement {
	n := r.f.newNode(name)
	r.f.log("createElement(%s)", n)
	return n
}

func (r *Renderer) CreateText(value string) viewruntime.NativeElement {
	n := r.f.newNode("")
	n.Text = value
	r.f.log("createText(%q)", value)
	return n
}

func (r *Renderer) CreateComment(value string) viewruntime.NativeElement {
	n := r.f.newNode("")
	n.Comment = true
	n.Text = value
	return n
}

func (r *Renderer) SelectRootElement(selectorOrNode any, preserveContent bool) viewruntime.NativeElement {
	if n, ok := selectorOrNode.(*Node); ok {
		return n
	}
	if !preserveContent {
		r.f.Host.Children = nil
	}
	return r.f.Host
}

func (r *Renderer) SetProperty(el viewruntime.NativeElement, name string, value any) {
	n := el.(*Node)
	n.Props[name] = value
	r.f.log("setProperty(%s, %s, %v)", n, name, value)
}

func (r *Renderer) SetAttribute(el viewruntime.NativeElement, name, value, namespace string) {
	n := el.(*Node)
	n.Attrs[name] = value
	r.f.log("setAttribute(%s, %s, %s)", n, name, value)
}

func (r *Renderer) RemoveAttribute(el viewruntime.NativeElement, name, namespace string) {
	n := el.(*Node)
	delete(n.Attrs, name)
	r.f.log("removeAttribute(%s, %s)", n, name)
}

func (r *Renderer) SetValue(node viewruntime.NativeElement, value string) {
	n := node.(*Node)
	n.Text = value
	r.f.log("setValue(%s, %q)", n, value)
}

func (r *Renderer) AddClass(el viewruntime.NativeElement, name string) {
	n := el.(*Node)
	n.Classes[name] = true
	r.f.log("addClass(%s, %s)", n, name)
}

func (r *Renderer) RemoveClass(el viewruntime.NativeElement, name string) {
	n := el.(*Node)
	delete(n.Classes, name)
	r.f.log("removeClass(%s, %s)", n, name)
}

func (r *Renderer) SetStyle(el viewruntime.NativeElement, style, value string) {
	n := el.(*Node)
	n.Styles[style] = value
	r.f.log("setStyle(%s, %s, %s)", n, style, value)
}

func (r *Renderer) RemoveStyle(el viewruntime.NativeElement, style string) {
	n := el.(*Node)
	delete(n.Styles, style)
	r.f.log("removeStyle(%s, %s)", n, style)
}

func (r *Renderer) AppendChild(parent, child viewruntime.NativeElement) {
	p, c := parent.(*Node), child.(*Node)
	p.Children = append(p.Children, c)
	c.Parent = p
}

func (r *Renderer) InsertBefore(parent, child, ref viewruntime.NativeElement) {
	c, anchor := child.(*Node), ref.(*Node)
	p, _ := parent.(*Node)
	if p == nil {
		p = anchor.Parent
	}
	if p == nil {
		return
	}
	for i, existing := range p.Children {
		if existing == anchor {
			p.Children = append(p.Children, nil)
			copy(p.Children[i+1:], p.Children[i:])
			p.Children[i] = c
			c.Parent = p
			return
		}
	}
	p.Children = append(p.Children, c)
	c.Parent = p
}

func (r *Renderer) RemoveChild(parent, child viewruntime.NativeElement) {
	c := child.(*Node)
	p, _ := parent.(*Node)
	if p == nil {
		p = c.Parent
	}
	if p == nil {
		return
	}
	for i, existing := range p.Children {
		if existing == c {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			c.Parent = nil
			return
		}
	}
}

func (r *Renderer) Listen(el viewruntime.NativeElement, event string, handler func(event any)) func() {
	n := el.(*Node)
	if r.f.Listeners[n] == nil {
		r.f.Listeners[n] = map[string]func(any){}
	}
	r.f.Listeners[n][event] = handler
	r.f.log("listen(%s, %s)", n, event)
	return func() {
		delete(r.f.Listeners[n], event)
		r.f.log("unlisten(%s, %s)", n, event)
	}
}

func (r *Renderer) Destroy() {
	r.f.Destroyed++
}
