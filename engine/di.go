package engine

import (
	viewruntime "github.com/wippyai/view-runtime"
	"github.com/wippyai/view-runtime/view"
)

// NodeInjectorGet resolves a dependency token at a node: first against the
// directive types published on the node and its ancestors during
// resolution, then against the view's injector. Resolution climbs into the
// declaration parent chain the way the node injector tree mirrors the
// component hierarchy.
func NodeInjectorGet(lView *view.LView, tNode *view.TNode, token any, flags viewruntime.InjectFlags) any {
	node := tNode
	currentView := lView

	if flags&viewruntime.InjectSkipSelf != 0 && node != nil {
		node = node.Parent
	}

	for currentView != nil {
		for node != nil {
			if idx, ok := node.DirectiveTokens[token]; ok {
				return currentView.At(idx)
			}
			if flags&viewruntime.InjectSelf != 0 {
				node = nil
				break
			}
			node = node.Parent
		}
		if flags&(viewruntime.InjectSelf|viewruntime.InjectHost) != 0 {
			break
		}
		// Cross the view boundary through the host node.
		host := currentView.THost()
		currentView = currentView.DeclarationView()
		node = host
	}

	if injector := lView.Injector(); injector != nil {
		return injector.Get(token, nil, flags)
	}
	return nil
}
