package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	viewruntime "github.com/wippyai/view-runtime"
	"github.com/wippyai/view-runtime/engine"
	"github.com/wippyai/view-runtime/resolver"
	"github.com/wippyai/view-runtime/runtime"
)

func main() {
	var (
		ticks       = flag.Int("ticks", 3, "Number of click+tick cycles to run")
		devMode     = flag.Bool("dev", true, "Enable dev-mode assertions and check-no-changes")
		verbose     = flag.Bool("v", false, "Log runtime internals to stderr")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	viewruntime.SetDevMode(*devMode)
	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		engine.SetLogger(logger)
		resolver.SetLogger(logger)
		runtime.SetLogger(logger)
	}

	if *interactive {
		if err := runInteractive(*devMode); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*ticks, *devMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ticks int, devMode bool) error {
	factory := newTermRendererFactory()
	rt := runtime.New(runtime.WithRendererFactory(factory))
	defer rt.Close()

	ref, err := rt.Bootstrap(appDef(), nil, nil)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	if width > 60 {
		width = 60
	}
	rule := strings.Repeat("─", width)

	fmt.Println("After bootstrap:")
	fmt.Print(renderTree(factory.root, 0))
	fmt.Println(rule)

	for i := 0; i < ticks; i++ {
		factory.fire("click", nil)
		if err := rt.TickAll(); err != nil {
			return fmt.Errorf("tick %d: %w", i+1, err)
		}
		if devMode {
			if err := ref.CheckNoChanges(); err != nil {
				return fmt.Errorf("check-no-changes after tick %d: %w", i+1, err)
			}
		}
	}

	fmt.Printf("\nAfter %d ticks:\n", ticks)
	fmt.Print(renderTree(factory.root, 0))

	app := ref.Component().(*CounterApp)
	fmt.Printf("\nComponent state: count=%d\n", app.Count)
	fmt.Printf("Renderer ops: creates=%d setValue=%d setProperty=%d classOps=%d\n",
		factory.ops.creates, factory.ops.setValue, factory.ops.setProperty, factory.ops.classOps)
	return nil
}
