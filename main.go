package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
)

func init() {
	// GLFW, GTK and the GL context belong to the main thread.
	runtime.LockOSThread()
}

func main() {
	cfg, err := parseConfig(os.Args[0], os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Println(err)
		os.Exit(2)
	}

	signalContext, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mainContext, mainQuit := context.WithCancelCause(signalContext)
	mainQuit(run(mainContext, cfg))

	if err := context.Cause(mainContext); err != nil && !errors.Is(err, context.Canceled) {
		log.Println(err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) error {
	switch {
	case cfg.Render != "":
		return renderHeadless(ctx, cfg)
	case cfg.Backend == backendGTK:
		return gtkMain(ctx, cfg)
	default:
		return glfwMain(ctx, cfg)
	}
}
