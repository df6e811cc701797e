package main

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/stewi1014/glmandel/export"
)

// progressLogger logs the progress of the current export stage once a
// second until its context is done.
type progressLogger struct {
	mu       sync.Mutex
	stage    string
	progress func() float64
}

func logProgress(ctx context.Context, name string) export.Reporter {
	p := &progressLogger{}
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.mu.Lock()
				if p.progress != nil {
					log.Printf("%v: %v %.0f%%", name, p.stage, p.progress()*100)
				}
				p.mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func(stage string, progress func() float64) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.stage, p.progress = stage, progress
	}
}

// renderHeadless renders the configured view straight to cfg.Render.
func renderHeadless(ctx context.Context, cfg Config) error {
	v, err := NewViewer(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	err = export.Save(
		ctx,
		cfg.Render,
		v.Program(),
		v.Uniforms(),
		cfg.exportOptions(cfg.Width, cfg.Height),
		logProgress(ctx, cfg.Render),
	)
	if err != nil {
		return err
	}

	log.Printf("saved %v", cfg.Render)
	return nil
}
