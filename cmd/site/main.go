package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	site "github.com/arshadyaseen/site"
	"github.com/arshadyaseen/site/internal/logger"
	"github.com/arshadyaseen/site/scaffold"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := loadDotenv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.InitFromEnv("LOG_LEVEL")

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := runServe(); err != nil {
			logger.Log.Errorf("serve: %v", err)
			os.Exit(1)
		}
	case "new-post":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: site new-post <title>")
			os.Exit(1)
		}
		if err := runNewPost(strings.Join(os.Args[2:], " ")); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("site %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app := site.New(cfg)
	defer app.Close()
	if err := app.Init(); err != nil {
		return err
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SIGHUP re-imports posts without a restart.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	errc := make(chan error, 1)
	go func() {
		errc <- app.Serve()
	}()

	for {
		select {
		case err := <-errc:
			return err
		case <-hup:
			if err := app.Reload(); err != nil {
				logger.Log.Errorf("reload posts: %v", err)
			}
		case <-shutdownCtx.Done():
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.Warnf("graceful shutdown failed: %v", err)
			}
			return nil
		}
	}
}

func runNewPost(title string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := scaffold.WritePost(cfg.ContentDir, scaffold.Post{
		Title:       title,
		Slug:        site.Slugify(title),
		PublishedAt: time.Now().Format("2006-01-02"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %s\n", path)
	fmt.Println("Set draft: false in the frontmatter to publish it.")
	return nil
}

func printUsage() {
	fmt.Println(`site - Arshad Yaseen's personal website

Usage:
  site [command] [arguments]

Commands:
  serve              Start the web server (default); SIGHUP reloads posts
  new-post <title>   Create a draft markdown post in the content directory
  version            Print the version
  help               Show this help message

Configuration is read from .env, an optional site.yaml (SITE_CONFIG
overrides the path) and environment variables.`)
}
