package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/lysyi3m/news-feed/app/cfg"
	"github.com/lysyi3m/news-feed/app/content"
	"github.com/lysyi3m/news-feed/app/feed"
	"github.com/lysyi3m/news-feed/app/session"
	"github.com/lysyi3m/news-feed/app/sources"
	"github.com/lysyi3m/news-feed/app/view"
	"golang.org/x/term"
)

type cliOpts struct {
	Detail  int  `long:"detail" description:"Print the detail view of the n-th article (1-based)"`
	Content bool `long:"content" description:"Add extracted page text to the detail view"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, view.NewTerminal(terminalWidth()).Error(err))
		os.Exit(1)
	}
}

func run() error {
	var opts cliOpts
	rest, err := flags.NewParser(&opts, flags.IgnoreUnknown).ParseArgs(os.Args[1:])
	if err != nil {
		return fmt.Errorf("failed to parse options: %w", err)
	}

	appCfg, err := cfg.LoadArgs(rest)
	if err != nil {
		return err
	}
	if appCfg == nil {
		return nil
	}

	level := slog.LevelWarn
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(level)

	registry := sources.NewRegistry(appCfg.SourcesDir)
	if err := registry.Run(); err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}

	source, err := registry.GetSource(appCfg.Source)
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: appCfg.Timeout}
	fetcher := sources.NewFetcher(registry, feed.NewFetcher(httpClient, appCfg.UserAgent))
	feedSession := session.New(session.Config{
		Endpoint: source.URL,
		APIKey:   appCfg.APIKey,
		Policy:   appCfg.SortPolicy,
	}, fetcher)

	ctx := context.Background()
	if err := feedSession.Refresh(ctx); err != nil {
		return err
	}

	terminal := view.NewTerminal(terminalWidth())
	articles := feedSession.Articles()

	if result := feedSession.Result(); result.Status != "" && result.Status != "ok" {
		fmt.Fprintln(os.Stderr, terminal.Error(fmt.Errorf("%s: %s", result.Code, result.Message)))
	}

	if opts.Detail == 0 {
		title := source.Title
		if title == "" {
			title = source.Name
		}
		fmt.Println(terminal.Header(fmt.Sprintf("%s · %s", title, feedSession.Policy())))
		fmt.Println(terminal.List(view.NewSummaries(articles)))
		return nil
	}

	if opts.Detail < 1 || opts.Detail > len(articles) {
		return fmt.Errorf("article %d out of range (1-%d)", opts.Detail, len(articles))
	}
	article := articles[opts.Detail-1]

	var text string
	if opts.Content {
		extractor := content.NewExtractor(httpClient, appCfg.UserAgent, appCfg.Timeout)
		page, err := extractor.Run(ctx, article.URL)
		if err != nil {
			slog.Warn("Content extraction failed", "url", article.URL, "error", err)
		} else {
			text = page.Text
		}
	}

	fmt.Println(terminal.Detail(view.NewDetail(article), text))
	return nil
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}
