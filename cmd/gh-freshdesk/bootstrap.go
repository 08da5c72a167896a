package main

import (
	"context"
	"fmt"

	"github.com/optz/gh-freshdesk/internal/adapters/driven/config"
	"github.com/optz/gh-freshdesk/internal/adapters/driven/responders"
	"github.com/optz/gh-freshdesk/internal/adapters/driven/storage/memory"
	"github.com/optz/gh-freshdesk/internal/adapters/driven/storage/sqlite"
	"github.com/optz/gh-freshdesk/internal/adapters/driving/cli"
	"github.com/optz/gh-freshdesk/internal/connectors/freshdesk"
	"github.com/optz/gh-freshdesk/internal/connectors/github"
	"github.com/optz/gh-freshdesk/internal/core/ports/driven"
	"github.com/optz/gh-freshdesk/internal/core/services"
	"github.com/optz/gh-freshdesk/internal/logger"
	"github.com/optz/gh-freshdesk/internal/normalisers/markdown"
)

// bootstrap loads configuration and wires adapters into the services.
func bootstrap(ctx context.Context, opts config.LoadOptions) (*cli.Services, error) {
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}

	ghCfg := cfg.GitHubConnector()
	if err := ghCfg.Validate(); err != nil {
		return nil, err
	}
	ghClient, err := github.NewClient(ctx, ghCfg)
	if err != nil {
		return nil, fmt.Errorf("github client: %w", err)
	}
	source := github.New(ghClient, ghCfg)

	fdCfg := cfg.FreshdeskClient()
	if err := fdCfg.Validate(); err != nil {
		return nil, err
	}
	desk := freshdesk.NewClient(fdCfg)

	directory, err := responderDirectory(cfg.Responders.File)
	if err != nil {
		return nil, err
	}

	journal, closeJournal, err := openJournal(cfg.Journal.Path)
	if err != nil {
		return nil, err
	}

	builder := services.NewTicketBuilder(cfg.TicketTemplate(), markdown.New(), directory)
	controller := services.NewController(source, desk, builder, journal, ghCfg.BotLogin)

	logger.Debug("Migrating %s to %s", ghCfg.FullName(), fdCfg.BaseURL)

	return &cli.Services{
		Migrator: controller,
		History:  controller,
		Agents:   desk,
		Close:    closeJournal,
	}, nil
}

// responderDirectory checks ASSIGNEE_MAP_<login> first, then the file.
func responderDirectory(path string) (driven.ResponderDirectory, error) {
	chain := responders.Chain{responders.NewEnvDirectory()}
	if path == "" {
		return chain, nil
	}
	file, err := responders.NewFileDirectory(path)
	if err != nil {
		return nil, err
	}
	return append(chain, file), nil
}

func openJournal(path string) (driven.MigrationJournal, func() error, error) {
	if path == "" {
		logger.Debug("JOURNAL_PATH not set, keeping the journal in memory")
		return memory.NewJournal(), func() error { return nil }, nil
	}
	store, err := sqlite.NewStore(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}
	return store.Journal(), func() error {
		if err := store.Close(); err != nil {
			return fmt.Errorf("close journal %s: %w", store.Path(), err)
		}
		return nil
	}, nil
}
