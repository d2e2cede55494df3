//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/campushelp/faqbot/internal/bootstrap"
	"github.com/campushelp/faqbot/internal/infra/config"
	httpiface "github.com/campushelp/faqbot/internal/interface/http"
	"github.com/campushelp/faqbot/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideFAQConfig,
		provideEmbedder,
		provideSnapshotter,
		provideQueryLog,
		provideStats,
		provideLineExtractor,
		provideArchive,
		provideFAQService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
