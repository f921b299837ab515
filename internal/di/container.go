package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-reconciler/internal/adapters/intake"
	"github.com/mikey/email-reconciler/internal/adapters/store"
	"github.com/mikey/email-reconciler/internal/config"
	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/domainpattern"
	"github.com/mikey/email-reconciler/internal/extraction"
	"github.com/mikey/email-reconciler/internal/factory"
	"github.com/mikey/email-reconciler/internal/logging"
	"github.com/mikey/email-reconciler/internal/pipeline"
	"github.com/mikey/email-reconciler/internal/ports"
	"github.com/mikey/email-reconciler/internal/reconcile"
	"github.com/mikey/email-reconciler/internal/shareddomain"
	"github.com/mikey/email-reconciler/internal/utils"
	"github.com/mikey/email-reconciler/internal/validation"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideServices(container); err != nil {
		return nil, err
	}
	return container, nil
}

// BuildContainerFromConfig creates a container around an existing
// configuration
func BuildContainerFromConfig(cfg *config.Config, logger *zap.Logger) (*dig.Container, error) {
	container := dig.New()
	if err := container.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() *zap.Logger { return logger }); err != nil {
		return nil, err
	}
	if err := provideServices(container); err != nil {
		return nil, err
	}
	return container, nil
}

// provideServices registers everything downstream of *config.Config and
// *zap.Logger
func provideServices(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewIntakeFactory); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Register LLM client, nil when no provider is configured
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return err
	}

	// Register store and the ports it serves
	if err := container.Provide(func(f *factory.StoreFactory) (*store.SQLStore, error) {
		return f.CreateStore()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(s *store.SQLStore) core.UserDirectory { return s }); err != nil {
		return err
	}
	if err := container.Provide(func(s *store.SQLStore) core.MsgEmailRepository { return s }); err != nil {
		return err
	}

	// Register pattern cache, nil when disabled
	if err := container.Provide(func(f *factory.CacheFactory) (core.PatternCache, error) {
		return f.CreatePatternCache()
	}); err != nil {
		return err
	}

	// Register shared domain checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *shareddomain.Checker {
		domains := cfg.GetSharedDomains()
		if len(domains) > 0 {
			logger.Info("Loaded shared domains", zap.Strings("domains", domains))
		}
		return shareddomain.NewChecker(domains, logger)
	}); err != nil {
		return err
	}

	// Register domain analyzer
	if err := container.Provide(func(
		cfg *config.Config,
		directory core.UserDirectory,
		shared *shareddomain.Checker,
		cache core.PatternCache,
		logger *zap.Logger,
	) (core.DomainAnalyzer, error) {
		cacheCfg, err := cfg.GetCache()
		if err != nil {
			return nil, err
		}
		return domainpattern.NewAnalyzer(directory, shared, cache, cacheCfg.TTL, logger), nil
	}); err != nil {
		return err
	}

	// Register validator
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *validation.Validator {
		extractionCfg := cfg.GetExtraction()
		return validation.NewValidator(validation.Thresholds{
			High:   extractionCfg.HighThreshold,
			Medium: extractionCfg.MediumThreshold,
		}, extractionCfg.MaxNameLength, logger)
	}); err != nil {
		return err
	}

	// Register extractor
	if err := container.Provide(func(
		cfg *config.Config,
		llmClient core.LLMClient,
		validator *validation.Validator,
		logger *zap.Logger,
	) (*extraction.Extractor, error) {
		llmCfg, err := cfg.GetLLM()
		if err != nil {
			return nil, err
		}
		return extraction.NewExtractor(llmClient, validator, llmCfg.Timeout, logger), nil
	}); err != nil {
		return err
	}

	// Register reconciler
	if err := container.Provide(func(
		cfg *config.Config,
		directory core.UserDirectory,
		analyzer core.DomainAnalyzer,
		llmClient core.LLMClient,
		logger *zap.Logger,
	) (*reconcile.Reconciler, error) {
		llmCfg, err := cfg.GetLLM()
		if err != nil {
			return nil, err
		}
		reconcileCfg := cfg.GetReconcile()
		var matcher core.LLMMatcher
		if llmClient != nil {
			matcher = llmClient
		}
		return reconcile.NewReconciler(directory, analyzer, matcher, reconcile.Options{
			LinkThreshold:   reconcileCfg.LinkThreshold,
			CreateThreshold: reconcileCfg.CreateThreshold,
			LLMTimeout:      llmCfg.Timeout,
		}, logger), nil
	}); err != nil {
		return err
	}

	// Register batch processor
	if err := container.Provide(func(
		cfg *config.Config,
		repo core.MsgEmailRepository,
		extractor *extraction.Extractor,
		reconciler *reconcile.Reconciler,
		analyzer core.DomainAnalyzer,
		logger *zap.Logger,
	) (*pipeline.Processor, error) {
		batchCfg, err := cfg.GetBatch()
		if err != nil {
			return nil, err
		}
		return pipeline.NewProcessor(repo, extractor, reconciler, analyzer, pipeline.Options{
			BatchSize:   batchCfg.Size,
			Concurrency: batchCfg.Concurrency,
		}, logger), nil
	}); err != nil {
		return err
	}

	// Register recorder and intake
	if err := container.Provide(intake.NewRecorder); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.IntakeFactory) (ports.EmailIntake, error) {
		return f.CreateEmailIntake()
	}); err != nil {
		return err
	}

	return nil
}
