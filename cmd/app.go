package cmd

import (
	"context"
	"database/sql"

	"github.com/AzielCF/az-console/agentwizard/application"
	domainAgent "github.com/AzielCF/az-console/agentwizard/domain/agent"
	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
	"github.com/AzielCF/az-console/agentwizard/repository"
	coreconfig "github.com/AzielCF/az-console/core/config"
	coreDB "github.com/AzielCF/az-console/core/database"
	settingsApp "github.com/AzielCF/az-console/core/settings/application"
	settingsInfra "github.com/AzielCF/az-console/core/settings/infrastructure"
	"github.com/AzielCF/az-console/infrastructure/knowledge"
	"github.com/AzielCF/az-console/infrastructure/metrics"
	"github.com/AzielCF/az-console/infrastructure/models"
	"github.com/AzielCF/az-console/infrastructure/valkey"
	"github.com/AzielCF/az-console/pkg/crypto"
	"github.com/AzielCF/az-console/pkg/utils"
	"github.com/AzielCF/az-console/pkg/wizardmonitor"
	"github.com/AzielCF/az-console/pkg/workerpool"
	"github.com/AzielCF/az-console/ui/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	appCtx    context.Context
	appCancel context.CancelFunc
	serverID  string

	// Storage
	gormDB   *gorm.DB
	rawDB    *sql.DB
	vkClient *valkey.Client

	// Wizard
	agentService   *application.AgentService
	sessionManager *application.SessionManager
	autosavePool   *workerpool.Pool
	wizardMonitor  *wizardmonitor.Monitor
	appMetrics     *metrics.Metrics
	wsHub          *websocket.Hub
	modelCatalog   *models.Catalog
	urlPreviewer   *knowledge.Previewer

	settingsService *settingsApp.SettingsService
)

func initApp() {
	cfg := coreconfig.Global
	appCtx, appCancel = context.WithCancel(context.Background())

	serverID = utils.GetPersistentServerID(cfg.App.ServerID, cfg.Paths.Storages)

	repo := initAgentRepository(cfg)
	settingsService = initSettings(cfg)
	drafts := initDraftCache(cfg)

	if _, ok := application.ProfileByName(cfg.Wizard.Profile); !ok {
		logrus.Fatalf("[WIZARD] unknown profile %q (want one of %v)", cfg.Wizard.Profile, application.ProfileNames())
	}

	cipher, err := crypto.NewCipher(cfg.Security.SecretKey)
	if err != nil {
		logrus.Fatalf("[APP] %v", err)
	}
	if !cipher.Enabled() {
		logrus.Warn("[APP] APP_SECRET_KEY is empty; webhook auth headers are stored in plain text")
	}
	agentService = application.NewAgentServiceWithDeps(repo, drafts, cipher, cfg.Wizard.DraftTTL)

	autosavePool = workerpool.New(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize)
	autosavePool.Start(appCtx)

	appMetrics = metrics.Default()
	wizardMonitor = wizardmonitor.New(500, 0)
	appMetrics.Attach(wizardMonitor)

	var relay websocket.Relay
	if vkClient != nil {
		relay = vkClient
	}
	wsHub = websocket.NewHub(relay, serverID)
	go wsHub.Run(appCtx)

	sessionManager = application.NewSessionManager(application.SessionManagerDeps{
		Agents: agentService,
		Notifier: wizard.MultiNotifier{
			application.LogNotifier,
			application.MonitorNotifier(wizardMonitor),
			wsHub,
		},
		Dispatcher:     metrics.MeteredDispatcher{Next: autosavePool, Metrics: appMetrics},
		AutosaveDelay:  cfg.Wizard.AutosaveDebounce,
		DefaultProfile: cfg.Wizard.Profile,
	})

	modelCatalog = models.NewCatalog(models.Config{
		OpenAIKey: cfg.APIKeys.OpenAI,
		GeminiKey: cfg.APIKeys.Gemini,
		Discover:  cfg.Wizard.DiscoverModels,
	})
	urlPreviewer = knowledge.NewPreviewer(cfg.Wizard.PreviewTimeout)

	logrus.Infof("[APP] ready (server=%s profile=%s db=%s autosave=%s)",
		serverID, cfg.Wizard.Profile, cfg.Database.Driver, cfg.Wizard.AutosaveDebounce)
}

func initAgentRepository(cfg *coreconfig.Config) domainAgent.IAgentRepository {
	if cfg.Database.RawSQL {
		db, driver, err := coreDB.OpenSQL(cfg)
		if err != nil {
			logrus.Fatalf("[DB] %v", err)
		}
		rawDB = db
		repo, err := repository.NewAgentSQLRepositoryWithDB(db, driver)
		if err != nil {
			logrus.Fatalf("[DB] failed to init agents table: %v", err)
		}
		logrus.Infof("[DB] using database/sql agent repository (%s)", driver)
		return repo
	}

	db, err := coreDB.NewDatabase(cfg)
	if err != nil {
		logrus.Fatalf("[DB] %v", err)
	}
	gormDB = db
	repo := repository.NewAgentGormRepository(db)
	if err := repo.Init(context.Background()); err != nil {
		logrus.Fatalf("[DB] failed to migrate agents: %v", err)
	}
	return repo
}

// initSettings applies the overrides stored in the database onto cfg.Wizard.
// The settings table always lives in the gorm database.
func initSettings(cfg *coreconfig.Config) *settingsApp.SettingsService {
	if gormDB == nil {
		db, err := coreDB.NewDatabase(cfg)
		if err != nil {
			logrus.Fatalf("[DB] %v", err)
		}
		gormDB = db
	}
	svc := settingsApp.NewSettingsServiceWithDeps(settingsInfra.NewSettingsGormRepository(gormDB))
	ctx := context.Background()
	if err := svc.Init(ctx); err != nil {
		logrus.Fatalf("[SETTINGS] failed to migrate settings: %v", err)
	}
	ws, err := svc.GetWizardSettings(ctx)
	if err != nil {
		logrus.Warnf("[SETTINGS] could not read stored settings: %v", err)
		return svc
	}
	ws.ApplyTo(&cfg.Wizard)
	return svc
}

// initDraftCache prefers Valkey and falls back to memory when it is disabled
// or unreachable.
func initDraftCache(cfg *coreconfig.Config) domainAgent.IDraftCache {
	if !cfg.Database.ValkeyEnabled {
		return repository.NewDraftMemoryCache()
	}
	client, err := valkey.NewClient(valkey.ConfigFrom(cfg))
	if err != nil {
		logrus.Warnf("[VALKEY] %v; drafts stay in memory", err)
		return repository.NewDraftMemoryCache()
	}
	vkClient = client
	logrus.Infof("[VALKEY] connected to %s", cfg.Database.ValkeyAddress)
	return repository.NewDraftValkeyCache(client)
}

// StopApp performs a clean shutdown of all database connections and services.
func StopApp() {
	logrus.Info("[APP] Stopping application...")

	if sessionManager != nil {
		sessionManager.CloseAll()
	}
	if autosavePool != nil {
		autosavePool.Stop()
	}
	if appCancel != nil {
		appCancel()
	}
	if vkClient != nil {
		vkClient.Close()
	}
	if rawDB != nil {
		_ = rawDB.Close()
	}
	if gormDB != nil {
		if db, err := gormDB.DB(); err == nil {
			_ = db.Close()
		}
	}

	logrus.Info("[APP] Application stopped cleanly.")
}
