package main

import (
	"context"
	"io"
	"studioboard/account"
	"studioboard/bizerror"
	"studioboard/client/es"
	"studioboard/client/s3"
	"studioboard/common"
	"studioboard/config"
	"studioboard/dashboard"
	"studioboard/docstore"
	"studioboard/domain"
	"studioboard/domain/project"
	"studioboard/indices"
	"studioboard/infra/metrics"
	"studioboard/infra/tracing"
	"studioboard/media"
	"studioboard/persistence"
	"studioboard/servehttp"
	"studioboard/session"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config failed: %v", err)
	}
	common.ConfigureLogging(cfg.LogLevel, cfg.LogJSON)
	gin.SetMode(cfg.GinMode)
	logrus.Info("service start")

	if cfg.TracingEnabled {
		closer, err := tracing.InitGlobalTracer(common.ServiceName)
		if err != nil {
			logrus.Fatalf("init tracer failed: %v", err)
		}
		defer closeQuietly("tracer", closer)
	}

	dbConfig := cfg.Database()
	// create database (no conflict)
	if dbConfig.DriverType == persistence.DriverMysql {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			logrus.Fatalf("failed to prepare database: %v", err)
		}
	}
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		logrus.Fatalf("database connection failed: %v", err)
	}
	defer ds.Stop()
	ctx := context.Background()
	if err := ds.GormDB(ctx).AutoMigrate(&domain.User{}, &domain.Project{}).Error; err != nil {
		logrus.Fatalf("database migration failed: %v", err)
	}

	hub := docstore.NewHub()
	users := account.NewUserManager(ds, hub)
	projects := project.NewProjectManager(ds, hub)
	if err := users.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logrus.Fatalf("bootstrap administrator failed: %v", err)
	}

	sessions := buildSessionStore(ctx, cfg)
	auth := []gin.HandlerFunc{session.SimpleAuthFilter(sessions), session.RefreshIdentity(sessions, users)}

	reg := prometheus.DefaultRegisterer
	state := dashboard.NewState(users.LoadUsers, projects.LoadProjects, dashboard.NewMetrics(reg))
	if err := state.Load(ctx); err != nil {
		logrus.Fatalf("load dashboard snapshots failed: %v", err)
	}
	defer state.Attach(hub)()

	httpMetrics := metrics.NewHTTPMetrics(reg)
	engine := servehttp.NewEngine(tracing.TracingIngress(), httpMetrics.Middleware(), bizerror.ErrorHandling())
	engine.GET("/metrics", metrics.Handler(prometheus.DefaultGatherer))

	session.RegisterSessionsHandler(engine, sessions, users, cfg.SessionExpiration)
	session.RegisterTokenLoginHandler(engine, cfg.InsecureTokenLogin, sessions, users, cfg.SessionExpiration)
	account.RegisterUsersHandler(engine, users, auth...)
	project.RegisterProjectsRestApis(engine, projects, auth...)
	project.RegisterShareRestApis(engine, projects, cfg.PublicBaseURL, auth...)
	dashboard.RegisterDashboardRestApis(engine, state, auth...)

	if cfg.ElasticsearchEnabled {
		client, err := es.NewClient(nil, cfg.GinMode == gin.DebugMode)
		if err != nil {
			logrus.Fatalf("create elasticsearch client failed: %v", err)
		}
		indexer := indices.NewProjectIndexer(client, projects, rate.Every(time.Second))
		defer hub.Subscribe(docstore.CollectionProjects, indexer.HandleChange)()
		crontab, err := indices.StartCron(indexer, cfg.ReindexCron, cfg.IndexRecoveryEvery, metrics.NewJobMetrics(reg))
		if err != nil {
			logrus.Fatalf("schedule reindex failed: %v", err)
		}
		defer crontab.Stop()
		indices.RegisterIndicesRestAPI(engine, indexer, auth...)
	} else {
		logrus.Info("elasticsearch disabled, project search is not served")
	}

	if cfg.OSSConfigured() {
		bucket, err := s3.BuildBucket(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey, cfg.OSSBucket)
		if err != nil {
			logrus.Fatalf("connect object storage failed: %v", err)
		}
		media.RegisterPhotosRestApis(engine, media.NewPhotoManager(bucket, users, projects), auth...)
	} else {
		logrus.Info("object storage not configured, photo uploads are not served")
	}

	if err := servehttp.StartHTTPServer(cfg.HTTPAddr, engine); err != nil {
		logrus.Errorf("http server stopped: %v", err)
	}
	logrus.Info("[QUIT] service exiting")
}

// buildSessionStore prefers Redis when configured so sessions survive
// restarts and are shared between instances.
func buildSessionStore(ctx context.Context, cfg *config.Config) session.Store {
	if cfg.RedisAddr == "" {
		return session.NewCacheStore(cfg.SessionExpiration)
	}
	client, err := session.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logrus.Fatalf("connect redis failed: %v", err)
	}
	return session.NewRedisStore(client)
}

func closeQuietly(name string, c io.Closer) {
	if err := c.Close(); err != nil {
		logrus.Warnf("close %s: %v", name, err)
	}
}
