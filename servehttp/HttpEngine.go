package servehttp

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ShutdownTimeout bounds the graceful shutdown.
const ShutdownTimeout = 3 * time.Second

// StartHTTPServer serves engine on addr until SIGINT or SIGTERM, then drains
// in-flight requests for at most ShutdownTimeout.
func StartHTTPServer(addr string, engine *gin.Engine) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	failed := make(chan error, 1)
	go func() {
		logrus.Infof("http server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			failed <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 send syscall.SIGINT
	// kill -9 send syscall.SIGKILL, can't be caught
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case err := <-failed:
		return err
	case <-quit:
	}
	logrus.Infof("[QUIT] shutdown signal has been received, the service will exit in %s.", ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("[QUIT] http server is shutdown gracefully, new request will be rejected.")
	return nil
}

// NewEngine builds the gin engine with the middlewares every route shares,
// outermost first.
func NewEngine(middleWares ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.LoggerWithWriter(logrus.StandardLogger().Writer()))
	engine.Use(middleWares...)
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "studioboard")
	})
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return engine
}
