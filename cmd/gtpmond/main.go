// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nttcom/gtp/internal/config"
	"github.com/nttcom/gtp/internal/pkg/version"
	"github.com/nttcom/gtp/pkg/logger"
	"github.com/nttcom/gtp/pkg/server"
)

type Flags struct {
	ConfigFile string
	Version    bool
}

func main() {
	f := new(Flags)
	flag.StringVar(&f.ConfigFile, "f", "gtpmond.yaml", "Specify a configuration file")
	flag.BoolVar(&f.Version, "version", false, "Print the version and exit")
	flag.Parse()

	if f.Version {
		fmt.Println("gtpmond " + version.Version())
		return
	}

	c, err := config.ReadConfigFile(f.ConfigFile)
	if err != nil {
		log.Panic(err)
	}
	if err := os.MkdirAll(c.Global.Log.Path, 0755); err != nil {
		log.Panic(err)
	}
	fp, err := os.OpenFile(filepath.Join(c.Global.Log.Path, c.Global.Log.Name), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Panic(err)
	}
	defer fp.Close()

	logger := logger.LogInit(fp, c.Global.Log.Debug)
	defer func() {
		_ = logger.Sync()
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics, err := server.NewMetrics()
	if err != nil {
		logger.Panic("Failed to register metrics", zap.Error(err))
	}
	if c.Global.Metrics.Port != "" {
		go serveMetrics(ctx, net.JoinHostPort(c.Global.Metrics.Address, c.Global.Metrics.Port), metrics, logger)
	}

	o := &server.MonitorOptions{
		GtpcAddr: c.Global.Gtpc.Address,
		GtpcPort: c.Global.Gtpc.Port,
		GtpuAddr: c.Global.Gtpu.Address,
		GtpuPort: c.Global.Gtpu.Port,
	}
	logger.Info("gtpmond start", zap.String("version", version.Version()))
	if err := server.NewMonitor(o, logger, metrics).Run(ctx); err != nil {
		logger.Error("Monitor stopped", zap.Error(err))
		return
	}
	logger.Info("gtpmond stop")
}

func serveMetrics(ctx context.Context, addr string, metrics *server.Metrics, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Metrics listen", zap.String("listenInfo", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Metrics server stopped", zap.Error(err))
	}
}
