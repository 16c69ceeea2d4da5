/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dirpx.dev/problem"
	"dirpx.dev/problem/config"
	"dirpx.dev/problem/ginx"
	"dirpx.dev/problem/httpx"
	"dirpx.dev/problem/internal/logx"
	"dirpx.dev/problem/kind"
	"dirpx.dev/problem/metrics"
	"dirpx.dev/problem/observe"
	"github.com/gin-gonic/gin"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	addr := ":8080"
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a demo gin server that answers errors with problems",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, closeLog, err := logx.New(logx.Options{
				Level:   root.logLevel,
				NoColor: root.noColor,
				File:    root.logFile,
			})
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()
			slog.SetDefault(log)

			s, err := config.Load(root.configFile)
			if err != nil {
				return err
			}
			cfg, _, err := s.Setup(nil)
			if err != nil {
				return err
			}

			reg := prom.NewRegistry()
			h, err := newDemoHandler(cfg, reg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, log, &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", addr, "listen address")
	return cmd
}

func run(ctx context.Context, log *slog.Logger, srv *http.Server) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

type orderRequest struct {
	SKU      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gte=1,lte=100"`
	Email    string `json:"email" binding:"omitempty,email"`
}

const inStock = 10

// newDemoHandler wires the interceptor into gin together with the stock
// enrichers and observers, plus a few routes that fail in typical ways.
func newDemoHandler(cfg *config.Configuration, reg *prom.Registry, log *slog.Logger) (http.Handler, error) {
	promObs, err := metrics.NewObserver(reg)
	if err != nil {
		return nil, err
	}
	otelObs, err := metrics.NewOTelObserver(otel.Meter("dirpx.dev/problem"))
	if err != nil {
		return nil, err
	}
	ic := httpx.New(cfg,
		httpx.WithLogger(log),
		httpx.WithEnrichers(observe.TraceID(), observe.ErrorID()),
		httpx.WithObservers(observe.Span(), promObs, otelObs),
	)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(ginx.Middleware(ic))
	r.NoRoute(ginx.NoRoute(ic))
	r.NoMethod(ginx.NoMethod(ic))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	r.GET("/orders/:id", func(c *gin.Context) {
		if id := c.Param("id"); id != "1" {
			_ = c.Error(problem.E(kind.NotFound, "order "+id+" not found",
				problem.WithReason("order.lookup")))
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": "1", "sku": "book-42", "quantity": 1})
	})
	r.POST("/orders", func(c *gin.Context) {
		var req orderRequest
		if err := ginx.Bind(c, &req); err != nil {
			_ = c.Error(err)
			return
		}
		if req.Quantity > inStock {
			_ = c.Error(problem.E(kind.Conflict, "not enough stock",
				problem.WithReason("order.stock.insufficient"),
				problem.WithExtra("available", inStock)))
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": "2", "sku": req.SKU, "quantity": req.Quantity})
	})
	r.POST("/orders/:id/pay", func(c *gin.Context) {
		_ = c.Error(problem.E(kind.Conflict, "card declined by issuer",
			problem.WithReason("order.payment.declined")))
	})
	r.GET("/limited", func(c *gin.Context) {
		_ = c.Error(problem.Throw(problem.MustNew(http.StatusTooManyRequests, "Too Many Requests",
			problem.WithDetail("Request quota exhausted."),
			problem.WithExtension("retryAfter", 30))))
	})
	r.GET("/slow", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Millisecond)
		defer cancel()
		<-ctx.Done()
		_ = c.Error(fmt.Errorf("inventory lookup: %w", ctx.Err()))
	})
	r.GET("/panic", func(*gin.Context) { panic("demo panic") })
	return r, nil
}
