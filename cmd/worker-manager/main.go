// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	awsclient "lead-scoring-workers/internal/common/aws"
	"lead-scoring-workers/internal/common/camunda"
	"lead-scoring-workers/internal/common/config"
	"lead-scoring-workers/internal/common/database"
	"lead-scoring-workers/internal/common/llm"
	"lead-scoring-workers/internal/common/logger"
	"lead-scoring-workers/internal/common/observability"
	"lead-scoring-workers/internal/common/zoho"
	"lead-scoring-workers/internal/scoring"
	"lead-scoring-workers/pkg/registry"

	cl "lead-scoring-workers/internal/workers/lead-scoring/categorize-lead"
	cln "lead-scoring-workers/internal/workers/lead-scoring/classify-lead-need"
	nhl "lead-scoring-workers/internal/workers/lead-scoring/notify-hot-lead"
	rla "lead-scoring-workers/internal/workers/lead-scoring/recommend-lead-action"
	slb "lead-scoring-workers/internal/workers/lead-scoring/score-lead-batch"
	sli "lead-scoring-workers/internal/workers/lead-scoring/score-lead-intent"
	scl "lead-scoring-workers/internal/workers/lead-scoring/sync-crm-lead"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting worker manager",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := registry.LoadOrDefault(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}

	// --- Zeebe client with retry ---
	zeebe, err := camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: cfg.Camunda.UsePlaintext,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		RetryConfig: &camunda.RetryConfig{
			MaxRetries: 10,
			BaseDelay:  2 * time.Second,
			MaxDelay:   30 * time.Second,
		},
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("zeebe client connected", zap.String("gateway", cfg.Camunda.BrokerAddress))

	completer, closeCache := newCompleter(ctx, cfg, log)
	defer closeCache()

	scorer := scoring.NewScorer(completer, scoring.ScorerConfig{
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.Temperature,
		MaxTokens:       cfg.LLM.MaxTokens,
		Timeout:         config.GetDuration(cfg.LLM.Timeout),
		AllowOutOfRange: cfg.Scoring.AllowOutOfRange,
	})
	pipeline := scoring.NewPipeline(scorer, scoring.PipelineConfig{
		Concurrency: cfg.Scoring.Concurrency,
		Defaults: scoring.Defaults{
			CompanyName: cfg.Scoring.DefaultCompanyName,
			CompanySize: cfg.Scoring.DefaultCompanySize,
		},
	}, log, obs)

	handlers := buildHandlers(ctx, cfg, reg, scorer, pipeline, log)

	// --- Register workers ---
	var workers []*camunda.Worker
	for _, taskType := range reg.TaskTypes() {
		handler, ok := handlers[taskType]
		if !ok {
			zapLog.Warn("no handler for registered activity", zap.String("taskType", taskType))
			continue
		}
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			continue
		}
		wc := config.GetWorkerConfig(cfg, taskType)
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), taskType, camunda.WorkerOptions{
			MaxJobsActive: wc.MaxJobsActive,
			Timeout:       config.GetDuration(wc.Timeout),
		}, instrument(obs, taskType, handler), log))
	}
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newMux(zeebe.HealthCheck),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("health/metrics server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("health/metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("shutdown signal received, stopping workers")

	for _, w := range workers {
		w.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("health/metrics server shutdown failed", zap.Error(err))
	}

	zapLog.Info("worker manager stopped")
}

// newCompleter builds the completion client, wrapped in the redis reply cache
// when enabled and reachable.
func newCompleter(ctx context.Context, cfg *config.Config, log logger.Logger) (llm.Completer, func()) {
	var completer llm.Completer = llm.NewOpenAIClient(llm.OpenAIConfig{
		BaseURL:          cfg.LLM.BaseURL,
		APIKey:           cfg.LLM.APIKey,
		Timeout:          config.GetDuration(cfg.LLM.Timeout),
		MaxResponseBytes: cfg.LLM.MaxResponseBytes,
	})

	if !cfg.Scoring.Cache.Enabled {
		return completer, func() {}
	}

	rdb := database.NewRedis(cfg.Database.Redis, cfg.Scoring.Concurrency)
	err := camunda.Retry(ctx, &camunda.RetryConfig{MaxRetries: 5, BaseDelay: time.Second, MaxDelay: 8 * time.Second},
		func(error) bool { return true },
		rdb.Ping,
	)
	if err != nil {
		log.Warn("redis unavailable, completion cache disabled", map[string]interface{}{
			"address": cfg.Database.Redis.Address,
			"error":   err,
		})
		_ = rdb.Close()
		return completer, func() {}
	}

	log.Info("completion cache enabled", map[string]interface{}{
		"address": cfg.Database.Redis.Address,
		"ttl":     cfg.Scoring.Cache.TTL,
	})
	cached := llm.NewCachedCompleter(completer, rdb.Cmdable(),
		time.Duration(cfg.Scoring.Cache.TTL)*time.Second, cfg.Scoring.Cache.KeyPrefix, log)
	return cached, func() { _ = rdb.Close() }
}

func buildHandlers(ctx context.Context, cfg *config.Config, reg *registry.ActivityRegistry, scorer *scoring.Scorer, pipeline *scoring.Pipeline, log logger.Logger) map[string]camunda.HandlerFunc {
	handlers := make(map[string]camunda.HandlerFunc)

	intentCfg := sli.ConfigFromApp(cfg)
	handlers[sli.TaskType] = sli.NewHandler(intentCfg, scorer, log).Handle
	handlers[cl.TaskType] = cl.NewHandler(cl.LoadConfig(cfg), log).Handle
	handlers[cln.TaskType] = cln.NewHandler(cln.LoadConfig(cfg), log).Handle
	handlers[rla.TaskType] = rla.NewHandler(rla.LoadConfig(cfg), log).Handle

	var batchSchema map[string]interface{}
	if activity, ok := reg.Find(slb.TaskType); ok {
		batchSchema = activity.InputSchema
	}
	handlers[slb.TaskType] = slb.NewHandler(slb.LoadConfig(cfg, batchSchema), pipeline, log).Handle

	var publisher nhl.AlertPublisher
	var email nhl.EmailSender
	aws := cfg.Integrations.AWS
	if aws.SNS.Enabled {
		if c, err := awsclient.NewSNSClient(ctx, aws.Region, aws.SNS.TopicARN); err != nil {
			log.Error("sns client init failed", map[string]interface{}{"error": err})
		} else {
			publisher = c
		}
	}
	if aws.SES.Enabled {
		if c, err := awsclient.NewSESClient(ctx, aws.Region, aws.SES.FromEmail); err != nil {
			log.Error("ses client init failed", map[string]interface{}{"error": err})
		} else {
			email = c
		}
	}
	handlers[nhl.TaskType] = nhl.NewHandler(nhl.LoadConfig(cfg), publisher, email, log).Handle

	var crm scl.LeadStore
	if z := cfg.Integrations.Zoho; z.AuthToken != "" {
		crm = zoho.NewCRMClient(z.BaseURL, z.AuthToken, config.GetDuration(z.Timeout))
	} else {
		log.Warn("zoho oauth token not set, crm sync will fail", map[string]interface{}{"taskType": scl.TaskType})
	}
	handlers[scl.TaskType] = scl.NewHandler(scl.LoadConfig(cfg), crm, log).Handle

	return handlers
}

// instrument wraps a job handler with a span and otel job metrics labelled
// by the command the handler sent back to the broker.
func instrument(obs *observability.Observability, taskType string, next camunda.HandlerFunc) camunda.HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		ctx, span := obs.StartSpan(context.Background(), "job."+taskType)
		defer span.End()

		tracked := camunda.NewOutcomeClient(client)
		next(tracked, job)

		outcome := tracked.Outcome()
		span.SetAttributes(attribute.String("job.outcome", outcome))
		if outcome != camunda.OutcomeCompleted {
			span.SetStatus(codes.Error, outcome)
		}
		obs.RecordJobProcessed(ctx, taskType, outcome)
		obs.RecordJobDuration(ctx, taskType, time.Since(start), outcome)
	}
}

// newMux serves liveness, readiness backed by ready, and prometheus metrics.
func newMux(ready func(context.Context) error) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := ready(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
