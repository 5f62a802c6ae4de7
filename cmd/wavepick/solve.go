package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bartolsthoorn/wavepick/internal/instance"
	"github.com/bartolsthoorn/wavepick/internal/metrics"
	"github.com/bartolsthoorn/wavepick/internal/report"
	"github.com/bartolsthoorn/wavepick/internal/store"
	"github.com/bartolsthoorn/wavepick/wave"
)

type solveFlags struct {
	reportPath string
	noCache    bool
}

func newSolveCmd(a *app) *cobra.Command {
	var f solveFlags
	cmd := &cobra.Command{
		Use:   "solve <instance> <output>",
		Short: "Search the best wave and write it as a solution file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.solve(ctx, args[0], args[1], f)
		},
	}
	fs := cmd.Flags()
	fs.String("backend", "", "solver backend: highs or enumerate")
	fs.Int("enumerate-max-vars", 0, "largest program the enumerate backend accepts")
	fs.Int("highs-threads", 0, "HiGHS threads")
	fs.Bool("highs-output", false, "print the HiGHS log")
	fs.String("highs-presolve", "", "HiGHS presolve: choose, on or off")
	fs.Duration("time-limit", 0, "overall search budget")
	fs.Float64("epsilon", 0, "tolerance for reaching the per-k ratio bound")
	fs.Bool("include-all-aisles", false, "also try visiting every aisle")
	fs.Bool("bound-pruning", true, "skip aisle counts whose bound cannot beat the best ratio")
	fs.String("redis-url", "", "cache results in redis, e.g. redis://localhost:6379/0")
	fs.String("metrics-addr", "", "serve Prometheus metrics on this address while solving")
	fs.StringVar(&f.reportPath, "report", "", "write a YAML run report to this path")
	fs.BoolVar(&f.noCache, "no-cache", false, "ignore and do not update the result cache")
	return cmd
}

func (a *app) solve(ctx context.Context, instPath, outPath string, f solveFlags) error {
	runID := report.NewRunID()
	log := a.log.With(zap.String("run_id", runID), zap.String("instance", instPath))

	inst, err := instance.ReadFile(instPath)
	if err != nil {
		return err
	}
	fp := inst.Fingerprint()
	log.Info("instance loaded",
		zap.Int("orders", inst.NumOrders()),
		zap.Int("items", inst.NumItems()),
		zap.Int("aisles", inst.NumAisles()),
		zap.Int("lower", inst.Bounds().Lower),
		zap.Int("upper", inst.Bounds().Upper),
		zap.String("fingerprint", fmt.Sprintf("%016x", fp)))

	var cache store.Store
	key := a.cacheKey(fp)
	if !f.noCache {
		cache, err = a.openStore(ctx, log)
		if err != nil {
			return err
		}
	}
	if cache != nil {
		defer cache.Close()
		if done, err := a.fromCache(ctx, log, cache, inst, key, outPath, runID, instPath, f); done || err != nil {
			return err
		}
	}

	metrics.RegisterDefault()
	if a.cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: a.cfg.Metrics.Addr, Handler: metricsMux()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
		log.Info("serving metrics", zap.String("addr", a.cfg.Metrics.Addr))
	}

	solver, err := a.cfg.Solver()
	if err != nil {
		return err
	}
	opts := append(a.cfg.SearchOptions(), wave.WithLogger(log), wave.WithObserver(metrics.Observer{}))
	res, err := wave.NewSearch(inst, solver, opts...).Run(ctx)
	if err != nil {
		if errors.Is(err, wave.ErrSolverUnavailable) {
			log.Error("no solver available; build with -tags highs or use --backend enumerate", zap.Error(err))
		}
		return err
	}

	if res.Found() {
		if v := inst.Violations(res.Solution); len(v) > 0 {
			return fmt.Errorf("search returned an infeasible wave: %v", v)
		}
	} else {
		log.Warn("no feasible wave found, writing empty solution", zap.String("stopped", string(res.Stopped)))
	}
	if err := instance.WriteSolutionFile(outPath, res.Solution); err != nil {
		return fmt.Errorf("write solution: %w", err)
	}

	if f.reportPath != "" {
		if err := writeReport(f.reportPath, report.FromResult(runID, instPath, fp, a.cfg.Backend.Name, res)); err != nil {
			return err
		}
	}

	if cache != nil && res.Found() {
		if err := cache.Put(ctx, key, store.EntryFromResult(runID, key, res)); err != nil {
			log.Warn("cache update failed", zap.Error(err))
		}
	}
	return nil
}

// openStore connects the redis cache. It returns a nil Store when no redis
// URL is configured or redis is unreachable.
func (a *app) openStore(ctx context.Context, log *zap.Logger) (store.Store, error) {
	if a.cfg.Cache.RedisURL == "" {
		return nil, nil
	}
	r, err := store.NewRedis(a.cfg.Cache.RedisURL, a.cfg.Cache.TTL)
	if err != nil {
		return nil, err
	}
	if err := r.Ping(ctx); err != nil {
		log.Warn("redis unreachable, caching disabled", zap.Error(err))
		r.Close()
		return nil, nil
	}
	return r, nil
}

// cacheKey combines the instance fingerprint with the search settings that
// change which waves a run may return.
func (a *app) cacheKey(fp uint64) store.Key {
	return store.Key{
		Fingerprint:      fp,
		IncludeAllAisles: a.cfg.Search.IncludeAllAisles,
		Epsilon:          a.cfg.Search.Epsilon,
	}
}

// fromCache writes a cached optimal wave and reports whether it did.
func (a *app) fromCache(ctx context.Context, log *zap.Logger, cache store.Store, inst *wave.Instance, key store.Key, outPath, runID, instPath string, f solveFlags) (bool, error) {
	e, err := cache.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		log.Warn("cache lookup failed", zap.Error(err))
		return false, nil
	}
	if !e.Optimal || !e.Matches(key) || !inst.IsFeasible(e.Solution) {
		return false, nil
	}
	log.Info("using cached wave", zap.String("cached_run_id", e.RunID), zap.Float64("ratio", e.Ratio))
	if err := instance.WriteSolutionFile(outPath, e.Solution); err != nil {
		return true, fmt.Errorf("write solution: %w", err)
	}
	if f.reportPath != "" {
		rep := report.FromResult(runID, instPath, key.Fingerprint, a.cfg.Backend.Name, &wave.Result{
			Solution: e.Solution, Ratio: e.Ratio, K: e.K, Optimal: e.Optimal, Stopped: wave.StopReason(e.Stopped),
		})
		rep.Cached = true
		return true, writeReport(f.reportPath, rep)
	}
	return true, nil
}

func writeReport(path string, rep *report.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := rep.Write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}
