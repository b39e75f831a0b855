// ShiftWise workforce planning service entry point.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/internal/config"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/internal/handler"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/internal/repository"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/logger"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/approval"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint/builtin"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/explain"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/simulate"
)

// Build information, injected via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("shiftwise starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.Database.DSN, repository.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.WithError(err).Msg("database connection failed")
		os.Exit(1)
	}
	defer db.Close()

	planRepo := repository.NewPlanRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	manager := constraint.NewManager()
	builtin.RegisterDefaultConstraints(manager, builtin.RuleConfig{
		DefaultMaxConsecutiveDays: cfg.Rules.DefaultMaxConsecutiveDays,
		SkillExpiryWarningDays:    cfg.Rules.SkillExpiryWarningDays,
		ContinuityWindowDays:      cfg.Rules.ContinuityWindowDays,
		Fairness: builtin.FairnessThresholds{
			WorkloadRatio:       cfg.Rules.FairnessWorkloadRatio,
			WeekendRatio:        cfg.Rules.FairnessWeekendRatio,
			ShiftTypeShare:      cfg.Rules.FairnessShiftTypeShare,
			MinShiftSample:      builtin.DefaultFairnessThresholds().MinShiftSample,
			ShiftTypeWindowDays: builtin.DefaultFairnessThresholds().ShiftTypeWindowDays,
			WeekendWindowDays:   builtin.DefaultFairnessThresholds().WeekendWindowDays,
		},
	})

	engine := explain.NewEngine(manager)
	approvalSvc := approval.NewService(planRepo, assignmentRepo, auditRepo)
	simulationSvc := simulate.NewService(manager)

	h := handler.New(manager, engine, approvalSvc, simulationSvc)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      h.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Msg("http server failed")
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Msg("graceful shutdown failed")
		}
	}
}
