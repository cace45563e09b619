package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/kado/internal/config"
	"github.com/xxxsen/kado/internal/db"
	"github.com/xxxsen/kado/internal/handler"
	"github.com/xxxsen/kado/internal/job"
	"github.com/xxxsen/kado/internal/middleware"
	"github.com/xxxsen/kado/internal/pagecache"
	"github.com/xxxsen/kado/internal/render"
	"github.com/xxxsen/kado/internal/repo"
	"github.com/xxxsen/kado/internal/revision"
	"github.com/xxxsen/kado/internal/schedule"
	"github.com/xxxsen/kado/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "kado",
		Short: "kado cms backend",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run kado server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sqlDB, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			return runServer(cfg, sqlDB)
		},
	}

	var staffEmail, staffPassword, staffName string
	staffCmd := &cobra.Command{
		Use:   "staff",
		Short: "manage staff accounts",
	}
	staffCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "create a staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sqlDB, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			staffService := newStaffService(cfg, sqlDB)
			staff, err := staffService.Create(cmd.Context(), service.StaffCreateInput{
				Email:    staffEmail,
				Password: staffPassword,
				Name:     staffName,
			})
			if err != nil {
				return fmt.Errorf("create staff: %w", err)
			}
			logutil.GetLogger(cmd.Context()).Info("staff created", zap.Int64("id", staff.ID), zap.String("email", staff.Email))
			return nil
		},
	}
	staffCreateCmd.Flags().StringVar(&staffEmail, "email", "", "staff email")
	staffCreateCmd.Flags().StringVar(&staffPassword, "password", "", "staff password")
	staffCreateCmd.Flags().StringVar(&staffName, "name", "", "display name")
	_ = staffCreateCmd.MarkFlagRequired("email")
	_ = staffCreateCmd.MarkFlagRequired("password")
	staffCmd.AddCommand(staffCreateCmd)

	gcCmd := &cobra.Command{
		Use:   "gc",
		Short: "purge orphaned revisions once",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sqlDB, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			for _, svc := range newRevisionServices(sqlDB, nil) {
				if err := job.NewRevisionGCJob(svc).Run(cmd.Context()); err != nil {
					return err
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, staffCmd, gcCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func bootstrap(configPath string) (*config.Config, *sql.DB, error) {
	if configPath == "" {
		return nil, nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return cfg, sqlDB, nil
}

func newStaffService(cfg *config.Config, sqlDB *sql.DB) *service.StaffService {
	return service.NewStaffService(repo.NewStaffRepo(sqlDB), []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
}

func newRevisionServices(sqlDB *sql.DB, cache *pagecache.Cache) []*revision.Service {
	services := make([]*revision.Service, 0, 2)
	for _, kind := range []struct {
		name   string
		tables repo.Tables
	}{
		{name: "blog", tables: repo.BlogTables},
		{name: "content", tables: repo.ContentTables},
	} {
		services = append(services, revision.NewService(
			kind.name,
			repo.NewEntryRepo(sqlDB, kind.tables),
			repo.NewRevisionRepo(sqlDB, kind.tables),
			revision.WithOnChange(cache.Invalidate),
		))
	}
	return services
}

func runServer(cfg *config.Config, sqlDB *sql.DB) error {
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	logutil.GetLogger(context.Background()).Info("starting server",
		zap.Int("port", cfg.Port),
		zap.String("db_host", cfg.Database.Host),
		zap.Bool("render_markdown", cfg.RenderMarkdown),
	)

	cache := pagecache.New(cfg.PageCache.Size, time.Duration(cfg.PageCache.TTLSeconds)*time.Second)
	var renderer *render.Renderer
	if cfg.RenderMarkdown {
		renderer = render.New()
	}
	staffService := newStaffService(cfg, sqlDB)
	revisionServices := newRevisionServices(sqlDB, cache)

	deps := handler.RouterDeps{
		Auth:           handler.NewAuthHandler(staffService),
		Staff:          handler.NewStaffHandler(staffService),
		JWTSecret:      []byte(cfg.JWTSecret),
		LoginRateLimit: time.Duration(cfg.LoginRateLimitSeconds) * time.Second,
	}
	scheduler := schedule.NewCronScheduler()
	for _, svc := range revisionServices {
		if renderer != nil {
			deps.Entries = append(deps.Entries, handler.NewEntryHandler(svc, renderer))
		} else {
			deps.Entries = append(deps.Entries, handler.NewEntryHandler(svc, nil))
		}
		deps.Public = append(deps.Public, handler.NewPublicHandler(svc, cache))
		if _, err := scheduler.AddJob(job.NewRevisionGCJob(svc), cfg.GCCron()); err != nil {
			return fmt.Errorf("schedule revision gc: %w", err)
		}
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", addr))
		if err := engine.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
