package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"presence/backend/foundation/web"
	"presence/backend/internal/auth"
	"presence/backend/internal/commands"
	"presence/backend/internal/pkg/config"
	"presence/backend/internal/pkg/repository/postgresql"
	"presence/backend/internal/repository/postgres/attendance"
	"presence/backend/internal/repository/postgres/faceembedding"
	"presence/backend/internal/router"
	"presence/backend/internal/syncqueue"
	"presence/backend/internal/vision"
)

func main() {
	if err := run(); err != nil {
		log.Fatalln("main:", err)
	}
}

func run() error {
	var flags struct {
		Port      string `conf:"default::8080"`
		MediaPath string `conf:"default:./statics"`
		Migrate   bool   `conf:"default:false"`
	}

	if err := conf.Parse(os.Args[1:], "PRESENCE", &flags); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			usage, err := conf.Usage("PRESENCE", &flags)
			if err != nil {
				return errors.Wrap(err, "generating config usage")
			}
			fmt.Println(usage)
			return nil
		}
		return errors.Wrap(err, "parsing config")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	postgresDB := postgresql.NewDatabase(postgresql.Config{
		Username:   cfg.DBUsername,
		Password:   cfg.DBPassword,
		Host:       cfg.DBHost,
		Port:       cfg.DBPort,
		Name:       cfg.DBName,
		DisableTLS: cfg.DisableTLS,
	})
	defer postgresDB.Close()

	if flags.Migrate {
		commands.Migrate(postgresDB)
		return nil
	}

	redisDB := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisDB.Close()

	authenticator, err := auth.New(cfg.PrivatePemPath)
	if err != nil {
		return errors.Wrap(err, "constructing auth")
	}

	extractor := vision.NewExtractor(cfg.DetectorURL, cfg.MinFaceQuality)

	warmupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := extractor.Warmup(warmupCtx); err != nil {
		log.Println("detector warmup:", err)
	}
	cancel()

	store, err := syncqueue.Open(cfg.QueuePath)
	if err != nil {
		return errors.Wrap(err, "opening sync queue store")
	}
	defer store.Close()

	deliverer := syncqueue.NewRemoteDeliverer(
		attendance.NewRepository(postgresDB),
		faceembedding.NewRepository(postgresDB),
	)

	queue := syncqueue.New(store, deliverer, cfg.SyncInterval)
	queue.SetOnline(true)
	queue.Start()
	defer queue.Stop()

	app := web.NewApp()

	r := router.NewRouter(
		app,
		postgresDB,
		redisDB,
		queue,
		extractor,
		cfg,
		flags.Port,
		authenticator,
		flags.MediaPath,
	)

	return r.Init()
}
