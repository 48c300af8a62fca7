package main

import (
	"flag"

	"github.com/drakos74/free-mind/infra/config"
	"github.com/drakos74/free-mind/internal/dataset"
	"github.com/drakos74/free-mind/internal/metrics"
	"github.com/drakos74/free-mind/internal/notify"
	"github.com/drakos74/free-mind/internal/server"
	"github.com/drakos74/free-mind/internal/session"
	"github.com/drakos74/free-mind/internal/socket"
	json_storage "github.com/drakos74/free-mind/internal/storage/file/json"
	"github.com/drakos74/free-mind/internal/storage/models"
	"github.com/drakos74/free-mind/internal/trainer"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Config carries the startup options of the server.
type Config struct {
	Port     int    `json:"port"`
	Data     string `json:"data"`
	Store    string `json:"store"`
	Notifier string `json:"notifier"`
	Debug    bool   `json:"debug"`
}

func defaultConfig() Config {
	return Config{
		Port:     6060,
		Data:     "data/mnist",
		Store:    "data",
		Notifier: "local",
	}
}

func main() {
	cfg := defaultConfig()
	if _, err := config.Load("server", &cfg); err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	port := flag.Int("port", cfg.Port, "server port")
	data := flag.String("data", cfg.Data, "mnist data directory")
	store := flag.String("store", cfg.Store, "model storage root")
	notifier := flag.String("notifier", cfg.Notifier, "notifier: local, telegram or void")
	debug := flag.Bool("debug", cfg.Debug, "debug logging")
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	split, err := dataset.Load(*data)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *data).Msg("could not load dataset")
	}

	modelStore, err := models.NewStore(json_storage.BlobShard(*store))
	if err != nil {
		log.Fatal().Err(err).Str("root", *store).Msg("could not create model store")
	}

	sessions := session.NewStore()
	hub := socket.NewHub()
	runner := trainer.New(sessions, modelStore, split, hub, newNotifier(*notifier))

	service := NewService(sessions, modelStore, split, runner, *debug)

	srv := server.NewServer("free-mind", *port)
	if *debug {
		srv.Debug()
	}
	srv.Add(service.Routes()...)
	srv.Add(server.Live())
	srv.AddHandler("GET /ws", hub.Handler())
	srv.AddHandler("GET /metrics", metrics.Handler())

	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newNotifier(kind string) notify.Notifier {
	switch kind {
	case "telegram":
		notifier, err := notify.NewTelegram()
		if err != nil {
			log.Warn().Err(err).Msg("telegram notifier unavailable, falling back to local")
			return notify.NewLocal()
		}
		return notifier
	case "void":
		return notify.NewVoid()
	default:
		return notify.NewLocal()
	}
}
