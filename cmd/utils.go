package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"recipe-importer/internal/client"
	"recipe-importer/internal/config"
	"recipe-importer/internal/database"
	"recipe-importer/internal/notify"
	"recipe-importer/internal/recipes"
	"recipe-importer/internal/storage"
)

// ParseEnvFlag reads the -env flag naming an optional .env file.
func ParseEnvFlag() string {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
	}
	return configPath
}

// App holds the wired import workflow shared by the CLI and the daemon.
type App struct {
	Config   *config.Config
	Lab      *client.LabClient
	Uploader *recipes.Uploader
	Files    *recipes.FileIntake
	Gallery  *recipes.Gallery

	// Nil when JOURNAL_URL is unset.
	Journal *database.Journal
}

func NewApp(ctx context.Context, cfg *config.Config, notifier notify.Notifier, opts ...recipes.UploaderOption) (*App, error) {
	policy, err := recipes.ParseOutcomePolicy(cfg.OutcomePolicy)
	if err != nil {
		return nil, err
	}

	lab := client.NewLabClient(cfg.LabAPIURL, cfg.LabAPITimeout)
	gallery := recipes.NewGallery(lab, cfg.GalleryCacheSize, cfg.GalleryCacheTTL)

	app := &App{Config: cfg, Lab: lab, Gallery: gallery}

	uploaderOpts := []recipes.UploaderOption{
		recipes.WithOutcomePolicy(policy),
		recipes.OnRefresh(gallery.Invalidate),
	}

	if cfg.JournalURL != "" {
		db, err := database.NewDatabase(cfg.JournalURL)
		if err != nil {
			return nil, fmt.Errorf("error opening import journal: %w", err)
		}
		app.Journal = database.NewJournal(db)
		uploaderOpts = append(uploaderOpts, recipes.WithJournal(app.Journal))
	}

	app.Uploader = recipes.NewUploader(lab, notifier, append(uploaderOpts, opts...)...)

	source, err := createSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Files = recipes.NewFileIntake(app.Uploader, source, cfg.RecipeExtension)

	return app, nil
}

func createSource(ctx context.Context, cfg *config.Config) (storage.Provider, error) {
	local, err := storage.NewLocalProvider("")
	if err != nil {
		return nil, fmt.Errorf("error creating local file source: %w", err)
	}

	var s3 storage.Provider
	s3p, err := storage.NewS3Provider(ctx, &storage.S3ProviderConfig{
		S3EndpointURL:     cfg.S3EndpointURL,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
		S3Region:          cfg.S3Region,
	})
	if err != nil {
		slog.Warn("s3 recipe source unavailable", "error", err)
	} else {
		s3 = s3p
	}

	return storage.NewRouter(local, s3), nil
}
