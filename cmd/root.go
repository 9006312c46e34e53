package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/jsphweid/notegen/clip"
	"github.com/jsphweid/notegen/config"
	"github.com/jsphweid/notegen/db"
	"github.com/jsphweid/notegen/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "notegen",
	Short: "Music notation compiler and melody generator",
	Long: `notegen compiles note and chord notation into note events and generates
melodies and arpeggios over chord progressions. Results are printed as JSON,
written to MIDI files or stored in clips.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initSentry(getConfig())
	},
}

func Execute() {
	defer sentry.Flush(2 * time.Second)
	cobra.CheckErr(rootCmd.Execute())
}

var (
	cfgOnce sync.Once
	cfg     *config.Config
)

func getConfig() *config.Config {
	cfgOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			logger.Debug("no .env file loaded", logger.Fields{"error": err.Error()})
		}
		cfg = config.Load()
	})
	return cfg
}

var sentryOnce sync.Once

func initSentry(c *config.Config) {
	if c.SentryDSN == "" {
		return
	}
	sentryOnce.Do(func() {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         c.SentryDSN,
			Environment: c.Environment,
			Debug:       !c.IsProduction(),
		})
		if err != nil {
			logger.Warn("sentry init failed", logger.Fields{"error": err.Error()})
		}
	})
}

// openStore returns the clip store selected by CLIP_STORE.
func openStore(c *config.Config) (clip.Store, error) {
	switch c.ClipStore {
	case config.StoreMemory, "":
		return clip.NewMemoryStore(), nil
	case config.StoreFile:
		return clip.NewFileStore(filepath.Join(c.OutPath, "clips"))
	case config.StoreDynamoDB:
		client, err := db.NewClient(c.DynamoDBEndpoint, c.DynamoDBRegion)
		if err != nil {
			return nil, err
		}
		return db.NewClipStore(client, c.DynamoDBTable), nil
	}
	return nil, fmt.Errorf("unknown clip store %q", c.ClipStore)
}

// loadClip fetches a clip when id is set.
func loadClip(ctx context.Context, id string) (clipCtx, error) {
	if id == "" {
		return clipCtx{}, nil
	}
	store, err := openStore(getConfig())
	if err != nil {
		return clipCtx{}, err
	}
	c, err := store.Get(ctx, id)
	if err != nil {
		return clipCtx{}, err
	}
	return clipCtx{store: store, clip: c, ok: true}, nil
}
