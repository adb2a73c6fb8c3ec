package main

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MapleMade/internal/assets"
	"MapleMade/internal/catalog"
	"MapleMade/pkg/kit"
)

const startupTimeout = 10 * time.Second

func main() {
	service := "catalog"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8000")

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	store, err := openStore(ctx, log)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}

	releaser, err := openAssets(ctx, log)
	if err != nil {
		log.Fatal("open asset backend", zap.Error(err))
	}

	cat := &catalog.Catalog{Store: store, Assets: releaser, Log: log}
	s := &catalog.Server{Catalog: cat, Log: log}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: getenv("METRICS_ENABLED", "false") == "true",
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
		CORSOrigins:    splitCSV(getenv("CORS_ORIGIN", "*")),
		UploadsDir:     os.Getenv("UPLOADS_DIR"),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// openStore picks Postgres when DATABASE_URL is set, otherwise the embedded
// SQLite file.
func openStore(ctx context.Context, log *zap.Logger) (catalog.Store, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, err
		}

		store := catalog.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}

		log.Info("using postgres store")
		return store, nil
	}

	path := getenv("SQLITE_PATH", "maplemade.db")
	store, err := catalog.OpenSQLiteStore(path)
	if err != nil {
		return nil, err
	}

	log.Info("using sqlite store", zap.String("path", path))
	return store, nil
}

// openAssets picks the S3 releaser when a bucket is configured, the disk
// releaser when a legacy uploads dir is, and otherwise discards release
// events.
func openAssets(ctx context.Context, log *zap.Logger) (assets.Releaser, error) {
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		store, err := assets.NewS3Store(ctx, assets.S3Config{
			Bucket:       bucket,
			Endpoint:     os.Getenv("S3_ENDPOINT"),
			Region:       os.Getenv("S3_REGION"),
			AccessKey:    os.Getenv("S3_ACCESS_KEY"),
			SecretKey:    os.Getenv("S3_SECRET_KEY"),
			UsePathStyle: getenv("S3_PATH_STYLE", "false") == "true",
		})
		if err != nil {
			return nil, err
		}

		log.Info("using s3 asset backend", zap.String("bucket", bucket))
		return store, nil
	}

	if dir := os.Getenv("UPLOADS_DIR"); dir != "" {
		log.Info("using disk asset backend", zap.String("dir", dir))
		return assets.NewDiskStore(dir), nil
	}

	log.Info("no asset backend configured, release events discarded")
	return assets.Discard{}, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
