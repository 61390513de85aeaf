package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ibquestionbank/questionbank/internal/config"
	"github.com/ibquestionbank/questionbank/internal/database"
	"github.com/ibquestionbank/questionbank/internal/storage"
	"github.com/ibquestionbank/questionbank/pkg/logger"
)

const mongoConnectAttempts = 5

// Open builds the repository selected by cfg.Store.Backend. The caller owns
// the result and must Close it.
func Open(ctx context.Context, cfg *config.Config) (Repository, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		logger.Warnf("using in-memory store; content is lost on restart")
		return NewMemoryRepo(), nil

	case config.BackendSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		logger.Infof("using sqlite store at %s", cfg.SQLite.Path)
		return sqlRepoOrClose(ctx, db)

	case config.BackendLibSQL:
		db, err := database.OpenLibSQL(ctx, cfg.LibSQL.URL, cfg.LibSQL.AuthToken)
		if err != nil {
			return nil, err
		}
		logger.Infof("using hosted libsql store")
		return sqlRepoOrClose(ctx, db)

	case config.BackendMongo:
		client, err := database.ConnectMongoWithBackoff(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, mongoConnectAttempts)
		if err != nil {
			return nil, err
		}
		repo, err := NewMongoRepo(ctx, client.Database(cfg.MongoDB.Database))
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.Infof("using mongo store, database %s", cfg.MongoDB.Database)
		return repo, nil

	case config.BackendCSV:
		src, err := OpenFileSource(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Infof("using read-only csv store (source=%s)", cfg.CSV.Source)
		return NewCSVRepo(src), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// OpenFileSource returns the directory or MinIO bucket holding the CSV files.
func OpenFileSource(ctx context.Context, cfg *config.Config) (FileSource, error) {
	switch cfg.CSV.Source {
	case config.CSVSourceDir:
		return storage.NewDirStorage(cfg.CSV.Dir), nil
	case config.CSVSourceMinIO:
		return storage.NewMinIOStorage(ctx, &storage.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
		})
	}
	return nil, fmt.Errorf("unknown csv source %q", cfg.CSV.Source)
}

func sqlRepoOrClose(ctx context.Context, db *sql.DB) (Repository, error) {
	repo, err := NewSQLRepo(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}
