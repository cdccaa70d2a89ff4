package job

import (
	"errors"
	"fmt"
	"sync"

	"reconciler/core/compare"
	"reconciler/core/database"
	"reconciler/core/reconcile"
	"reconciler/core/storage"
	"reconciler/feature/filesource"
	"reconciler/feature/sqlsource"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Connector opens a database connection.
type Connector func(cfg database.Config) (*gorm.DB, error)

// Sources builds streams from source configurations. Database connections are
// opened on first use and reused until Close.
type Sources struct {
	connect Connector
	storage storage.Client
	bucket  string
	logger  *zap.Logger

	mu  sync.Mutex
	dbs map[string]*gorm.DB
}

// NewSources creates a source factory. client may be nil when no source reads
// from object storage.
func NewSources(connect Connector, client storage.Client, bucket string, logger *zap.Logger) *Sources {
	if connect == nil {
		connect = database.Connect
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sources{
		connect: connect,
		storage: client,
		bucket:  bucket,
		logger:  logger,
		dbs:     make(map[string]*gorm.DB),
	}
}

// Stream builds the stream for cfg. key and resolver order unsorted CSV files.
func (s *Sources) Stream(cfg SourceConfig, key []string, resolver *compare.Resolver) (reconcile.Stream, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SourceSQL:
		db, err := s.db(cfg.Database)
		if err != nil {
			return nil, err
		}
		opts := []sqlsource.Option{sqlsource.WithLogger(s.logger)}
		if cfg.Table != "" {
			if len(cfg.Columns) > 0 {
				opts = append(opts, sqlsource.WithColumns(cfg.Columns...))
			}
			return sqlsource.NewTable(db, cfg.Table, key, opts...), nil
		}
		return sqlsource.NewQuery(db, cfg.Query, key, opts...), nil

	default:
		kinds, err := cfg.kinds()
		if err != nil {
			return nil, err
		}
		opts := []filesource.Option{
			filesource.WithDelimiter(cfg.delimiter()),
			filesource.WithColumnKinds(kinds),
			filesource.WithResolver(resolver),
		}
		if !cfg.Sorted {
			opts = append(opts, filesource.Unsorted(key...))
		}
		if cfg.Path != "" {
			return filesource.NewFile(cfg.Path, opts...), nil
		}
		if s.storage == nil {
			return nil, errors.New("object source requires a storage client")
		}
		return filesource.NewObject(s.storage, s.bucket, cfg.Object, opts...), nil
	}
}

func (s *Sources) db(cfg database.Config) (*gorm.DB, error) {
	id := fmt.Sprintf("%s|%s|%d|%s|%s", cfg.Driver, cfg.Host, cfg.Port, cfg.User, cfg.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.dbs[id]; ok {
		return db, nil
	}
	db, err := s.connect(cfg)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Connected to source database", zap.String("driver", cfg.Driver), zap.String("name", cfg.Name))
	s.dbs[id] = db
	return db, nil
}

// Close closes every database connection opened so far.
func (s *Sources) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for id, db := range s.dbs {
		if err := database.Close(db); err != nil {
			errs = append(errs, err)
		}
		delete(s.dbs, id)
	}
	return errors.Join(errs...)
}
