package migration

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file:// source
)

// Migrate applies every pending migration from migrationsPath.
// ErrNoChange is the steady state on a current schema and is not an
// error here.
func Migrate(dbURL string, migrationsPath string, verbose bool, log *zap.Logger) error {
	log.Info("applying database migrations", zap.String("source", migrationsPath))

	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return err
	}
	m.Log = NewLogger(log, verbose)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("database schema already up to date")
			return nil
		}
		log.Error("database migration failed", zap.Error(err))
		return err
	}

	return nil
}

// Logger adapts zap to the migrate.Logger interface.
type Logger struct {
	logger  *zap.Logger
	verbose bool
}

func NewLogger(logger *zap.Logger, verbose bool) *Logger {
	return &Logger{logger: logger, verbose: verbose}
}

func (l *Logger) Printf(format string, v ...any) {
	l.logger.Sugar().Infof("migrate: "+format, v...)
}

func (l *Logger) Verbose() bool {
	return l.verbose
}
