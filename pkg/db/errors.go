package db

import "errors"

var (
	ErrInvalidURL               = errors.New("db: invalid connection url")
	ErrUnsupportedDriver        = errors.New("db: unsupported driver")
	ErrInvalidEngineOption      = errors.New("db: invalid engine option")
	ErrFailedToParseDBConfig    = errors.New("db: failed to parse database configuration")
	ErrFailedToOpenDBConnection = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed        = errors.New("db: healthcheck failed")
	ErrInvalidPlaceholder       = errors.New("db: invalid query placeholder")
	ErrSetDialect               = errors.New("db migrator: failed to set dialect")
	ErrApplyMigrations          = errors.New("db migrator: failed to apply migrations")
)
