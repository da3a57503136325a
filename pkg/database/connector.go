package database

import (
	"context"
	"database/sql/driver"

	"github.com/pkg/errors"
)

// driverConnector wraps a driver.Driver to implement driver.Connector.
// This allows using sql.OpenDB() with drivers that don't natively support OpenConnector.
type driverConnector struct {
	driver driver.Driver
	dsn    string
}

func newDriverConnector(drv driver.Driver, dsn string) *driverConnector {
	return &driverConnector{driver: drv, dsn: dsn}
}

func (dc *driverConnector) Connect(_ context.Context) (driver.Conn, error) {
	return dc.driver.Open(dc.dsn)
}

func (dc *driverConnector) Driver() driver.Driver {
	return dc.driver
}

// pragmaConnector runs a fixed set of statements on every connection it
// opens, since SQLite pragmas are scoped to a single connection.
type pragmaConnector struct {
	connector driver.Connector
	pragmas   []string
}

func newPragmaConnector(connector driver.Connector, pragmas []string) *pragmaConnector {
	return &pragmaConnector{connector: connector, pragmas: pragmas}
}

func (pc *pragmaConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := pc.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}

	execer, ok := conn.(driver.ExecerContext)
	if !ok {
		conn.Close()
		return nil, errors.New("sqlite connection does not support ExecContext")
	}

	for _, pragma := range pc.pragmas {
		if _, err := execer.ExecContext(ctx, pragma, nil); err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "failed to run %q", pragma)
		}
	}

	return conn, nil
}

func (pc *pragmaConnector) Driver() driver.Driver {
	return pc.connector.Driver()
}
