// ABOUTME: Page archive for raw listing responses, keyed by the page URL.
// ABOUTME: Drivers: fs, memory, badger, charm (badger with cloud sync) and s3.
package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Driver names an archive backend.
type Driver string

const (
	DriverFS     Driver = "fs"
	DriverMemory Driver = "memory"
	DriverBadger Driver = "badger"
	DriverCharm  Driver = "charm"
	DriverS3     Driver = "s3"
)

// ErrNotFound is returned by Get when no page is stored under the key.
var ErrNotFound = errors.New("archive: page not found")

// Store holds raw page bodies.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Driver() Driver
	Close() error
}

// Config selects and configures a driver. Fields unused by the driver are ignored.
type Config struct {
	Driver    string
	Dir       string // fs root, badger directory
	Name      string // charm database name
	CharmHost string
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
}

// Enabled reports whether an archive driver is configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Driver) != ""
}

// Open returns the store for cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch Driver(strings.ToLower(strings.TrimSpace(cfg.Driver))) {
	case DriverFS:
		return NewFS(cfg.Dir)
	case DriverMemory:
		return NewMemory(), nil
	case DriverBadger:
		return NewBadger(cfg.Dir)
	case DriverCharm:
		return NewCharm(cfg.Name, cfg.CharmHost)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			PathStyle: cfg.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown archive driver %q", cfg.Driver)
	}
}

// PageKey maps a page URL onto its archive key.
func PageKey(pageURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(pageURL)))
	return "pages/" + hex.EncodeToString(sum[:]) + ".json"
}
