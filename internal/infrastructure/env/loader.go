package env

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"lumen.build/cli/internal/logging"
)

// ModeKey is defaulted to the effective mode during loading so build code
// and plugins can branch on it.
const ModeKey = "LUMEN_MODE"

// Loader reads the project's dotenv files into a Store. Files are read most
// specific first (.env.<mode>.local, .env.<mode>, .env.local, .env); because
// values apply through SetDefault, earlier (more specific) files and the
// real environment win.
type Loader struct {
	dir    string
	store  Store
	logger logging.Logger
}

func NewLoader(dir string, store Store, logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Loader{dir: dir, store: store, logger: logger}
}

// Load applies the dotenv files for mode. Missing files are skipped;
// unreadable or malformed files are an error.
func (l *Loader) Load(mode string) error {
	files := []string{
		".env." + mode + ".local",
		".env." + mode,
		".env.local",
		".env",
	}
	for _, name := range files {
		path := filepath.Join(l.dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		values, err := godotenv.Read(path)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}
		l.logger.Debug("loaded env file %s (%d values)", name, len(values))
		for k, v := range values {
			l.store.SetDefault(k, v)
		}
	}
	l.store.SetDefault(ModeKey, mode)
	return nil
}
