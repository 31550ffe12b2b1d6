package settings

import (
	"context"
	"io"
	"os"

	"github.com/metafates/gache"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/weather-insights/internal/models"
)

// FileRepository keeps preferences in a JSON file through gache.
type FileRepository struct {
	cache *gache.Cache[*models.Preferences]
}

// NewFileRepository stores preferences at path on fs.
func NewFileRepository(fs afero.Fs, path string) *FileRepository {
	return &FileRepository{
		cache: gache.New[*models.Preferences](&gache.Options{
			Path:       path,
			FileSystem: gacheFs{fs: fs},
		}),
	}
}

// Load returns the stored preferences, or the defaults when nothing usable is stored.
func (r *FileRepository) Load(_ context.Context) (models.Preferences, error) {
	cached, expired, err := r.cache.Get()
	if err != nil {
		log.WithError(err).Warn("Failed to read stored preferences, using defaults")
		return models.DefaultPreferences(), nil
	}
	if expired || cached == nil {
		return models.DefaultPreferences(), nil
	}
	return cached.Normalize(), nil
}

// Save replaces the stored preferences.
func (r *FileRepository) Save(_ context.Context, prefs models.Preferences) error {
	prefs = prefs.Normalize()
	return r.cache.Set(&prefs)
}

// gacheFs adapts an afero filesystem to gache.
type gacheFs struct {
	fs afero.Fs
}

func (g gacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return g.fs.OpenFile(name, flag, perm)
}

func (g gacheFs) MkdirAll(path string, perm os.FileMode) error {
	return g.fs.MkdirAll(path, perm)
}
