package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/utils"
)

// Store persists binary media (avatars, uploaded course-content files) and
// hands out the public URLs the frontend renders. The backing is a local
// directory served by the reverse proxy; keys are slash-separated relative
// paths.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type localStore struct {
	log       *logger.Logger
	root      string
	urlPrefix string
}

func NewLocalStore(log *logger.Logger) (Store, error) {
	storeLog := log.With("service", "MediaStore")
	root := utils.GetEnv("MEDIA_ROOT", "./media", log)
	urlPrefix := strings.TrimRight(utils.GetEnv("MEDIA_URL_PREFIX", "/media", log), "/")

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root %s: %w", root, err)
	}
	return &localStore{log: storeLog, root: root, urlPrefix: urlPrefix}, nil
}

func (s *localStore) Save(ctx context.Context, key string, r io.Reader) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create media file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write media file: %w", err)
	}
	s.log.Debug("media saved", "key", key)
	return nil
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete media file: %w", err)
	}
	return nil
}

func (s *localStore) PublicURL(key string) string {
	return s.urlPrefix + "/" + strings.TrimLeft(key, "/")
}

// resolve joins key under root and rejects traversal outside it.
func (s *localStore) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("empty media key")
	}
	return filepath.Join(s.root, clean), nil
}
