package config

import (
	"context"

	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/knadh/koanf/providers/file"
)

// Watch reloads the configuration whenever the config file is written and
// passes the result to onChange, until ctx is done. The file must exist.
// Watching uses the OS filesystem whatever WithFS was given.
func (s *Store) Watch(ctx context.Context, onChange func(*Config)) error {
	provider := file.Provider(s.path)

	err := provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("Stopped watching config file")
			return
		}

		cfg, err := s.Load()
		if err != nil {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("Config file changed but could not be loaded")
			return
		}
		s.logger.Info().Str("path", s.path).Msg("Config file changed")
		onChange(cfg)
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot watch config file %s", s.path)
	}

	go func() {
		<-ctx.Done()
		_ = provider.Unwatch()
	}()
	return nil
}
