// Package settings is the single access point for the persisted extension
// switches. Every read goes to the store; nothing is cached in memory.
package settings

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/ppiankov/policywatch/internal/model"
	"go.uber.org/zap"
)

// Keys lists every persisted key in display order
var Keys = []string{
	model.KeyAutoAnalyze,
	model.KeyShowNotifications,
	model.KeyExtensionEnabled,
}

// Service reads and writes ExtensionSettings through a Store
type Service struct {
	store  Store
	logger *zap.Logger

	// serializes read-modify-write cycles
	mu sync.Mutex
}

// NewService creates a settings service over store
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Get returns the current settings. Missing keys read as their defaults.
func (s *Service) Get() (model.ExtensionSettings, error) {
	values, err := s.load()
	if err != nil {
		return model.ExtensionSettings{}, err
	}

	defaults := model.DefaultSettings().AsMap()
	resolved := make(map[string]bool, len(Keys))
	for _, key := range Keys {
		raw, ok := values[key]
		if !ok {
			resolved[key] = defaults[key].(bool)
			continue
		}
		b, ok := raw.(bool)
		if !ok {
			return model.ExtensionSettings{}, fmt.Errorf("%w: %s=%v", ErrInvalidValue, key, raw)
		}
		resolved[key] = b
	}

	return model.ExtensionSettings{
		AutoAnalyze:       resolved[model.KeyAutoAnalyze],
		ShowNotifications: resolved[model.KeyShowNotifications],
		ExtensionEnabled:  resolved[model.KeyExtensionEnabled],
	}, nil
}

// Set writes a single key
func (s *Service) Set(key string, value bool) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	if err := s.store.Save(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	s.logger.Debug("setting updated", zap.String("key", key), zap.Bool("value", value))
	return nil
}

// Update writes every field of settings at once
func (s *Service) Update(settings model.ExtensionSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	for key, value := range settings.AsMap() {
		values[key] = value
	}
	if err := s.store.Save(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// InitDefaults writes the default for every key not yet present and
// returns the keys it wrote. Existing values are never overwritten.
func (s *Service) InitDefaults() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return nil, err
	}

	defaults := model.DefaultSettings().AsMap()
	var written []string
	for _, key := range Keys {
		if _, ok := values[key]; ok {
			continue
		}
		values[key] = defaults[key]
		written = append(written, key)
	}

	if len(written) == 0 {
		return nil, nil
	}
	if err := s.store.Save(values); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	s.logger.Info("settings defaults initialized", zap.Strings("keys", written))
	return written, nil
}

func (s *Service) load() (map[string]any, error) {
	values, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}

// ParseAssignment parses a "key=value" pair as typed on the command line
func ParseAssignment(s string) (string, bool, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok {
		return "", false, fmt.Errorf("%w: expected key=value, got %q", ErrInvalidValue, s)
	}
	key = strings.TrimSpace(key)
	if !slices.Contains(Keys, key) {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return "", false, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
	}
	return key, value, nil
}
