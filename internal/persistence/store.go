// Package persistence exports trained position models to disk as JSON and
// loads them back, so a trained state can be inspected or restored without
// rerunning training.
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/smart-starter/internal/engine"
	"github.com/yourusername/smart-starter/internal/models"
	"github.com/yourusername/smart-starter/internal/regress"
)

// modelFileVersion guards against loading exports written by an
// incompatible estimator encoding.
const modelFileVersion = 1

// ModelFile is the on-disk envelope for one position's trained model
type ModelFile struct {
	Version     int                      `json:"version"`
	Position    models.Position          `json:"position"`
	Family      string                   `json:"family"`
	Estimator   json.RawMessage          `json:"estimator"`
	Scaler      *regress.StandardScaler  `json:"scaler"`
	Performance models.ModelPerformance  `json:"performance"`
	Importance  models.FeatureImportance `json:"importance,omitempty"`
	ExportedAt  time.Time                `json:"exported_at"`
}

// Store reads and writes model export files under a base directory
type Store struct {
	dir    string
	logger *logrus.Logger
}

// NewStore creates a model store rooted at dir
func NewStore(dir string, logger *logrus.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Export writes one JSON file per usable model in the registry. Untrained
// entries are skipped; they carry no estimator state worth keeping.
func (s *Store) Export(registry *engine.Registry) (int, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create model directory: %w", err)
	}

	exported := 0
	for _, position := range models.AllPositions {
		model, ok := registry.Get(position)
		if !ok || !model.Usable() {
			continue
		}

		if err := s.exportOne(position, model); err != nil {
			return exported, err
		}
		exported++
	}

	s.logger.WithFields(logrus.Fields{
		"dir":    s.dir,
		"models": exported,
	}).Info("Exported trained models")

	return exported, nil
}

func (s *Store) exportOne(position models.Position, model *engine.PositionModel) error {
	estimator, err := json.Marshal(model.Estimator)
	if err != nil {
		return fmt.Errorf("failed to marshal %s estimator: %w", position, err)
	}

	file := ModelFile{
		Version:     modelFileVersion,
		Position:    position,
		Family:      model.Estimator.Name(),
		Estimator:   estimator,
		Scaler:      model.Scaler,
		Performance: model.Performance,
		Importance:  model.Importance,
		ExportedAt:  time.Now().UTC(),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s model file: %w", position, err)
	}

	path := s.path(position)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s model file: %w", position, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to finalize %s model file: %w", position, err)
	}

	return nil
}

// Load reads one position's exported model. Returns models.ErrNotFound
// when no export exists for the position.
func (s *Store) Load(position models.Position) (*engine.PositionModel, error) {
	data, err := os.ReadFile(s.path(position))
	if os.IsNotExist(err) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s model file: %w", position, err)
	}

	var file ModelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s model file: %w", position, err)
	}

	if file.Version != modelFileVersion {
		return nil, fmt.Errorf("unsupported model file version %d for %s", file.Version, position)
	}

	estimator, err := decodeEstimator(file.Family, file.Estimator)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s estimator: %w", position, err)
	}

	return &engine.PositionModel{
		Estimator:   estimator,
		Scaler:      file.Scaler,
		Performance: file.Performance,
		Importance:  file.Importance,
	}, nil
}

// LoadRegistry loads every exported model into a registry. Positions with
// no export file are simply absent from the result.
func (s *Store) LoadRegistry() (*engine.Registry, error) {
	entries := make(map[models.Position]*engine.PositionModel)

	for _, position := range models.AllPositions {
		model, err := s.Load(position)
		if err == models.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries[position] = model
	}

	return engine.NewRegistry(entries), nil
}

func (s *Store) path(position models.Position) string {
	name := strings.ToLower(string(position)) + ".json"
	return filepath.Join(s.dir, name)
}

// decodeEstimator reconstructs a concrete estimator from its family name
// and serialized state
func decodeEstimator(family string, raw json.RawMessage) (regress.Estimator, error) {
	switch family {
	case regress.FamilyRandomForest:
		est := &regress.RandomForestRegressor{}
		if err := json.Unmarshal(raw, est); err != nil {
			return nil, err
		}
		return est, nil
	case regress.FamilyGradientBoosting:
		est := &regress.GradientBoostingRegressor{}
		if err := json.Unmarshal(raw, est); err != nil {
			return nil, err
		}
		return est, nil
	case regress.FamilyLinear:
		est := &regress.LinearRegressor{}
		if err := json.Unmarshal(raw, est); err != nil {
			return nil, err
		}
		return est, nil
	default:
		return nil, fmt.Errorf("unknown estimator family %q", family)
	}
}
