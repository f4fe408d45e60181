// Package storage persists runs as a directory holding metadata.json and
// states.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/motionsim/internal/dynamo"
	"github.com/san-kum/motionsim/internal/sim"
	"github.com/san-kum/motionsim/internal/vmath"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator,omitempty"`
	Steps      int                `json:"steps"`
	SettledAt  float64            `json:"settled_at"`
	Entities   []string           `json:"entities"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewMetadata fills the fields derived from a result.
func NewMetadata(scenario string, cfg sim.Config, result *sim.Result) RunMetadata {
	return RunMetadata{
		ID:        uuid.NewString(),
		Scenario:  scenario,
		Timestamp: time.Now(),
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Steps:     result.StepsTaken,
		SettledAt: result.SettledAt,
		Entities:  result.EntityIDs(),
		Metrics:   result.Metrics,
	}
}

var csvHeader = []string{"time", "id", "x", "y", "vx", "vy", "fx", "fy", "at_rest", "active"}

// Save writes the run and returns its directory name.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	runID := fmt.Sprintf("%s_%s", meta.Scenario, meta.ID[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for i, frame := range result.Frames {
		t := frame.Time
		if i < len(result.Times) {
			t = result.Times[i]
		}
		for _, e := range frame.Entities {
			row := []string{
				formatFloat(t), e.ID,
				formatFloat(e.Position.X), formatFloat(e.Position.Y),
				formatFloat(e.Velocity.X), formatFloat(e.Velocity.Y),
				formatFloat(e.Force.X), formatFloat(e.Force.Y),
				strconv.FormatBool(e.AtRest), strconv.FormatBool(e.Active),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads states.csv back into snapshots. Rows sharing a time form
// one frame. Malformed rows are skipped.
func (s *Store) LoadFrames(runID string) ([]dynamo.Snapshot, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	frames := make([]dynamo.Snapshot, 0)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < len(csvHeader) {
			continue
		}
		nums := make([]float64, 7)
		ok := true
		for j, col := range []int{0, 2, 3, 4, 5, 6, 7} {
			v, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				ok = false
				break
			}
			nums[j] = v
		}
		if !ok {
			continue
		}
		rest, _ := strconv.ParseBool(record[8])
		active, _ := strconv.ParseBool(record[9])

		t := nums[0]
		if n := len(frames); n == 0 || frames[n-1].Time != t {
			frames = append(frames, dynamo.Snapshot{Time: t})
		}
		last := &frames[len(frames)-1]
		last.Entities = append(last.Entities, dynamo.EntityState{
			ID:       record[1],
			Position: vmath.V2(nums[1], nums[2]),
			Velocity: vmath.V2(nums[3], nums[4]),
			Force:    vmath.V2(nums[5], nums[6]),
			AtRest:   rest,
			Active:   active,
		})
	}

	return frames, nil
}

// Tracks splits frames into per-entity position series, keyed by id.
func Tracks(frames []dynamo.Snapshot) map[string][]vmath.Vec2 {
	out := make(map[string][]vmath.Vec2)
	for _, f := range frames {
		for _, e := range f.Entities {
			out[e.ID] = append(out[e.ID], e.Position)
		}
	}
	return out
}
