package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chart-builder/backend/internal/export"
	"github.com/chart-builder/backend/internal/models"
	"github.com/chart-builder/backend/internal/trend"
)

// ErrUnknownGroup is returned for trend groups other than analog/binary.
var ErrUnknownGroup = errors.New("unknown trend group")

// Defaults are the field values a new session starts with.
type Defaults struct {
	ServerVersion   string
	ServerPath      string
	TrendPathAnalog string
	TrendPathBinary string
	IsModbus        bool
}

// FieldsUpdate changes the fields whose pointer is non-nil.
type FieldsUpdate struct {
	FileName        *string `json:"fileName"`
	ServerVersion   *string `json:"serverVersion"`
	ServerPath      *string `json:"serverPath"`
	TrendPathAnalog *string `json:"trendPathAnalog"`
	TrendPathBinary *string `json:"trendPathBinary"`
	IsModbus        *bool   `json:"isModbus"`
}

// EditSession is the state of one document being edited: the free-text
// fields, the two trend name lists and their display configs. All methods
// are safe for concurrent use.
type EditSession struct {
	mu           sync.Mutex
	id           string
	sourceFileID string
	fields       models.SessionFields
	analogText   string
	binaryText   string
	analog       *trend.ConfigSet
	binary       *trend.ConfigSet
	createdAt    time.Time
	lastAccessed time.Time
}

// NewEditSession creates a session with default fields and empty trend
// lists. The output file name defaults to the creation timestamp.
func NewEditSession(id string, d Defaults, now time.Time) *EditSession {
	return &EditSession{
		id: id,
		fields: models.SessionFields{
			FileName:        export.DefaultFileName(now),
			ServerVersion:   d.ServerVersion,
			ServerPath:      d.ServerPath,
			TrendPathAnalog: d.TrendPathAnalog,
			TrendPathBinary: d.TrendPathBinary,
			IsModbus:        d.IsModbus,
		},
		analog:       trend.NewConfigSet(nil),
		binary:       trend.NewConfigSet(nil),
		createdAt:    now,
		lastAccessed: now,
	}
}

// ID returns the session ID.
func (s *EditSession) ID() string {
	return s.id
}

func (s *EditSession) touch() {
	s.lastAccessed = time.Now()
}

func (s *EditSession) lastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessed
}

// Snapshot returns a copy of the session state.
func (s *EditSession) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.SessionSnapshot{
		ID:           s.id,
		SourceFileID: s.sourceFileID,
		Fields:       s.fields,
		AnalogNames:  s.analogText,
		BinaryNames:  s.binaryText,
		Analog:       s.analog.Entries(),
		Binary:       s.binary.Entries(),
		CreatedAt:    s.createdAt,
		LastAccessed: s.lastAccessed,
	}
}

// Fields returns the current free-text fields.
func (s *EditSession) Fields() models.SessionFields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields
}

// UpdateFields applies u.
func (s *EditSession) UpdateFields(u FieldsUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if u.FileName != nil {
		s.fields.FileName = strings.TrimSpace(*u.FileName)
	}
	if u.ServerVersion != nil {
		s.fields.ServerVersion = *u.ServerVersion
	}
	if u.ServerPath != nil {
		s.fields.ServerPath = *u.ServerPath
	}
	if u.TrendPathAnalog != nil {
		s.fields.TrendPathAnalog = *u.TrendPathAnalog
	}
	if u.TrendPathBinary != nil {
		s.fields.TrendPathBinary = *u.TrendPathBinary
	}
	if u.IsModbus != nil {
		s.fields.IsModbus = *u.IsModbus
	}
}

// ApplyExtraction loads an extraction result into the session. Values the
// document did not carry keep their current value; the Modbus flag is only
// ever switched on. Both trend lists are replaced and their display configs
// rebuilt with defaults.
func (s *EditSession) ApplyExtraction(fileID string, r *models.ExtractionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.sourceFileID = fileID
	if r.RuntimeVersion != nil {
		s.fields.ServerVersion = *r.RuntimeVersion
	}
	if r.ServerFullPath != nil {
		s.fields.ServerPath = *r.ServerFullPath
	}
	if r.PathAnalog != nil {
		s.fields.TrendPathAnalog = *r.PathAnalog
	}
	if r.PathBinary != nil {
		s.fields.TrendPathBinary = *r.PathBinary
	}
	if r.IsModbus {
		s.fields.IsModbus = true
	}

	s.setNamesLocked(models.GroupAnalog, joinNames(r.TrendsAnalog))
	s.setNamesLocked(models.GroupBinary, joinNames(r.TrendsBinary))

	fmt.Printf("[Session %s] Applied extraction: %d analog, %d binary trends, modbus=%v\n",
		shortID(s.id), s.analog.Len(), s.binary.Len(), s.fields.IsModbus)
}

func joinNames(names []string) string {
	trimmed := make([]string, len(names))
	for i, n := range names {
		trimmed[i] = strings.TrimSpace(n)
	}
	return strings.Join(trimmed, "\n")
}

// SetTrendNames replaces a group's trend names and rebuilds its display
// configs from scratch.
func (s *EditSession) SetTrendNames(group models.TrendGroup, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if _, err := s.setLocked(group); err != nil {
		return err
	}
	s.setNamesLocked(group, text)
	return nil
}

func (s *EditSession) setNamesLocked(group models.TrendGroup, text string) {
	if group == models.GroupBinary {
		s.binaryText = text
		s.binary.RebuildFromText(text)
		return
	}
	s.analogText = text
	s.analog.RebuildFromText(text)
}

func (s *EditSession) setLocked(group models.TrendGroup) (*trend.ConfigSet, error) {
	switch group {
	case models.GroupAnalog:
		return s.analog, nil
	case models.GroupBinary:
		return s.binary, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
}

// withSet runs fn on the config set of group while holding the lock.
func (s *EditSession) withSet(group models.TrendGroup, fn func(*trend.ConfigSet) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	set, err := s.setLocked(group)
	if err != nil {
		return err
	}
	return fn(set)
}

// SetEntry sets display type and color of one trend.
func (s *EditSession) SetEntry(group models.TrendGroup, index int, displayType models.DisplayType, colorHex string) error {
	return s.withSet(group, func(set *trend.ConfigSet) error {
		return set.SetEntry(index, displayType, colorHex)
	})
}

// SetEntryDisplayType sets only the display type of one trend.
func (s *EditSession) SetEntryDisplayType(group models.TrendGroup, index int, displayType models.DisplayType) error {
	return s.withSet(group, func(set *trend.ConfigSet) error {
		return set.SetDisplayType(index, displayType)
	})
}

// SetEntryColor applies a color picker result to one trend.
func (s *EditSession) SetEntryColor(group models.TrendGroup, index int, choice trend.ColorChoice) error {
	return s.withSet(group, func(set *trend.ConfigSet) error {
		return set.SetColor(index, choice)
	})
}

// Replicate copies one trend's style to the rest of its group.
func (s *EditSession) Replicate(group models.TrendGroup, sourceIndex int) error {
	return s.withSet(group, func(set *trend.ConfigSet) error {
		return set.Replicate(sourceIndex)
	})
}

// ApplyPresets styles a group from presets and returns how many trends
// changed.
func (s *EditSession) ApplyPresets(group models.TrendGroup, p *trend.StylePresets) (int, error) {
	changed := 0
	err := s.withSet(group, func(set *trend.ConfigSet) error {
		changed = p.Apply(set)
		return nil
	})
	return changed, err
}

// BuildContext assembles the export context from the current state.
func (s *EditSession) BuildContext() (models.ExportContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	return export.Build(export.Input{
		ServerPath:      s.fields.ServerPath,
		ServerVersion:   s.fields.ServerVersion,
		TrendPathAnalog: s.fields.TrendPathAnalog,
		TrendPathBinary: s.fields.TrendPathBinary,
		IsModbus:        s.fields.IsModbus,
		Analog:          s.analog,
		Binary:          s.binary,
	})
}

// Export builds the context and writes it with w under the session's file
// name. The session state is left as is whatever the outcome.
func (s *EditSession) Export(w *export.Writer) (string, models.ExportContext, error) {
	ctx, err := s.BuildContext()
	if err != nil {
		return "", ctx, err
	}

	fileName, err := w.Write(ctx, s.Fields().FileName)
	if err != nil {
		fmt.Printf("[Session %s] Export failed: %v\n", shortID(s.id), err)
		return "", ctx, err
	}
	return fileName, ctx, nil
}

// shortID safely truncates an ID for logging.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
