// =============================================================================
// Contract Generator - Working Session
// =============================================================================
//
// Holds the state of one in-memory working session: the decoded settlement,
// the two loaded templates, the current generation result and the lot
// selection. The session walks a fixed state machine per pass:
//
//   Idle -> Validating -> (Invalid | Ready) -> Rendering -> Built
//
// Invalid returns to Ready only via corrected input; Built is terminal until
// the next full pass, which always starts a fresh used-name set and a fresh
// lot sequence. Nothing survives the session: there is no persistence.
//
// =============================================================================

package session

import (
	"fmt"
	"time"

	"github.com/cmslivestock/contractgen/internal/bundle"
	"github.com/cmslivestock/contractgen/internal/lots"
	"github.com/cmslivestock/contractgen/internal/normalize"
	"github.com/cmslivestock/contractgen/internal/render"
	"github.com/cmslivestock/contractgen/internal/schema"
	"github.com/cmslivestock/contractgen/internal/tabular"
)

// State is the session's position in the generation lifecycle.
type State int

const (
	// StateIdle: no settlement loaded.
	StateIdle State = iota
	// StateInvalid: settlement decoded but the schema check failed;
	// generation is disabled until corrected input is loaded.
	StateInvalid
	// StateReady: settlement loaded and schema-valid.
	StateReady
	// StateBuilt: a generation pass has completed; results are available.
	StateBuilt
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInvalid:
		return "invalid"
	case StateReady:
		return "ready"
	case StateBuilt:
		return "built"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// =============================================================================
// SESSION
// =============================================================================

// Session is one operator working session. It is not safe for concurrent use;
// the pipeline is a single logical thread.
type Session struct {
	builder  *lots.Builder
	required []string
	logger   lots.Logger

	state     state
	buyerTpl  []byte
	sellerTpl []byte
}

// state bundles everything replaced wholesale by a pass or a clear.
type state struct {
	current State
	table   *tabular.Table
	result  *lots.GenerationResult
}

// New creates a session with its collaborators injected.
func New(normalizer *normalize.Normalizer, engine render.Engine, required []string, logger lots.Logger) *Session {
	return &Session{
		builder:  lots.NewBuilder(normalizer, engine, logger),
		required: required,
		logger:   logger,
		state:    state{current: StateIdle},
	}
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	return s.state.current
}

// =============================================================================
// INPUT LOADING
// =============================================================================

// LoadData decodes and schema-checks a settlement payload. On a decode error
// or a schema failure the previously loaded settlement (if any) is discarded
// and no rows are published; decode errors leave the session Idle, schema
// failures leave it Invalid with the error describing the missing columns.
func (s *Session) LoadData(raw []byte) error {
	s.state = state{current: StateIdle}

	table, err := tabular.Decode(raw)
	if err != nil {
		return err
	}

	if err := schema.Check(table.Headers, s.required); err != nil {
		s.state.current = StateInvalid
		return err
	}

	s.state.table = table
	s.state.current = StateReady
	s.logger.Infof("settlement loaded: %d columns, %d rows", len(table.Headers), len(table.Rows))
	return nil
}

// LoadBuyerTemplate loads the buyer contract template bytes.
func (s *Session) LoadBuyerTemplate(data []byte) {
	s.buyerTpl = data
}

// LoadSellerTemplate loads the seller contract template bytes.
func (s *Session) LoadSellerTemplate(data []byte) {
	s.sellerTpl = data
}

// CanGenerate reports whether a pass can run: valid settlement plus both
// templates.
func (s *Session) CanGenerate() bool {
	return (s.state.current == StateReady || s.state.current == StateBuilt) &&
		len(s.buyerTpl) > 0 && len(s.sellerTpl) > 0
}

// =============================================================================
// GENERATION
// =============================================================================

// Generate runs a full pass over the loaded settlement. Each call replaces
// the previous result wholesale; there is no incremental generation.
func (s *Session) Generate() (*lots.GenerationResult, error) {
	switch s.state.current {
	case StateIdle:
		return nil, fmt.Errorf("no settlement loaded")
	case StateInvalid:
		return nil, fmt.Errorf("settlement failed schema validation; generation is disabled")
	}

	result, err := s.builder.Build(s.state.table.Rows, s.buyerTpl, s.sellerTpl)
	if err != nil {
		return nil, err
	}

	s.state.result = result
	s.state.current = StateBuilt
	return result, nil
}

// Result returns the current generation result, or nil before the first pass.
func (s *Session) Result() *lots.GenerationResult {
	return s.state.result
}

// Lots returns the generated lots in source order, or nil before the first
// pass.
func (s *Session) Lots() []*lots.Lot {
	if s.state.result == nil {
		return nil
	}
	return s.state.result.Lots
}

// =============================================================================
// SELECTION
// =============================================================================

// Select marks the lots with the given IDs as selected. Unknown IDs are
// reported so a mistyped selection fails loudly instead of silently bundling
// everything.
func (s *Session) Select(ids ...string) error {
	known := make(map[string]*lots.Lot, len(s.Lots()))
	for _, lot := range s.Lots() {
		known[lot.ID] = lot
	}
	for _, id := range ids {
		lot, ok := known[id]
		if !ok {
			return fmt.Errorf("unknown lot id %q", id)
		}
		lot.Selected = true
	}
	return nil
}

// SelectAll marks every lot.
func (s *Session) SelectAll() {
	s.SelectWhere(func(*lots.Lot) bool { return true })
}

// SelectWhere marks every lot matching the predicate.
func (s *Session) SelectWhere(match func(*lots.Lot) bool) {
	for _, lot := range s.Lots() {
		if match(lot) {
			lot.Selected = true
		}
	}
}

// ClearSelection unmarks every lot.
func (s *Session) ClearSelection() {
	for _, lot := range s.Lots() {
		lot.Selected = false
	}
}

// =============================================================================
// BUNDLING
// =============================================================================

// Assemble packages the selected lots (all lots when none are selected) for
// the given mode and returns the archive bytes plus its delivery filename.
func (s *Session) Assemble(mode bundle.Mode) ([]byte, string, error) {
	if s.state.current != StateBuilt {
		return nil, "", fmt.Errorf("no generation result available")
	}

	selection := make(map[string]bool)
	for _, lot := range s.Lots() {
		if lot.Selected {
			selection[lot.ID] = true
		}
	}

	data, err := bundle.Assemble(s.Lots(), mode, selection)
	if err != nil {
		return nil, "", err
	}
	return data, bundle.ArchiveName(mode, time.Now()), nil
}

// =============================================================================
// CLEAR
// =============================================================================

// Clear drops the settlement, templates and results, returning to Idle.
func (s *Session) Clear() {
	s.state = state{current: StateIdle}
	s.buyerTpl = nil
	s.sellerTpl = nil
}
