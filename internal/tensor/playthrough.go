package tensor

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FormatVersion is the replay container version this build writes and
// expects to read. A differing version on read is logged and decoding
// continues best-effort; it is the only recoverable error in the taxonomy.
const FormatVersion = 1

// File layout, all lengths little-endian:
//
//	[4-byte header length][header JSON]
//	repeat:
//	  [4-byte metadata length][metadata JSON]
//	  [8-byte state length][state payload]
//
// The state payload is the canonical flat-array form: context size and
// number dims as int32, the five id arrays as int32, then the encoded
// numbers as float32. Records are fully length-prefixed before any payload
// byte is written, so a reader treats a truncated trailing record as
// end-of-stream rather than corruption.

// maxStatePayloadBytes bounds a record's state length before allocation. The
// payload grows linearly with context size (5 int32 arrays plus the float32
// number planes), so even a 100k-token context stays under 8 MiB; anything
// beyond this is a corrupt length field, not a real record.
const maxStatePayloadBytes = 64 << 20

// fileHeader opens a playthrough file.
type fileHeader struct {
	Version       int           `json:"version"`
	NumRecords    int           `json:"num_records"`
	PlaythroughID string        `json:"playthrough_id"`
	Vocabulary    VocabSnapshot `json:"vocabulary"`
}

// stepMetadata is the per-record metadata JSON.
type stepMetadata struct {
	ActionType int     `json:"action_type"`
	CardIdx    int     `json:"card_idx"`
	TargetIdx  int     `json:"target_idx"`
	Reward     float64 `json:"reward"`
	Turn       int     `json:"turn"`
	EnemyIdx   *int    `json:"enemy_idx,omitempty"`
	MoveKind   *int    `json:"move_kind,omitempty"`
	Amount     *int    `json:"amount,omitempty"`
}

// SavePlaythrough writes every recorded step to path in the replay
// container format. Writes are sequential and append-only.
func (t *Tensorizer) SavePlaythrough(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("tensor: create replay directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tensor: create replay file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	header := fileHeader{
		Version:       FormatVersion,
		NumRecords:    len(t.steps),
		PlaythroughID: t.id,
		Vocabulary:    NewVocabSnapshot(),
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("tensor: encode header: %w", err)
	}
	if err := writePrefixed32(w, headerJSON); err != nil {
		return err
	}

	for i, step := range t.steps {
		meta := stepMetadata{
			ActionType: int(step.Action),
			CardIdx:    step.CardIdx,
			TargetIdx:  step.TargetIdx,
			Reward:     step.Reward,
			Turn:       step.Turn,
		}
		if step.EnemyMove != nil {
			meta.EnemyIdx = intPtr(step.EnemyMove.EnemyIdx)
			meta.MoveKind = intPtr(step.EnemyMove.MoveKind)
			meta.Amount = intPtr(step.EnemyMove.Amount)
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("tensor: encode metadata for record %d: %w", i, err)
		}
		if err := writePrefixed32(w, metaJSON); err != nil {
			return err
		}

		payload, err := marshalState(step.State)
		if err != nil {
			return fmt.Errorf("tensor: encode state for record %d: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint64(len(payload))); err != nil {
			return fmt.Errorf("tensor: write state length: %w", err)
		}
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("tensor: write state payload: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("tensor: flush replay file: %w", err)
	}

	t.logger.Info("saved playthrough",
		zap.String("path", path),
		zap.String("playthrough_id", t.id),
		zap.Int("records", len(t.steps)),
	)
	return nil
}

// Playthrough is a loaded replay file.
type Playthrough struct {
	Header fileHeader
	Steps  []Step
}

// ID returns the playthrough identifier from the header.
func (p *Playthrough) ID() string { return p.Header.PlaythroughID }

// Vocabulary returns the vocabulary snapshot from the header.
func (p *Playthrough) Vocabulary() VocabSnapshot { return p.Header.Vocabulary }

// LoadPlaythrough reads a replay file back into steps. End of input before
// a length prefix is normal stream termination; a truncated trailing record
// also reads as end-of-stream.
func LoadPlaythrough(path string, logger *zap.Logger) (*Playthrough, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tensor: open replay file: %w", err)
	}
	defer file.Close()

	r := bufio.NewReader(file)

	headerJSON, err := readPrefixed32(r)
	if err != nil {
		return nil, fmt.Errorf("tensor: read header: %w", err)
	}
	var header fileHeader
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("tensor: decode header: %w", err)
	}
	if header.Version != FormatVersion {
		logger.Warn("replay version mismatch, decoding best-effort",
			zap.Int("file_version", header.Version),
			zap.Int("expected_version", FormatVersion),
		)
	}

	p := &Playthrough{Header: header}
	for {
		metaJSON, err := readPrefixed32(r)
		if err != nil {
			// No further length prefix: normal termination, possibly a
			// truncated trailing record after an interrupted write.
			break
		}
		var meta stepMetadata
		if err := json.Unmarshal(metaJSON, &meta); err != nil {
			return nil, fmt.Errorf("tensor: decode metadata for record %d: %w", len(p.Steps), err)
		}

		var stateLen uint64
		if err := binary.Read(r, binary.LittleEndian, &stateLen); err != nil {
			break
		}
		if stateLen > maxStatePayloadBytes {
			return nil, fmt.Errorf("tensor: state length %d for record %d exceeds %d bytes, file corrupt", stateLen, len(p.Steps), maxStatePayloadBytes)
		}
		payload := make([]byte, stateLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			break
		}
		state, err := unmarshalState(payload)
		if err != nil {
			return nil, fmt.Errorf("tensor: decode state for record %d: %w", len(p.Steps), err)
		}

		step := Step{
			State:     state,
			Action:    ActionType(meta.ActionType),
			CardIdx:   meta.CardIdx,
			TargetIdx: meta.TargetIdx,
			Reward:    meta.Reward,
			Turn:      meta.Turn,
		}
		if meta.EnemyIdx != nil {
			step.EnemyMove = &EnemyMove{EnemyIdx: *meta.EnemyIdx}
			if meta.MoveKind != nil {
				step.EnemyMove.MoveKind = *meta.MoveKind
			}
			if meta.Amount != nil {
				step.EnemyMove.Amount = *meta.Amount
			}
		}
		p.Steps = append(p.Steps, step)
	}

	logger.Info("loaded playthrough",
		zap.String("path", path),
		zap.String("playthrough_id", header.PlaythroughID),
		zap.Int("records", len(p.Steps)),
	)
	return p, nil
}

// marshalState encodes a state into the flat-array payload.
func marshalState(state State) ([]byte, error) {
	var buf bytes.Buffer
	contextSize := int32(len(state.TokenKinds))
	if err := binary.Write(&buf, binary.LittleEndian, contextSize); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, int32(NumberEncodingDims)); err != nil {
		return nil, err
	}
	for _, arr := range [][]int32{state.TokenKinds, state.CardIDs, state.StatusIDs, state.IntentIDs, state.OpponentTypeIDs} {
		if err := binary.Write(&buf, binary.LittleEndian, arr); err != nil {
			return nil, err
		}
	}
	for _, enc := range state.Numbers {
		if err := binary.Write(&buf, binary.LittleEndian, enc); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// unmarshalState decodes a flat-array payload back into a state.
func unmarshalState(payload []byte) (State, error) {
	r := bytes.NewReader(payload)
	var contextSize, numberDims int32
	if err := binary.Read(r, binary.LittleEndian, &contextSize); err != nil {
		return State{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &numberDims); err != nil {
		return State{}, err
	}
	if contextSize < 0 || numberDims < 0 {
		return State{}, errors.New("negative array dimensions")
	}

	state := State{
		TokenKinds:      make([]int32, contextSize),
		CardIDs:         make([]int32, contextSize),
		StatusIDs:       make([]int32, contextSize),
		IntentIDs:       make([]int32, contextSize),
		OpponentTypeIDs: make([]int32, contextSize),
		Numbers:         make([][]float32, contextSize),
	}
	for _, arr := range [][]int32{state.TokenKinds, state.CardIDs, state.StatusIDs, state.IntentIDs, state.OpponentTypeIDs} {
		if err := binary.Read(r, binary.LittleEndian, arr); err != nil {
			return State{}, err
		}
	}
	for i := range state.Numbers {
		state.Numbers[i] = make([]float32, numberDims)
		if err := binary.Read(r, binary.LittleEndian, state.Numbers[i]); err != nil {
			return State{}, err
		}
	}
	return state, nil
}

// writePrefixed32 writes a 4-byte length then the bytes.
func writePrefixed32(w io.Writer, data []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
		return fmt.Errorf("tensor: write length prefix: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("tensor: write payload: %w", err)
	}
	return nil
}

// readPrefixed32 reads a 4-byte length then that many bytes. Any shortfall,
// including immediate EOF, is reported so the caller can treat it as stream
// termination.
func readPrefixed32(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

func intPtr(v int) *int { return &v }
