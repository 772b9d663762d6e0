package tensor

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/deckforge/battlesim/internal/battle"
)

// recordedExpectation is the ground truth captured at record time.
type recordedExpectation struct {
	hp       int
	energy   int
	handSize int
}

// recordTenStepPlaythrough drives five scripted turns and records two steps
// per turn, returning the tensorizer and the per-record ground truth.
func recordTenStepPlaythrough(t *testing.T) (*Tensorizer, []recordedExpectation) {
	t.Helper()
	b := battle.NewIroncladVsCultist(nil, 42)
	tz := New(Config{ContextSize: 128, IncludeTurnMarker: true}, nil)

	var expected []recordedExpectation
	snapshot := func() {
		expected = append(expected, recordedExpectation{
			hp:       b.Player().CurrentHealth,
			energy:   b.Player().Energy,
			handSize: len(b.Player().Hand),
		})
	}

	for turn := 0; turn < 5; turn++ {
		require.NoError(t, b.StartTurn())

		snapshot()
		require.NoError(t, tz.RecordPlayCard(b, 0, 0, 0))
		require.NoError(t, b.PlayCardFromHand(0, 0))

		snapshot()
		require.NoError(t, tz.RecordEndTurn(b, 0))
		require.NoError(t, b.EndTurn())
	}

	require.Len(t, tz.Steps(), 10)
	return tz, expected
}

func TestSaveAndReloadPlaythrough(t *testing.T) {
	tz, expected := recordTenStepPlaythrough(t)

	path := filepath.Join(t.TempDir(), "run.replay")
	require.NoError(t, tz.SavePlaythrough(path))

	loaded, err := LoadPlaythrough(path, nil)
	require.NoError(t, err)

	assert.Equal(t, FormatVersion, loaded.Header.Version)
	assert.Equal(t, tz.ID(), loaded.ID())
	assert.Equal(t, 10, loaded.Header.NumRecords)
	assert.Equal(t, NewVocabSnapshot(), loaded.Vocabulary())
	require.Len(t, loaded.Steps, 10)

	decoded := DecodePlaythrough(loaded.Steps)
	for i, step := range decoded {
		assert.Equal(t, expected[i].hp, step.Player.HP, "record %d health", i)
		assert.Equal(t, expected[i].energy, step.Player.Energy, "record %d energy", i)
		assert.Len(t, step.Player.Hand, expected[i].handSize, "record %d hand", i)
	}

	// The in-memory and reloaded states must be byte-for-byte equivalent.
	for i := range tz.Steps() {
		assert.Equal(t, tz.Steps()[i].State, loaded.Steps[i].State, "record %d state", i)
		assert.Equal(t, tz.Steps()[i].Action, loaded.Steps[i].Action)
		assert.Equal(t, tz.Steps()[i].CardIdx, loaded.Steps[i].CardIdx)
	}
}

func TestEnemyMoveMetadataRoundTrip(t *testing.T) {
	b := battle.NewIroncladVsCultist(nil, 7)
	require.NoError(t, b.StartTurn())

	tz := New(DefaultConfig(), nil)
	require.NoError(t, tz.RecordEnemyAction(b, 0, battle.NextMove{Kind: battle.MoveRitual, Amount: 4}, 0))

	path := filepath.Join(t.TempDir(), "enemy.replay")
	require.NoError(t, tz.SavePlaythrough(path))

	loaded, err := LoadPlaythrough(path, nil)
	require.NoError(t, err)
	require.Len(t, loaded.Steps, 1)

	move := loaded.Steps[0].EnemyMove
	require.NotNil(t, move)
	assert.Equal(t, 0, move.EnemyIdx)
	assert.Equal(t, int(battle.MoveRitual), move.MoveKind)
	assert.Equal(t, 4, move.Amount)
	assert.Equal(t, ActionNoOp, loaded.Steps[0].Action)
}

func TestTruncatedTrailingRecordReadsAsEndOfStream(t *testing.T) {
	tz, _ := recordTenStepPlaythrough(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "full.replay")
	require.NoError(t, tz.SavePlaythrough(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	truncated := filepath.Join(dir, "truncated.replay")
	require.NoError(t, os.WriteFile(truncated, data[:len(data)-64], 0644))

	loaded, err := LoadPlaythrough(truncated, nil)
	require.NoError(t, err, "a torn trailing record is stream termination, not corruption")
	assert.Equal(t, 9, len(loaded.Steps))
}

func TestVersionMismatchLoadsBestEffort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.replay")

	file, err := os.Create(path)
	require.NoError(t, err)
	w := bufio.NewWriter(file)

	headerJSON, err := json.Marshal(fileHeader{
		Version:       FormatVersion + 1,
		NumRecords:    1,
		PlaythroughID: "legacy",
		Vocabulary:    NewVocabSnapshot(),
	})
	require.NoError(t, err)
	require.NoError(t, writePrefixed32(w, headerJSON))

	metaJSON, err := json.Marshal(stepMetadata{ActionType: int(ActionEndTurn), CardIdx: -1, TargetIdx: -1})
	require.NoError(t, err)
	require.NoError(t, writePrefixed32(w, metaJSON))

	payload, err := marshalState(newPaddedState(8))
	require.NoError(t, err)
	require.NoError(t, binary.Write(w, binary.LittleEndian, uint64(len(payload))))
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	require.NoError(t, file.Close())

	core, logs := observer.New(zap.WarnLevel)
	loaded, err := LoadPlaythrough(path, zap.New(core))
	require.NoError(t, err)

	require.Len(t, loaded.Steps, 1)
	assert.Equal(t, ActionEndTurn, loaded.Steps[0].Action)
	assert.Equal(t, "legacy", loaded.ID())

	entries := logs.FilterMessage("replay version mismatch, decoding best-effort").All()
	require.Len(t, entries, 1)
}

func TestCorruptStateLengthIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.replay")

	file, err := os.Create(path)
	require.NoError(t, err)
	w := bufio.NewWriter(file)

	headerJSON, err := json.Marshal(fileHeader{
		Version:       FormatVersion,
		NumRecords:    1,
		PlaythroughID: "corrupt",
		Vocabulary:    NewVocabSnapshot(),
	})
	require.NoError(t, err)
	require.NoError(t, writePrefixed32(w, headerJSON))

	metaJSON, err := json.Marshal(stepMetadata{ActionType: int(ActionNoOp), CardIdx: -1, TargetIdx: -1})
	require.NoError(t, err)
	require.NoError(t, writePrefixed32(w, metaJSON))

	// A garbage length field far beyond any real record must be refused
	// before allocation, not treated as truncation.
	require.NoError(t, binary.Write(w, binary.LittleEndian, uint64(1)<<40))
	require.NoError(t, w.Flush())
	require.NoError(t, file.Close())

	_, err = LoadPlaythrough(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestStatePayloadRoundTrip(t *testing.T) {
	b := battle.NewIroncladVsCultist(nil, 3)
	require.NoError(t, b.StartTurn())

	state, err := New(Config{ContextSize: 64, IncludeTurnMarker: true}, nil).Tensorize(b)
	require.NoError(t, err)

	payload, err := marshalState(state)
	require.NoError(t, err)

	back, err := unmarshalState(payload)
	require.NoError(t, err)
	assert.Equal(t, state, back)

	_, err = unmarshalState(payload[:8])
	assert.Error(t, err, "a short payload must be rejected")
}
