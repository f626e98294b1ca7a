// Package archive writes flushed rounds to compressed JSONL files, one file
// per match. The archive is append-only cold storage; replay queries go
// through the event repository, not through these files.
package archive

import (
	"bufio"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"gearverse/internal/domain/game"
)

type roundEntry struct {
	MatchID string       `json:"match_id"`
	Round   int          `json:"round"`
	Events  []game.Event `json:"events"`
}

type matchFile struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Writer is a round sink that appends one JSONL line per flushed round to
// <baseDir>/<matchID>.jsonl.zst.
type Writer struct {
	baseDir string
	log     *log.Logger

	mu    sync.Mutex
	files map[string]*matchFile
}

func NewWriter(baseDir string, logger *log.Logger) *Writer {
	return &Writer{
		baseDir: baseDir,
		log:     logger,
		files:   map[string]*matchFile{},
	}
}

// PublishRound implements the round sink port. Archive failures are logged,
// never surfaced: the engine's durability guarantee lives in the event
// repository, and a broken archive must not stall a match.
func (w *Writer) PublishRound(matchID string, round int, events []game.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	mf, err := w.fileLocked(matchID)
	if err != nil {
		w.log.Printf("archive: open %s: %v", matchID, err)
		return
	}
	b, err := json.Marshal(roundEntry{MatchID: matchID, Round: round, Events: events})
	if err != nil {
		w.log.Printf("archive: marshal round %d: %v", round, err)
		return
	}
	if _, err := mf.w.Write(b); err == nil {
		if err := mf.w.WriteByte('\n'); err == nil {
			err = mf.w.Flush()
		}
	}
	if err != nil {
		w.log.Printf("archive: write %s round %d: %v", matchID, round, err)
	}
}

func (w *Writer) fileLocked(matchID string) (*matchFile, error) {
	if mf, ok := w.files[matchID]; ok {
		return mf, nil
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(w.baseDir, matchID+".jsonl.zst")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	mf := &matchFile{f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}
	w.files[matchID] = mf
	return mf, nil
}

// CloseMatch flushes and closes one match's archive file.
func (w *Writer) CloseMatch(matchID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	mf, ok := w.files[matchID]
	if !ok {
		return nil
	}
	delete(w.files, matchID)
	return mf.close()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var first error
	for id, mf := range w.files {
		if err := mf.close(); err != nil && first == nil {
			first = err
		}
		delete(w.files, id)
	}
	return first
}

func (mf *matchFile) close() error {
	_ = mf.w.Flush()
	err := mf.enc.Close()
	_ = mf.f.Close()
	return err
}
