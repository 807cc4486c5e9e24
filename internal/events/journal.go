package events

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Journal appends every message as one JSON line, for presentation processes
// that tail the file instead of sharing the daemon's memory.
type Journal struct {
	logger *zap.Logger
	closer io.Closer
}

// NewJournal writes JSON lines to ws.
func NewJournal(ws zapcore.WriteSyncer) *Journal {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.MessageKey = "event"
	enc.LevelKey = zapcore.OmitKey
	enc.CallerKey = zapcore.OmitKey
	enc.StacktraceKey = zapcore.OmitKey

	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), ws, zap.InfoLevel)
	return &Journal{logger: zap.New(core)}
}

// OpenJournal appends to the file at path, creating it and its directory.
func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	j := NewJournal(zapcore.Lock(f))
	j.closer = f
	return j, nil
}

// Emit appends msg.
func (j *Journal) Emit(msg Message) {
	fields := []zap.Field{zap.Time("at", msg.At)}
	if msg.Payload != nil {
		fields = append(fields, zap.Any("payload", msg.Payload))
	}
	j.logger.Info(msg.Name, fields...)
}

// Close flushes and closes the underlying file, if any.
func (j *Journal) Close() error {
	_ = j.logger.Sync()
	if j.closer == nil {
		return nil
	}
	return j.closer.Close()
}
