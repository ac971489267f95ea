package testutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
)

// LogEntry is one decoded JSON log line.
type LogEntry map[string]any

// Level returns the entry's level ("DEBUG", "INFO", ...).
func (e LogEntry) Level() string {
	s, _ := e[slog.LevelKey].(string)
	return s
}

// Message returns the entry's message.
func (e LogEntry) Message() string {
	s, _ := e[slog.MessageKey].(string)
	return s
}

// LogCapture records every log line written through its Logger.
//
// Thread-safety: safe for concurrent use via internal mutex.
type LogCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewLogCapture returns a capture and a debug-level JSON logger writing to it.
func NewLogCapture() (*LogCapture, *slog.Logger) {
	c := &LogCapture{}
	return c, slog.New(slog.NewJSONHandler(c, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Write implements io.Writer.
func (c *LogCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// Entries decodes every captured line.
func (c *LogCapture) Entries() []LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	var entries []LogEntry
	sc := bufio.NewScanner(bytes.NewReader(c.buf.Bytes()))
	for sc.Scan() {
		var e LogEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

// Count returns how many entries have the given level and message.
func (c *LogCapture) Count(level, msg string) int {
	n := 0
	for _, e := range c.Entries() {
		if e.Level() == level && e.Message() == msg {
			n++
		}
	}
	return n
}
