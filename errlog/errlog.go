// Package errlog appends failure events to a plain text file. The file is
// for humans reading back a run, never parsed by machines.
package errlog

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

// A Log is an append-only error log that is safe to write from many
// goroutines at once.
type Log struct {
	mu   sync.Mutex
	file *os.File
}

// Open opens (or creates) the log file for appending. If the file can't be
// opened, the returned Log still works: events just go to stderr.
func Open(filename string) *Log {
	file, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("error opening error log '%s', logging to stderr only: %v", filename, err)
		return &Log{}
	}
	return &Log{file: file}
}

// Printf records one failure event, timestamped, one line. A nil Log logs
// to stderr only.
func (l *Log) Printf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	log.Printf("[error] %s", line)

	if l == nil || l.file == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.file, "%s %s\n", time.Now().Format(time.DateTime), line)
}

// Close closes the underlying file, if any.
func (l *Log) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
