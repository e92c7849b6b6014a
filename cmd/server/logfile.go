package main

import (
	"io"
	"os"
	"sync"
)

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

// logFileWriter appends to a file and, once it grows past maxLogSizeBytes,
// keeps only the newest keepLogSizeBytes.
type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex

	maxSize  int64
	keepSize int64
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	return newSizedLogFileWriter(path, maxLogSizeBytes, keepLogSizeBytes)
}

func newSizedLogFileWriter(path string, maxSize, keepSize int64) (*logFileWriter, *os.File, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file, maxSize: maxSize, keepSize: keepSize}
	if err := writer.truncateIfNeeded(); err != nil {
		file.Close()
		return nil, nil, err
	}
	return writer, file, nil
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= w.maxSize {
		return nil
	}

	buf := make([]byte, w.keepSize)
	n, err := w.file.ReadAt(buf, size-w.keepSize)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	// O_APPEND writes land at the new end after truncation.
	_, err = w.file.Write(buf)
	return err
}
