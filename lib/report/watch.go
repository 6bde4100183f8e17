// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/binary"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// watchDebounce coalesces bursts of writes (an exporter rewriting the
// snapshot in several passes) into a single reload.
const watchDebounce = 50 * time.Millisecond

// Watch starts an inotify watcher on a snapshot file and delivers a
// freshly loaded report on the returned channel each time the file is
// rewritten with different content. The stop function ends the watcher
// and closes the inotify fd; the channel is closed when the watcher
// exits.
//
// The parent directory is watched for IN_CLOSE_WRITE and IN_MOVED_TO
// on the target filename, so both in-place writes and atomic renames
// are seen. initial is the fingerprint of the report already shown;
// content with the same fingerprint is not redelivered.
func Watch(path string, initial string, options LoadOptions, logger *slog.Logger) (<-chan *Report, func(), error) {
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, err
	}

	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, nil, err
	}
	if _, err := unix.InotifyAddWatch(fd, filepath.Dir(absolutePath), unix.IN_CLOSE_WRITE|unix.IN_MOVED_TO); err != nil {
		unix.Close(fd)
		return nil, nil, err
	}

	watcher := &snapshotWatcher{
		fd:          fd,
		path:        absolutePath,
		filename:    filepath.Base(absolutePath),
		options:     options,
		logger:      logger,
		fingerprint: initial,
		reports:     make(chan *Report, 1),
		stop:        make(chan struct{}),
	}
	go watcher.loop()

	stopped := false
	stop := func() {
		if stopped {
			return
		}
		stopped = true
		close(watcher.stop)
	}
	return watcher.reports, stop, nil
}

type snapshotWatcher struct {
	fd          int
	path        string
	filename    string
	options     LoadOptions
	logger      *slog.Logger
	fingerprint string
	reports     chan *Report
	stop        chan struct{}
}

// loop polls the inotify fd with a 100ms timeout so the stop channel
// is checked promptly.
func (watcher *snapshotWatcher) loop() {
	defer close(watcher.reports)
	defer unix.Close(watcher.fd)

	buffer := make([]byte, 4096)
	for {
		select {
		case <-watcher.stop:
			return
		default:
		}

		pollDescriptors := []unix.PollFd{{Fd: int32(watcher.fd), Events: unix.POLLIN}}
		count, err := unix.Poll(pollDescriptors, 100)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			watcher.logger.Warn("snapshot watcher stopped", "path", watcher.path, "error", err)
			return
		}
		if count == 0 {
			continue
		}

		bytesRead, err := unix.Read(watcher.fd, buffer)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			watcher.logger.Warn("snapshot watcher stopped", "path", watcher.path, "error", err)
			return
		}
		if !inotifyMatchesFile(buffer[:bytesRead], watcher.filename) {
			continue
		}

		time.Sleep(watchDebounce)
		drainInotifyEvents(watcher.fd, buffer)

		report, err := Load(watcher.path, watcher.options)
		if err != nil {
			// Mid-write or briefly absent during an atomic replace.
			// The completing write raises another event.
			watcher.logger.Debug("snapshot reload skipped", "path", watcher.path, "error", err)
			continue
		}
		if report.Fingerprint() == watcher.fingerprint {
			continue
		}
		watcher.fingerprint = report.Fingerprint()

		// Only the newest report matters; replace an undelivered one.
		select {
		case <-watcher.reports:
		default:
		}
		select {
		case watcher.reports <- report:
		case <-watcher.stop:
			return
		}
	}
}

// inotifyMatchesFile checks whether any inotify event in the buffer
// names the target file. Layout from inotify(7):
//
//	struct inotify_event {
//	    int32_t  wd;     // offset 0
//	    uint32_t mask;   // offset 4
//	    uint32_t cookie; // offset 8
//	    uint32_t len;    // offset 12
//	    char     name[]; // offset 16, null-padded to alignment
//	};
func inotifyMatchesFile(buffer []byte, target string) bool {
	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buffer) {
		nameLength := int(binary.NativeEndian.Uint32(buffer[offset+12 : offset+16]))
		eventSize := unix.SizeofInotifyEvent + nameLength
		if offset+eventSize > len(buffer) {
			break
		}
		if nameLength > 0 && nullTerminated(buffer[offset+unix.SizeofInotifyEvent:offset+eventSize]) == target {
			return true
		}
		offset += eventSize
	}
	return false
}

func nullTerminated(data []byte) string {
	for index, value := range data {
		if value == 0 {
			return string(data[:index])
		}
	}
	return string(data)
}

func drainInotifyEvents(fd int, buffer []byte) {
	for {
		if _, err := unix.Read(fd, buffer); err != nil {
			return
		}
	}
}
