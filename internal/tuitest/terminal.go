package tuitest

import (
	"bytes"
	"io"
)

const (
	responderMaxBuffer = 256
	responderTail      = 64
)

// queryReply pairs a terminal capability query with the answer a real
// terminal would send back. Bubble Tea and lipgloss block on some of these
// while detecting the background color.
type queryReply struct {
	query []byte
	reply []byte
}

var terminalReplies = []queryReply{
	{query: []byte("\x1b[6n"), reply: []byte("\x1b[1;1R")},
	{query: []byte("\x1b]10;?\x07"), reply: []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{query: []byte("\x1b]10;?\x1b\\"), reply: []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{query: []byte("\x1b]11;?\x07"), reply: []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{query: []byte("\x1b]11;?\x1b\\"), reply: []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, 128)}
}

// Process feeds program output to the responder. Queries split across
// chunks are matched once the rest arrives.
func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerNext() {
	}
	if len(tr.buf) > responderMaxBuffer {
		tr.buf = tr.buf[len(tr.buf)-responderTail:]
	}
}

// answerNext replies to the earliest pending query in the buffer.
func (tr *terminalResponder) answerNext() bool {
	first, at := -1, -1
	for i, qr := range terminalReplies {
		idx := bytes.Index(tr.buf, qr.query)
		if idx >= 0 && (at < 0 || idx < at) {
			first, at = i, idx
		}
	}
	if first < 0 {
		return false
	}
	qr := terminalReplies[first]
	tr.buf = tr.buf[at+len(qr.query):]
	_, _ = tr.w.Write(qr.reply)
	return true
}
