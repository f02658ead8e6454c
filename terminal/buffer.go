package terminal

import (
	"strings"
)

const (
	esc              = "\x1b"
	bracketedStart   = "\x1b[200~"
	bracketedEnd     = "\x1b[201~"
	stringTerminator = "\x1b\\"
)

// SequenceStatus classifies the head of an input buffer.
type SequenceStatus int

const (
	SequenceNotEscape SequenceStatus = iota
	SequenceIncomplete
	SequenceComplete
)

// StdinBuffer splits raw terminal reads into complete key sequences. Partial
// escape sequences are held until the rest arrives or Flush is called.
// Bracketed paste content is delivered whole to OnPaste instead of OnData.
type StdinBuffer struct {
	OnData  func(seq string)
	OnPaste func(text string)

	pending strings.Builder
	pasting bool
	paste   strings.Builder
}

func NewStdinBuffer(onData func(seq string)) *StdinBuffer {
	return &StdinBuffer{OnData: onData}
}

func (s *StdinBuffer) Process(data string) {
	s.pending.WriteString(data)
	buf := s.pending.String()
	s.pending.Reset()

	for len(buf) > 0 {
		if s.pasting {
			i := strings.Index(buf, bracketedEnd)
			if i == -1 {
				s.paste.WriteString(buf)
				return
			}
			s.paste.WriteString(buf[:i])
			s.finishPaste()
			buf = buf[i+len(bracketedEnd):]
			continue
		}
		if strings.HasPrefix(buf, bracketedStart) {
			s.pasting = true
			buf = buf[len(bracketedStart):]
			continue
		}

		n := sequenceLength(buf)
		if n == 0 {
			s.pending.WriteString(buf)
			return
		}
		s.emit(buf[:n])
		buf = buf[n:]
	}
}

// Flush emits whatever is held back as one sequence.
func (s *StdinBuffer) Flush() {
	if s.pasting {
		s.finishPaste()
	}
	if s.pending.Len() == 0 {
		return
	}
	seq := s.pending.String()
	s.pending.Reset()
	s.emit(seq)
}

func (s *StdinBuffer) emit(seq string) {
	if s.OnData != nil {
		s.OnData(seq)
	}
}

func (s *StdinBuffer) finishPaste() {
	text := s.paste.String()
	s.paste.Reset()
	s.pasting = false
	if s.OnPaste != nil {
		s.OnPaste(text)
	}
}

// sequenceLength returns the byte length of the first complete sequence in
// buf, or 0 when more input is needed.
func sequenceLength(buf string) int {
	if !strings.HasPrefix(buf, esc) {
		for i := range buf {
			if i > 0 {
				return i
			}
		}
		return len(buf)
	}
	if len(buf) > 1 && buf[1] == esc[0] {
		return 1
	}
	for n := 1; n <= len(buf); n++ {
		switch IsCompleteSequence(buf[:n]) {
		case SequenceComplete:
			return n
		case SequenceNotEscape:
			return n
		}
	}
	return 0
}

// IsCompleteSequence reports whether data is exactly one complete escape
// sequence, the start of one, or not an escape sequence at all.
func IsCompleteSequence(data string) SequenceStatus {
	if !strings.HasPrefix(data, esc) {
		return SequenceNotEscape
	}
	if len(data) == 1 {
		return SequenceIncomplete
	}

	switch data[1] {
	case '[':
		// legacy mouse: ESC [ M plus three bytes
		if strings.HasPrefix(data, esc+"[M") {
			if len(data) >= 6 {
				return SequenceComplete
			}
			return SequenceIncomplete
		}
		return isCompleteCSI(data)
	case ']':
		if strings.HasSuffix(data, stringTerminator) || strings.HasSuffix(data, "\x07") {
			return SequenceComplete
		}
		return SequenceIncomplete
	case 'P', '_':
		// DCS and APC end with ST
		if len(data) > 2 && strings.HasSuffix(data, stringTerminator) {
			return SequenceComplete
		}
		return SequenceIncomplete
	case 'O':
		if len(data) >= 3 {
			return SequenceComplete
		}
		return SequenceIncomplete
	default:
		// alt+key, or a doubled escape
		return SequenceComplete
	}
}

func isCompleteCSI(data string) SequenceStatus {
	if len(data) < 3 {
		return SequenceIncomplete
	}
	payload := data[2:]
	last := payload[len(payload)-1]
	if last < 0x40 || last > 0x7e {
		return SequenceIncomplete
	}
	// SGR mouse: ESC [ < b ; x ; y M|m
	if strings.HasPrefix(payload, "<") {
		if last != 'M' && last != 'm' {
			return SequenceIncomplete
		}
		parts := strings.Split(payload[1:len(payload)-1], ";")
		if len(parts) != 3 {
			return SequenceIncomplete
		}
		for _, p := range parts {
			if !isDigits(p) {
				return SequenceIncomplete
			}
		}
	}
	return SequenceComplete
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
