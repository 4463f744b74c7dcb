package bridge

import (
	"encoding/binary"
	"encoding/json"
	"io"
)

// maxFrameLength bounds a single frame so a corrupt or hostile length prefix
// can't drive an arbitrarily large allocation.
const maxFrameLength = 16 * 1024 * 1024

// writeFrame marshals v to JSON and writes it as a 4-byte big-endian length
// prefix followed by the payload, the same envelope peer.go's
// sendQuicBytes/receiveQuicBytes use for inter-node messages.
func writeFrame(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// readFrame reads one length-prefixed JSON frame into v.
func readFrame(r io.Reader, v any) error {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return err
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	if length > maxFrameLength {
		return &FrameTooLarge{Length: length}
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return err
	}
	return json.Unmarshal(payload, v)
}

// FrameTooLarge reports a length prefix exceeding maxFrameLength.
type FrameTooLarge struct {
	Length uint32
}

func (e *FrameTooLarge) Error() string {
	return "bridge: frame length exceeds limit"
}
