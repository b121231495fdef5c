package media

import (
	"bytes"
	"encoding/binary"
	"errors"
	"time"
)

const wavHeaderSize = 44

// PCMToWAV prepends a RIFF/WAVE header to little-endian 16-bit PCM samples.
func PCMToWAV(pcm []byte, sampleRate, channels int) []byte {
	const bitsPerSample = 16
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + len(pcm))
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

var errNotWAV = errors.New("media: not a canonical PCM WAV file")

// wavDuration computes playback length from a canonical 44-byte header.
func wavDuration(data []byte) (time.Duration, error) {
	if len(data) < wavHeaderSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return 0, errNotWAV
	}
	byteRate := binary.LittleEndian.Uint32(data[28:32])
	dataLen := binary.LittleEndian.Uint32(data[40:44])
	if byteRate == 0 {
		return 0, errNotWAV
	}
	return time.Duration(float64(dataLen) / float64(byteRate) * float64(time.Second)), nil
}
