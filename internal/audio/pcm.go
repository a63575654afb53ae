package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// bytesPerFrame 16 位立体声一帧的字节数
const bytesPerFrame = 4

// PCM 解码后的音频数据
//
// Data 始终为 16 位小端交错立体声，采样率保持源文件原值；
// Channels 记录源文件的声道数。
type PCM struct {
	Data       []byte
	SampleRate int
	Channels   int
}

// Frames 返回采样帧数
func (p *PCM) Frames() int {
	if p == nil {
		return 0
	}
	return len(p.Data) / bytesPerFrame
}

// Duration 返回时长（秒）
func (p *PCM) Duration() float32 {
	if p == nil || p.SampleRate <= 0 {
		return 0
	}
	return float32(p.Frames()) / float32(p.SampleRate)
}

// sample 返回第 frame 帧的左右声道样本
func (p *PCM) sample(frame int) (int16, int16) {
	i := frame * bytesPerFrame
	l := int16(binary.LittleEndian.Uint16(p.Data[i:]))
	r := int16(binary.LittleEndian.Uint16(p.Data[i+2:]))
	return l, r
}

// Decode 根据扩展名解码音频数据
//
// 支持 .wav、.mp3、.ogg 和 .au。
func Decode(name string, data []byte) (*PCM, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".wav":
		return decodeWAV(data)
	case ".mp3":
		s, err := mp3.DecodeWithoutResampling(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 %s: %w", name, err)
		}
		return readStream(name, s, s.SampleRate(), 2)
	case ".ogg":
		s, err := vorbis.DecodeWithoutResampling(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG %s: %w", name, err)
		}
		return readStream(name, s, s.SampleRate(), 2)
	case ".au":
		pcm, err := decodeAU(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode AU %s: %w", name, err)
		}
		return pcm, nil
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", ext)
	}
}

func readStream(name string, r io.Reader, rate, channels int) (*PCM, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio stream %s: %w", name, err)
	}
	return &PCM{
		Data:       data,
		SampleRate: rate,
		Channels:   channels,
	}, nil
}

// wavFormat RIFF "fmt " 块的前 16 字节
type wavFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// decodeWAV 读取 fmt 块中的采样率和声道，再交给 ebiten 解码
func decodeWAV(data []byte) (*PCM, error) {
	// 1. 查找 fmt 块
	format, err := readWAVFormat(data)
	if err != nil {
		return nil, err
	}

	// 2. 解码为 16 位立体声
	s, err := wav.DecodeWithoutResampling(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode WAV: %w", err)
	}
	return readStream("wav", s, int(format.SampleRate), int(format.Channels))
}

func readWAVFormat(data []byte) (wavFormat, error) {
	var f wavFormat
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return f, fmt.Errorf("invalid WAV header")
	}
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4:]))
		body := pos + 8
		if id == "fmt " {
			if size < 16 || body+16 > len(data) {
				return f, fmt.Errorf("WAV fmt chunk too short: %d", size)
			}
			if err := binary.Read(bytes.NewReader(data[body:body+16]), binary.LittleEndian, &f); err != nil {
				return f, fmt.Errorf("failed to read WAV fmt chunk: %w", err)
			}
			if f.Channels < 1 || f.Channels > 2 {
				return f, fmt.Errorf("unsupported WAV channel count %d", f.Channels)
			}
			if f.SampleRate == 0 {
				return f, fmt.Errorf("WAV sample rate is zero")
			}
			return f, nil
		}
		// 块按偶数字节对齐
		pos = body + size + size%2
	}
	return f, fmt.Errorf("WAV fmt chunk not found")
}

// stereo16 把单声道或立体声样本转为小端交错立体声字节
func stereo16(samples []int16, channels int) []byte {
	frames := len(samples) / channels
	out := make([]byte, frames*bytesPerFrame)
	for i := 0; i < frames; i++ {
		l := samples[i*channels]
		r := l
		if channels == 2 {
			r = samples[i*channels+1]
		}
		binary.LittleEndian.PutUint16(out[i*bytesPerFrame:], uint16(l))
		binary.LittleEndian.PutUint16(out[i*bytesPerFrame+2:], uint16(r))
	}
	return out
}
