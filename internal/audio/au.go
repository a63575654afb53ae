package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Sun/NeXT (.au) 文件头（大端，至少 24 字节）
type auHeader struct {
	Magic      uint32 // ".snd"
	DataOffset uint32
	DataSize   uint32 // 未知时为 0xFFFFFFFF
	Encoding   uint32
	SampleRate uint32
	Channels   uint32
}

const (
	auMagic         = 0x2e736e64
	auEncodingULaw  = 1 // 8 位 μ-law
	auEncodingPCM16 = 3 // 16 位线性 PCM（大端）
)

// μ-law → 16 位 PCM
var mulawTable = [256]int16{
	-32124, -31100, -30076, -29052, -28028, -27004, -25980, -24956,
	-23932, -22908, -21884, -20860, -19836, -18812, -17788, -16764,
	-15996, -15484, -14972, -14460, -13948, -13436, -12924, -12412,
	-11900, -11388, -10876, -10364, -9852, -9340, -8828, -8316,
	-7932, -7676, -7420, -7164, -6908, -6652, -6396, -6140,
	-5884, -5628, -5372, -5116, -4860, -4604, -4348, -4092,
	-3900, -3772, -3644, -3516, -3388, -3260, -3132, -3004,
	-2876, -2748, -2620, -2492, -2364, -2236, -2108, -1980,
	-1884, -1820, -1756, -1692, -1628, -1564, -1500, -1436,
	-1372, -1308, -1244, -1180, -1116, -1052, -988, -924,
	-876, -844, -812, -780, -748, -716, -684, -652,
	-620, -588, -556, -524, -492, -460, -428, -396,
	-372, -356, -340, -324, -308, -292, -276, -260,
	-244, -228, -212, -196, -180, -164, -148, -132,
	-120, -112, -104, -96, -88, -80, -72, -64,
	-56, -48, -40, -32, -24, -16, -8, 0,
	32124, 31100, 30076, 29052, 28028, 27004, 25980, 24956,
	23932, 22908, 21884, 20860, 19836, 18812, 17788, 16764,
	15996, 15484, 14972, 14460, 13948, 13436, 12924, 12412,
	11900, 11388, 10876, 10364, 9852, 9340, 8828, 8316,
	7932, 7676, 7420, 7164, 6908, 6652, 6396, 6140,
	5884, 5628, 5372, 5116, 4860, 4604, 4348, 4092,
	3900, 3772, 3644, 3516, 3388, 3260, 3132, 3004,
	2876, 2748, 2620, 2492, 2364, 2236, 2108, 1980,
	1884, 1820, 1756, 1692, 1628, 1564, 1500, 1436,
	1372, 1308, 1244, 1180, 1116, 1052, 988, 924,
	876, 844, 812, 780, 748, 716, 684, 652,
	620, 588, 556, 524, 492, 460, 428, 396,
	372, 356, 340, 324, 308, 292, 276, 260,
	244, 228, 212, 196, 180, 164, 148, 132,
	120, 112, 104, 96, 88, 80, 72, 64,
	56, 48, 40, 32, 24, 16, 8, 0,
}

// decodeAU 把 .au 数据解码为 16 位小端立体声 PCM
func decodeAU(data []byte) (*PCM, error) {
	// 1. 文件头
	if len(data) < 24 {
		return nil, fmt.Errorf("au data too short: %d bytes (minimum 24)", len(data))
	}
	var h auHeader
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("failed to read au header: %w", err)
	}
	if h.Magic != auMagic {
		return nil, fmt.Errorf("invalid au magic 0x%08x", h.Magic)
	}
	if h.Channels < 1 || h.Channels > 2 {
		return nil, fmt.Errorf("unsupported au channel count %d", h.Channels)
	}
	if h.SampleRate == 0 {
		return nil, fmt.Errorf("au sample rate is zero")
	}
	off := int(h.DataOffset)
	if off < 24 || off > len(data) {
		return nil, fmt.Errorf("invalid au data offset %d (size %d)", off, len(data))
	}
	body := data[off:]
	if h.DataSize != 0xFFFFFFFF && int(h.DataSize) < len(body) {
		body = body[:h.DataSize]
	}

	// 2. 样本
	var samples []int16
	switch h.Encoding {
	case auEncodingULaw:
		samples = make([]int16, len(body))
		for i, b := range body {
			samples[i] = mulawTable[b]
		}
	case auEncodingPCM16:
		samples = make([]int16, len(body)/2)
		for i := range samples {
			samples[i] = int16(binary.BigEndian.Uint16(body[2*i:]))
		}
	default:
		return nil, fmt.Errorf("unsupported au encoding %d", h.Encoding)
	}

	// 3. 转为立体声
	return &PCM{
		Data:       stereo16(samples, int(h.Channels)),
		SampleRate: int(h.SampleRate),
		Channels:   int(h.Channels),
	}, nil
}
