package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"

	"voice-servo/internal/domain"
)

const wavName = "utterance.wav"

// EncodeWAV renders the utterance as a 16-bit mono PCM WAV file.
func EncodeWAV(u domain.Utterance) ([]byte, error) {
	if u.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", u.SampleRate)
	}

	fs := afero.NewMemMapFs()
	f, err := fs.Create(wavName)
	if err != nil {
		return nil, fmt.Errorf("creating buffer: %w", err)
	}
	defer f.Close()

	data := make([]int, len(u.Samples))
	for i, s := range u.Samples {
		data[i] = int(s)
	}

	enc := wav.NewEncoder(f, u.SampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: u.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("encoding samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalizing wav: %w", err)
	}

	return afero.ReadFile(fs, wavName)
}

// DecodeWAV reads a PCM WAV file. Multi-channel input keeps the first channel
// and samples are rescaled to 16 bits.
func DecodeWAV(r io.ReadSeeker) (domain.Utterance, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return domain.Utterance{}, errors.New("not a valid wav file")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return domain.Utterance{}, fmt.Errorf("reading pcm: %w", err)
	}

	channels := int(d.NumChans)
	if channels < 1 {
		channels = 1
	}
	shift := int(d.BitDepth) - 16
	// 8-bit PCM is unsigned with silence at 128.
	unsigned := d.BitDepth == 8

	samples := make([]int16, 0, len(buf.Data)/channels)
	for i := 0; i < len(buf.Data); i += channels {
		v := buf.Data[i]
		if unsigned {
			v -= 128
		}
		switch {
		case shift > 0:
			v >>= shift
		case shift < 0:
			v <<= -shift
		}
		samples = append(samples, int16(v))
	}

	return domain.Utterance{Samples: samples, SampleRate: int(d.SampleRate)}, nil
}

func decodeWAVBytes(data []byte) (domain.Utterance, error) {
	return DecodeWAV(bytes.NewReader(data))
}
