package palette

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"io"

	"golang.org/x/image/riff"
)

// RIFF PAL layout, little-endian throughout:
//
//	"RIFF" <size> "PAL " "data" <size> <palVersion=0x0300> <count> <count * RGBX>

const palVersion = 0x0300

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// ReadFrom decodes the first palette of a RIFF PAL stream.
func ReadFrom(r io.Reader) (Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	for {
		id, _, data, err := rd.Next()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("RIFF stream has no palette chunk")
			}
			return nil, fmt.Errorf("could not read chunk: %w", err)
		}
		if id != dataType {
			continue
		}
		return readEntries(data)
	}
}

func readEntries(r io.Reader) (Palette, error) {
	buf := make([]byte, 2)

	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("could not read palette version: %w", err)
	}
	if ver := binary.LittleEndian.Uint16(buf); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version: %#04x", ver)
	}

	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("could not read number of entries: %w", err)
	}
	count := binary.LittleEndian.Uint16(buf)

	pal := make(Palette, count)
	entry := make([]byte, 4)
	for i := range count {
		if _, err := io.ReadFull(r, entry); err != nil {
			return pal, fmt.Errorf("could not read color %d/%d: %w", i, count, err)
		}
		pal[i] = color.RGBA{R: entry[0], G: entry[1], B: entry[2], A: 0xFF}
	}

	return pal, nil
}

// WriteTo encodes the palette as a single-chunk RIFF PAL stream.
func (p Palette) WriteTo(w io.Writer) (int64, error) {
	dataLen := 2 + 2 + len(p)*4
	total := 4 + 8 + dataLen // form type + data chunk header + payload

	var n int64
	put := func(b []byte, what string) error {
		m, err := w.Write(b)
		n += int64(m)
		if err != nil {
			return fmt.Errorf("could not write %s: %w", what, err)
		} else if m != len(b) {
			return fmt.Errorf("wrote only %d/%d bytes of %s", m, len(b), what)
		}
		return nil
	}

	if err := put(riffType[:], "RIFF magic"); err != nil {
		return n, err
	}
	if err := put(binary.LittleEndian.AppendUint32(nil, uint32(total)), "document size"); err != nil {
		return n, err
	}
	if err := put(palType[:], "content type"); err != nil {
		return n, err
	}
	if err := put(dataType[:], "chunk type"); err != nil {
		return n, err
	}
	if err := put(binary.LittleEndian.AppendUint32(nil, uint32(dataLen)), "chunk size"); err != nil {
		return n, err
	}
	if err := put(binary.LittleEndian.AppendUint16(nil, palVersion), "palette version"); err != nil {
		return n, err
	}
	if err := put(binary.LittleEndian.AppendUint16(nil, uint16(len(p))), "number of colors"); err != nil {
		return n, err
	}

	for i, c := range p {
		if err := put([]byte{c.R, c.G, c.B, 0x00}, fmt.Sprintf("color %d/%d", i, len(p))); err != nil {
			return n, err
		}
	}

	return n, nil
}
