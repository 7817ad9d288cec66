package icon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"testing"
)

func posterPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestEncodeICO(t *testing.T) {
	data, err := EncodeICO(posterPNG(t, 400, 600))
	if err != nil {
		t.Fatalf("EncodeICO() error = %v", err)
	}

	// ICONDIR header: reserved 0, type 1, count
	if got := binary.LittleEndian.Uint16(data[0:2]); got != 0 {
		t.Errorf("reserved = %d, want 0", got)
	}
	if got := binary.LittleEndian.Uint16(data[2:4]); got != 1 {
		t.Errorf("type = %d, want 1 (icon)", got)
	}
	count := int(binary.LittleEndian.Uint16(data[4:6]))
	if count != len(iconSizes) {
		t.Fatalf("entry count = %d, want %d", count, len(iconSizes))
	}

	for i := 0; i < count; i++ {
		entry := data[6+16*i : 6+16*(i+1)]

		wantDim := byte(iconSizes[i])
		if iconSizes[i] >= 256 {
			wantDim = 0
		}
		if entry[0] != wantDim || entry[1] != wantDim {
			t.Errorf("entry %d dims = %dx%d, want %d", i, entry[0], entry[1], wantDim)
		}
		if planes := binary.LittleEndian.Uint16(entry[4:6]); planes != 1 {
			t.Errorf("entry %d planes = %d, want 1", i, planes)
		}
		if bits := binary.LittleEndian.Uint16(entry[6:8]); bits != 32 {
			t.Errorf("entry %d bit count = %d, want 32", i, bits)
		}

		size := binary.LittleEndian.Uint32(entry[8:12])
		offset := binary.LittleEndian.Uint32(entry[12:16])
		if int(offset)+int(size) > len(data) {
			t.Fatalf("entry %d extends past buffer: offset %d size %d", i, offset, size)
		}

		payload := data[offset : offset+size]
		if !bytes.HasPrefix(payload, pngSignature) {
			t.Errorf("entry %d payload is not PNG compressed", i)
		}

		img, err := png.Decode(bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("entry %d decode: %v", i, err)
		}
		if img.Bounds().Dx() != iconSizes[i] || img.Bounds().Dy() != iconSizes[i] {
			t.Errorf("entry %d cell = %dx%d, want %dx%d",
				i, img.Bounds().Dx(), img.Bounds().Dy(), iconSizes[i], iconSizes[i])
		}
	}
}

func TestEncodeICORejectsGarbage(t *testing.T) {
	if _, err := EncodeICO([]byte("not an image")); err == nil {
		t.Fatal("EncodeICO() expected error for undecodable input")
	}
}

func TestComposeCellKeepsPosterRatio(t *testing.T) {
	cell := composeCell(image.NewRGBA(image.Rect(0, 0, 200, 300)), 256)
	if cell.Bounds().Dx() != 256 || cell.Bounds().Dy() != 256 {
		t.Fatalf("cell = %v, want 256x256", cell.Bounds())
	}

	// Corners stay transparent because the 2:3 poster never fills the
	// square cell
	if _, _, _, a := cell.At(0, 0).RGBA(); a != 0 {
		t.Error("top-left corner not transparent")
	}
	if _, _, _, a := cell.At(255, 255).RGBA(); a != 0 {
		t.Error("bottom-right corner not transparent")
	}
}
