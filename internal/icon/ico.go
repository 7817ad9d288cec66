package icon

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"

	// Register decoders for poster inputs.
	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
)

// iconSizes are the square cells written into the icon, largest first.
// Windows picks the closest match for the current view.
var iconSizes = []int{256, 128, 64, 48, 32, 16}

// posterRatio is the width/height ratio the poster is rendered at so it
// keeps its cover shape inside the square icon cell.
const posterRatio = 2.0 / 3.0

// EncodeICO renders the poster image into a multi-size Windows icon.
// The poster is centered on a transparent canvas at 90% of the cell height,
// preserving the 2:3 cover ratio. Entries are PNG compressed.
func EncodeICO(posterData []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(posterData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode poster image: %w", err)
	}

	entries := make([][]byte, 0, len(iconSizes))
	for _, size := range iconSizes {
		cell := composeCell(src, size)
		var buf bytes.Buffer
		if err := png.Encode(&buf, cell); err != nil {
			return nil, fmt.Errorf("failed to encode icon cell %d: %w", size, err)
		}
		entries = append(entries, buf.Bytes())
	}

	return writeICO(entries)
}

// composeCell scales the poster into a transparent size x size canvas.
func composeCell(src image.Image, size int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))

	posterH := int(float64(size) * 0.9)
	posterW := int(float64(posterH) * posterRatio)
	if max := int(float64(size) * 0.9); posterW > max {
		posterW = max
		posterH = int(float64(posterW) / posterRatio)
	}

	x0 := (size - posterW) / 2
	y0 := (size - posterH) / 2
	dst := image.Rect(x0, y0, x0+posterW, y0+posterH)
	draw.CatmullRom.Scale(canvas, dst, src, src.Bounds(), draw.Over, nil)

	return canvas
}

// writeICO assembles PNG entries into the ICO container format.
func writeICO(entries [][]byte) ([]byte, error) {
	const (
		dirSize   = 6
		entrySize = 16
	)

	var buf bytes.Buffer

	// ICONDIR: reserved, type (1 = icon), count.
	header := []uint16{0, 1, uint16(len(entries))}
	for _, v := range header {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}

	offset := uint32(dirSize + entrySize*len(entries))
	for i, data := range entries {
		size := iconSizes[i]
		dim := byte(size)
		if size >= 256 {
			dim = 0 // 0 denotes 256 in ICONDIRENTRY
		}

		entry := struct {
			Width      byte
			Height     byte
			ColorCount byte
			Reserved   byte
			Planes     uint16
			BitCount   uint16
			BytesInRes uint32
			Offset     uint32
		}{
			Width:      dim,
			Height:     dim,
			Planes:     1,
			BitCount:   32,
			BytesInRes: uint32(len(data)),
			Offset:     offset,
		}
		if err := binary.Write(&buf, binary.LittleEndian, entry); err != nil {
			return nil, err
		}
		offset += uint32(len(data))
	}

	for _, data := range entries {
		buf.Write(data)
	}

	return buf.Bytes(), nil
}
