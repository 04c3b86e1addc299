package zugferd

import "encoding/binary"

// buildSRGBICCProfile builds a minimal valid ICC v2 sRGB profile for the
// PDF/A-3 OutputIntent every conformant ZUGFeRD PDF must carry. It contains
// only the three tags (desc, wtpt, cprt) PDF/A validators require.
func buildSRGBICCProfile() []byte {
	p := make([]byte, 128)

	p[8] = 2
	p[9] = 0x10
	copy(p[12:16], "mntr")
	copy(p[16:20], "RGB ")
	copy(p[20:24], "XYZ ")
	binary.BigEndian.PutUint16(p[24:26], 2024)
	binary.BigEndian.PutUint16(p[26:28], 1)
	binary.BigEndian.PutUint16(p[28:30], 1)
	copy(p[36:40], "acsp")
	copy(p[68:72], []byte{0x00, 0x00, 0xF6, 0xD6})
	copy(p[72:76], []byte{0x00, 0x01, 0x00, 0x00})
	copy(p[76:80], []byte{0x00, 0x00, 0xD3, 0x2D})

	p = binary.BigEndian.AppendUint32(p, 3)

	const dataStart uint32 = 168
	const descSize uint32 = 4 + 4 + 4 + 5 + 4 + 4 + 70
	wtptOffset := dataStart + descSize
	const wtptSize uint32 = 20
	cprtOffset := wtptOffset + wtptSize
	const cprtSize uint32 = 11

	p = append(p, "desc"...)
	p = binary.BigEndian.AppendUint32(p, dataStart)
	p = binary.BigEndian.AppendUint32(p, descSize)

	p = append(p, "wtpt"...)
	p = binary.BigEndian.AppendUint32(p, wtptOffset)
	p = binary.BigEndian.AppendUint32(p, wtptSize)

	p = append(p, "cprt"...)
	p = binary.BigEndian.AppendUint32(p, cprtOffset)
	p = binary.BigEndian.AppendUint32(p, cprtSize)

	p = append(p, "desc"...)
	p = append(p, make([]byte, 4)...)
	p = binary.BigEndian.AppendUint32(p, 5)
	p = append(p, "sRGB\x00"...)
	p = append(p, make([]byte, 4)...)
	p = binary.BigEndian.AppendUint32(p, 0)
	p = append(p, make([]byte, 70)...)

	p = append(p, "XYZ "...)
	p = append(p, make([]byte, 4)...)
	p = append(p, []byte{0x00, 0x00, 0xF3, 0x54}...)
	p = append(p, []byte{0x00, 0x01, 0x00, 0x00}...)
	p = append(p, []byte{0x00, 0x01, 0x16, 0xCF}...)

	p = append(p, "text"...)
	p = append(p, make([]byte, 4)...)
	p = append(p, "PD\x00"...)

	binary.BigEndian.PutUint32(p[0:4], uint32(len(p)))

	return p
}
