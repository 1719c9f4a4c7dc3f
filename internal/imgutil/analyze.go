package imgutil

import "math"

// LSBReport summarizes bit plane 0 of every channel value.
type LSBReport struct {
	Zeros     int
	Ones      int
	ZeroRatio float64 // percent
	Entropy   float64 // bits per byte of the packed LSB stream, max 8
}

// LooksRandom reports whether the LSB plane is statistically close to
// noise, as encrypted or compressed payloads leave it.
func (r LSBReport) LooksRandom() bool {
	return r.ZeroRatio > 45 && r.ZeroRatio < 55 && r.Entropy > 7.5
}

// AnalyzeLSB packs the LSB of every channel value into bytes and measures
// the 0/1 balance and the byte entropy of that stream.
func AnalyzeLSB(g *Grid) LSBReport {
	var report LSBReport
	if g.Len() == 0 {
		return report
	}

	frequency := make(map[byte]int)
	var acc byte
	n := 0
	packed := 0

	for _, v := range g.Pix {
		bit := v & 1
		if bit == 0 {
			report.Zeros++
		} else {
			report.Ones++
		}

		acc = acc<<1 | bit
		n++
		if n == 8 {
			frequency[acc]++
			packed++
			acc, n = 0, 0
		}
	}

	report.ZeroRatio = float64(report.Zeros) / float64(report.Zeros+report.Ones) * 100

	for _, count := range frequency {
		p := float64(count) / float64(packed)
		report.Entropy -= p * math.Log2(p)
	}

	return report
}
