package barcode

const (
	DefaultGroupSize = 4
	hexDigits        = "0123456789abcdef"
)

// BitExtractor thresholds samples into bits and packs each group MSB-first into one hex digit.
type BitExtractor struct {
	GroupSize int
	Threshold int
}

func NewBitExtractor(threshold int) BitExtractor {
	return BitExtractor{GroupSize: DefaultGroupSize, Threshold: threshold}
}

// Extract returns len(frame)/GroupSize lowercase hex digits. Samples past the last
// complete group are ignored. A sample equal to Threshold is a 1.
func (e BitExtractor) Extract(frame []byte) string {
	size := e.GroupSize
	if size <= 0 {
		size = DefaultGroupSize
	}
	groups := len(frame) / size
	out := make([]byte, groups)
	for j := 0; j < groups; j++ {
		var nibble int
		for i := 0; i < size; i++ {
			nibble <<= 1
			if int(frame[j*size+i]) >= e.Threshold {
				nibble |= 1
			}
		}
		out[j] = hexDigits[nibble&0xf]
	}
	return string(out)
}
