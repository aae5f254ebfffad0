package barcode

import "github.com/fiapx/fiapx-barcode-reader/internal/domain/entity"

// Decoder turns a sequence of frames into transitions, dropping frames whose
// code repeats the last emitted one.
type Decoder struct {
	extractor BitExtractor
	prev      string
	started   bool
	frames    int
}

func NewDecoder(extractor BitExtractor) *Decoder {
	return &Decoder{extractor: extractor}
}

// Feed consumes one frame. The frame counter advances whether or not a transition is returned.
func (d *Decoder) Feed(frame []byte) (entity.Transition, bool) {
	index := d.frames
	d.frames++

	code := d.extractor.Extract(frame)
	if d.started && code == d.prev {
		return entity.Transition{}, false
	}
	d.started = true
	d.prev = code
	return entity.Transition{Index: index, Code: code}, true
}

// Frames reports how many frames have been fed so far.
func (d *Decoder) Frames() int {
	return d.frames
}
