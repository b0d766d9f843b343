package vq

// Survivors is the M-best list width used by every search stage.
const Survivors = 5

// Stages is the depth of the cascaded cepstral quantizer.
const Stages = 3

// Indices names one entry per stage.
type Indices [Stages]int

// candidate is a partial or complete quantization path with its cumulative
// squared error.
type candidate struct {
	dist float32
	idx  Indices
}

// survivors is a fixed-capacity list of candidates kept sorted by ascending
// distortion.
type survivors struct {
	n int
	c [Survivors]candidate
}

func (s *survivors) reset() { s.n = 0 }

// insert adds c if the list is not full or c beats the current worst entry.
// Equal distortions keep their arrival order.
func (s *survivors) insert(c candidate) bool {
	if s.n == Survivors && c.dist >= s.c[Survivors-1].dist {
		return false
	}
	pos := 0
	for pos < s.n && s.c[pos].dist <= c.dist {
		pos++
	}
	end := min(s.n, Survivors-1)
	copy(s.c[pos+1:end+1], s.c[pos:end])
	s.c[pos] = c
	if s.n < Survivors {
		s.n++
	}
	return true
}

// best returns the lowest-distortion candidate. The list must be non-empty.
func (s *survivors) best() candidate { return s.c[0] }

func (s *survivors) items() []candidate { return s.c[:s.n] }
