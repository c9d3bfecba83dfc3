package entropy

// Scripted replays fixed values before falling back to a seeded Source.
// It lets tests force specific draws.
type Scripted struct {
	Floats []float64
	Ints   []int // Taken modulo n

	fallback *Source
}

// NewScripted creates a scripted source that falls back to seed 1 once the
// scripts run out.
func NewScripted(floats []float64, ints []int) *Scripted {
	return &Scripted{Floats: floats, Ints: ints, fallback: NewSource(1)}
}

// Float returns the next scripted float or a fallback draw.
func (s *Scripted) Float() float64 {
	if len(s.Floats) == 0 {
		return s.fallback.Float()
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

// Intn returns the next scripted int modulo n or a fallback draw.
func (s *Scripted) Intn(n int) int {
	if len(s.Ints) == 0 {
		return s.fallback.Intn(n)
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	return v % n
}
