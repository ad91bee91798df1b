package sim

import "io"

// Source supplies the simulation input: the number of tellers, then customer
// records in input order. Next returns io.EOF once the input is exhausted.
type Source interface {
	Tellers() (int, error)
	Next() (Customer, error)
}

// SliceSource is an in-memory Source. Customers with a zero ID are numbered
// by their 1-based position. Records are passed through unchecked; the
// simulator rejects negative service durations with ErrInvalidCustomer.
type SliceSource struct {
	TellerCount int
	Customers   []Customer

	pos int
}

func (s *SliceSource) Tellers() (int, error) {
	return s.TellerCount, nil
}

func (s *SliceSource) Next() (Customer, error) {
	if s.pos >= len(s.Customers) {
		return Customer{}, io.EOF
	}
	c := s.Customers[s.pos]
	s.pos++
	if c.ID == 0 {
		c.ID = s.pos
	}
	return c, nil
}
