package team

import "fmt"

// Team is one real-world club. The ID comes from the official competition API
// and is immutable once assigned; the display fields are overwritten whenever
// a richer source is merged in.
type Team struct {
	ID            int64
	CanonicalName string
	ShortName     string
	CrestURL      string
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id must be greater than zero")
	}
	if t.CanonicalName == "" {
		return fmt.Errorf("team canonical name is required")
	}

	return nil
}
