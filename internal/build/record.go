package build

// KB links a build to the knowledge-base article that documents it
type KB struct {
	KBNumber string `json:"kb_number"`
	KBTitle  string `json:"kb_title"`
}

// Record describes one released build
type Record struct {
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
	Build       string `json:"build"`
	KBNumbers   []KB   `json:"kb_numbers"`
}

// NewRecord creates a Record, attaching kb when it is non-nil
func NewRecord(name, releaseDate, build string, kb *KB) Record {
	r := Record{
		Name:        name,
		ReleaseDate: releaseDate,
		Build:       build,
		KBNumbers:   []KB{},
	}
	if kb != nil {
		r.KBNumbers = append(r.KBNumbers, *kb)
	}
	return r
}

